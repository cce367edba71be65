package party

import (
	"github.com/saralbooks/saralbooks/internal/party/repository"
	"github.com/saralbooks/saralbooks/internal/party/service"
	"go.uber.org/fx"
)

var Module = fx.Module("party.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
