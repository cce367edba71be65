package dutyledger

import (
	"github.com/saralbooks/saralbooks/internal/dutyledger/repository"
	"github.com/saralbooks/saralbooks/internal/dutyledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dutyledger.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
