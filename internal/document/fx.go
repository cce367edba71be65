package document

import (
	"github.com/saralbooks/saralbooks/internal/document/render"
	"github.com/saralbooks/saralbooks/internal/document/repository"
	"github.com/saralbooks/saralbooks/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(render.New),
)
