package stock

import (
	"github.com/saralbooks/saralbooks/internal/stock/repository"
	"github.com/saralbooks/saralbooks/internal/stock/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stock.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
