package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	Search string
}

type Repository interface {
	Create(ctx context.Context, item *StockItem) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*StockItem, error)
	FindByName(ctx context.Context, companyID snowflake.ID, name string) (*StockItem, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListRequest) ([]StockItem, error)
	Update(ctx context.Context, item *StockItem) error
	SoftDelete(ctx context.Context, companyID, id snowflake.ID) error
}
