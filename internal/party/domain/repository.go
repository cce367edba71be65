package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	Name   string
	Search string
}

type Repository interface {
	Create(ctx context.Context, party *Party) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*Party, error)
	FindByName(ctx context.Context, companyID snowflake.ID, name string) (*Party, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListRequest) ([]Party, error)
	Update(ctx context.Context, party *Party) error
	SoftDelete(ctx context.Context, companyID, id snowflake.ID) error
}
