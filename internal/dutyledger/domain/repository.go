package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListRequest struct {
	Search string
}

type Repository interface {
	Create(ctx context.Context, ledger *DutyLedger) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*DutyLedger, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListRequest) ([]DutyLedger, error)
	// ListActive returns every non-deleted ledger in creation order, for
	// cloning into a fresh draft.
	ListActive(ctx context.Context, companyID snowflake.ID) ([]DutyLedger, error)
	Update(ctx context.Context, ledger *DutyLedger) error
	SoftDelete(ctx context.Context, companyID, id snowflake.ID) error
}
