package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/pkg/db/pagination"
)

type ListFilter struct {
	Type     string
	Status   string
	Search   string
	DateFrom string
	DateTo   string

	Pagination pagination.Pagination
}

type SummaryRow struct {
	Type       string
	Count      int64
	GrandTotal float64
}

type Repository interface {
	// Save writes the document as a flat column map. When the database
	// reports an unknown column the offending entry is stripped and the
	// write retried, so a schema that trails the code degrades to partial
	// rows instead of failing the submit.
	Save(ctx context.Context, doc *Document, isNew bool) error
	FindByID(ctx context.Context, companyID, id snowflake.ID) (*Document, error)
	List(ctx context.Context, companyID snowflake.ID, filter ListFilter) ([]Document, *pagination.PageInfo, error)
	SoftDelete(ctx context.Context, companyID, id snowflake.ID) error
	// Summarize aggregates grand totals and counts per document type over
	// an inclusive ISO date window. Empty bounds widen the window.
	Summarize(ctx context.Context, companyID snowflake.ID, dateFrom, dateTo string) ([]SummaryRow, error)
}
