package domain

import (
	"context"
	"time"

	"github.com/saralbooks/saralbooks/internal/document/calc"
	"github.com/saralbooks/saralbooks/pkg/db/pagination"
)

type Service interface {
	// NewDraft returns a blank draft dated today with one empty line.
	// Sale drafts additionally clone every active duty ledger master with
	// its amount reset to zero.
	NewDraft(ctx context.Context, docType string) (*Response, error)
	// Recalculate is the stateless per-edit preview: prefill from the
	// party and stock catalogs, then run the engine. Nothing is persisted.
	Recalculate(ctx context.Context, req Request) (*Response, error)
	Create(ctx context.Context, req Request) (*Response, error)
	Update(ctx context.Context, req Request) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Delete(ctx context.Context, id string) error
}

// Request is the edit-shaped payload for previews, creates and updates.
// The embedded draft carries items, adjustments and the manual tax state.
type Request struct {
	calc.Draft

	ID           string `json:"id,omitempty"`
	Number       string `json:"number"`
	DocDate      string `json:"doc_date"`
	PartyName    string `json:"party_name"`
	PartyGSTIN   string `json:"party_gstin"`
	PartyAddress string `json:"party_address"`
	Status       string `json:"status,omitempty"`
	Note         string `json:"note,omitempty"`
}

type ListRequest struct {
	Type     string `form:"type"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`

	pagination.Pagination
}

type Response struct {
	calc.Draft

	ID           string    `json:"id,omitempty"`
	CompanyID    string    `json:"company_id,omitempty"`
	Number       string    `json:"number"`
	DocDate      string    `json:"doc_date"`
	PartyName    string    `json:"party_name"`
	PartyGSTIN   string    `json:"party_gstin"`
	PartyAddress string    `json:"party_address"`
	Status       string    `json:"status,omitempty"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

type ListResponse struct {
	Documents []Response           `json:"documents"`
	PageInfo  *pagination.PageInfo `json:"page_info"`
}
