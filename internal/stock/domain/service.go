package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	// Lookup resolves a catalog item by exact name, case-insensitively.
	// A miss is not an error.
	Lookup(ctx context.Context, name string) (*Response, error)
}

type CreateRequest struct {
	Name           string  `json:"name"`
	HSNCode        string  `json:"hsn_code"`
	Unit           string  `json:"unit"`
	Rate           float64 `json:"rate"`
	TaxRatePercent float64 `json:"tax_rate_percent"`
}

type UpdateRequest struct {
	ID             string   `json:"id"`
	Name           *string  `json:"name,omitempty"`
	HSNCode        *string  `json:"hsn_code,omitempty"`
	Unit           *string  `json:"unit,omitempty"`
	Rate           *float64 `json:"rate,omitempty"`
	TaxRatePercent *float64 `json:"tax_rate_percent,omitempty"`
}

type Response struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	Name           string    `json:"name"`
	HSNCode        string    `json:"hsn_code"`
	Unit           string    `json:"unit"`
	Rate           float64   `json:"rate"`
	TaxRatePercent float64   `json:"tax_rate_percent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
