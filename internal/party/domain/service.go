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
	// Lookup resolves a party by exact name, case-insensitively. Used to
	// prefill GSTIN and address when a document names a known party; a miss
	// is not an error.
	Lookup(ctx context.Context, name string) (*Response, error)
}

type CreateRequest struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin"`
	Address string `json:"address"`
}

type UpdateRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	GSTIN   *string `json:"gstin,omitempty"`
	Address *string `json:"address,omitempty"`
}

type Response struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	GSTIN     string    `json:"gstin"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
