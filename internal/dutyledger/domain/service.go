package domain

import (
	"context"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	ListActive(ctx context.Context) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	Method      string  `json:"method"`
	Rate        float64 `json:"rate"`
	FixedAmount float64 `json:"fixed_amount"`
	ApplyOn     string  `json:"apply_on"`
}

type UpdateRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Kind        *string  `json:"kind,omitempty"`
	Method      *string  `json:"method,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
	FixedAmount *float64 `json:"fixed_amount,omitempty"`
	ApplyOn     *string  `json:"apply_on,omitempty"`
}

type Response struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Kind        string    `json:"kind"`
	Method      string    `json:"method"`
	Rate        float64   `json:"rate"`
	FixedAmount float64   `json:"fixed_amount"`
	ApplyOn     string    `json:"apply_on"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
