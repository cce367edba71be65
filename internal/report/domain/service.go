package domain

import "context"

type Service interface {
	// Summary aggregates the dashboard figures over an inclusive ISO date
	// window. Empty bounds widen the window.
	Summary(ctx context.Context, req SummaryRequest) (*SummaryResponse, error)
}

type SummaryRequest struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type SummaryResponse struct {
	Receivable    float64 `json:"receivable"`
	Payable       float64 `json:"payable"`
	SaleCount     int64   `json:"sale_count"`
	PurchaseCount int64   `json:"purchase_count"`
}
