package domain

import "errors"

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_stock_item_id")
	ErrInvalidTaxRate = errors.New("invalid_tax_rate")
	ErrNotFound       = errors.New("stock_item_not_found")
)
