package domain

import "errors"

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidWindow  = errors.New("invalid_date_window")
)
