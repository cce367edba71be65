package domain

import "errors"

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidID      = errors.New("invalid_duty_ledger_id")
	ErrInvalidKind    = errors.New("invalid_duty_ledger_kind")
	ErrInvalidMethod  = errors.New("invalid_duty_ledger_method")
	ErrInvalidApplyOn = errors.New("invalid_duty_ledger_apply_on")
	ErrNotFound       = errors.New("duty_ledger_not_found")
)
