package domain

import "errors"

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidID      = errors.New("invalid_document_id")
	ErrInvalidType    = errors.New("invalid_document_type")
	ErrInvalidDate    = errors.New("invalid_document_date")
	ErrMissingParty   = errors.New("missing_party_name")
	ErrMissingNumber  = errors.New("missing_document_number")
	ErrNotFound       = errors.New("document_not_found")
)
