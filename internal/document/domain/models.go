package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

// Document is a persisted bill or invoice. Sale and Purchase rows share
// the table behind the type tag; line items and adjustment lines live in
// JSON columns, aggregates are stored flat for reporting.
type Document struct {
	ID        snowflake.ID `gorm:"primaryKey;column:id"`
	CompanyID snowflake.ID `gorm:"column:company_id;index"`
	Type      string       `gorm:"column:type;index"`
	Status    string       `gorm:"column:status"`
	Number    string       `gorm:"column:number"`
	DocDate   string       `gorm:"column:doc_date"`

	PartyName    string `gorm:"column:party_name"`
	PartyGSTIN   string `gorm:"column:party_gstin"`
	PartyAddress string `gorm:"column:party_address"`
	TaxMode      string `gorm:"column:tax_mode"`
	Note         string `gorm:"column:note"`

	Items       datatypes.JSON `gorm:"column:items"`
	Adjustments datatypes.JSON `gorm:"column:adjustments"`

	CGSTTotal        float64 `gorm:"column:total_cgst"`
	SGSTTotal        float64 `gorm:"column:total_sgst"`
	IGSTTotal        float64 `gorm:"column:total_igst"`
	CommissionRate   float64 `gorm:"column:commission_rate"`
	CommissionAmount float64 `gorm:"column:commission_amount"`
	LaborCharges     float64 `gorm:"column:labor_charges"`
	MarketFee        float64 `gorm:"column:market_fee"`
	TaxableTotal     float64 `gorm:"column:total_taxable"`
	TaxTotal         float64 `gorm:"column:total_tax"`
	RoundOff         float64 `gorm:"column:round_off"`
	GrandTotal       float64 `gorm:"column:grand_total"`

	IsDeleted bool      `gorm:"column:is_deleted;default:false"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Document) TableName() string {
	return "documents"
}
