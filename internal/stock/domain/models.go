package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// StockItem is a catalog entry used to prefill document lines. Rate and
// tax rate are defaults only; the document keeps its own copy of both.
type StockItem struct {
	ID             snowflake.ID `gorm:"primaryKey;column:id"`
	CompanyID      snowflake.ID `gorm:"column:company_id;index"`
	Name           string       `gorm:"column:name"`
	HSNCode        string       `gorm:"column:hsn_code"`
	Unit           string       `gorm:"column:unit"`
	Rate           float64      `gorm:"column:rate"`
	TaxRatePercent float64      `gorm:"column:tax_rate_percent"`
	IsDeleted      bool         `gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time    `gorm:"column:created_at"`
	UpdatedAt      time.Time    `gorm:"column:updated_at"`
}

func (StockItem) TableName() string {
	return "stock_items"
}
