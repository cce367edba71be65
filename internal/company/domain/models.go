package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is the tenant every other row is scoped to. A single-shop
// install runs with one seeded company.
type Company struct {
	ID        snowflake.ID `gorm:"primaryKey;column:id"`
	Name      string       `gorm:"column:name"`
	GSTIN     string       `gorm:"column:gstin"`
	Address   string       `gorm:"column:address"`
	CreatedAt time.Time    `gorm:"column:created_at"`
	UpdatedAt time.Time    `gorm:"column:updated_at"`
}

func (Company) TableName() string {
	return "companies"
}
