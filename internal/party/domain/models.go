// Package domain contains persistence models for the party directory.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Party is a vendor or customer ledger entry. Both sides of trade share one
// directory; documents reference parties by name only.
type Party struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	CompanyID snowflake.ID `gorm:"column:company_id;not null;index"`

	Name    string `gorm:"type:text;not null"`
	GSTIN   string `gorm:"column:gstin;type:text"`
	Address string `gorm:"type:text"`

	IsDeleted bool `gorm:"column:is_deleted;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Party) TableName() string { return "parties" }
