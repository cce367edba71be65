package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/document/calc"
)

// DutyLedger is a reusable charge or deduction master. Active ledgers are
// cloned into every new sale draft with a zero amount; the document keeps
// its own copy afterwards, so editing a master never rewrites history.
type DutyLedger struct {
	ID          snowflake.ID `gorm:"primaryKey;column:id"`
	CompanyID   snowflake.ID `gorm:"column:company_id;index"`
	Name        string       `gorm:"column:name"`
	Kind        string       `gorm:"column:kind"`
	Method      string       `gorm:"column:method"`
	Rate        float64      `gorm:"column:rate"`
	FixedAmount float64      `gorm:"column:fixed_amount"`
	ApplyOn     string       `gorm:"column:apply_on"`
	IsDeleted   bool         `gorm:"column:is_deleted;default:false"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

func (DutyLedger) TableName() string {
	return "duty_ledgers"
}

// Validate normalizes kind, method and apply_on in place and rejects
// values outside the known sets.
func (d *DutyLedger) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrInvalidName
	}

	switch calc.AdjustmentKind(strings.ToUpper(strings.TrimSpace(d.Kind))) {
	case calc.AdjustmentKindCharge:
		d.Kind = string(calc.AdjustmentKindCharge)
	case calc.AdjustmentKindDeduction:
		d.Kind = string(calc.AdjustmentKindDeduction)
	default:
		return ErrInvalidKind
	}

	switch calc.AdjustmentMethod(strings.ToLower(strings.TrimSpace(d.Method))) {
	case calc.AdjustmentMethodPercentage:
		d.Method = string(calc.AdjustmentMethodPercentage)
	case calc.AdjustmentMethodFixed:
		d.Method = string(calc.AdjustmentMethodFixed)
	case calc.AdjustmentMethodHybrid, "":
		d.Method = string(calc.AdjustmentMethodHybrid)
	default:
		return ErrInvalidMethod
	}

	switch calc.AdjustmentBase(strings.ToLower(strings.TrimSpace(d.ApplyOn))) {
	case calc.AdjustmentBaseSubtotal:
		d.ApplyOn = string(calc.AdjustmentBaseSubtotal)
	case calc.AdjustmentBaseRunningTotal, "":
		d.ApplyOn = string(calc.AdjustmentBaseRunningTotal)
	default:
		return ErrInvalidApplyOn
	}

	return nil
}
