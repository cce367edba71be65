package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) dutydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ledger *dutydomain.DutyLedger) error {
	return r.db.WithContext(ctx).Create(ledger).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*dutydomain.DutyLedger, error) {
	var ledger dutydomain.DutyLedger
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ? AND is_deleted = ?", companyID, id, false).
		Limit(1).
		Find(&ledger).Error
	if err != nil {
		return nil, err
	}
	if ledger.ID == 0 {
		return nil, nil
	}
	return &ledger, nil
}

func (r *repository) List(ctx context.Context, companyID snowflake.ID, filter dutydomain.ListRequest) ([]dutydomain.DutyLedger, error) {
	var items []dutydomain.DutyLedger
	stmt := r.db.WithContext(ctx).
		Model(&dutydomain.DutyLedger{}).
		Where("company_id = ? AND is_deleted = ?", companyID, false)

	if filter.Search != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	if err := stmt.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListActive(ctx context.Context, companyID snowflake.ID) ([]dutydomain.DutyLedger, error) {
	var items []dutydomain.DutyLedger
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_deleted = ?", companyID, false).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, ledger *dutydomain.DutyLedger) error {
	return r.db.WithContext(ctx).
		Model(&dutydomain.DutyLedger{}).
		Where("company_id = ? AND id = ?", ledger.CompanyID, ledger.ID).
		Updates(map[string]any{
			"name":         ledger.Name,
			"kind":         ledger.Kind,
			"method":       ledger.Method,
			"rate":         ledger.Rate,
			"fixed_amount": ledger.FixedAmount,
			"apply_on":     ledger.ApplyOn,
			"updated_at":   ledger.UpdatedAt,
		}).Error
}

func (r *repository) SoftDelete(ctx context.Context, companyID, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&dutydomain.DutyLedger{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		}).Error
}
