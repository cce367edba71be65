package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) stockdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *stockdomain.StockItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*stockdomain.StockItem, error) {
	var item stockdomain.StockItem
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ? AND is_deleted = ?", companyID, id, false).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repository) FindByName(ctx context.Context, companyID snowflake.ID, name string) (*stockdomain.StockItem, error) {
	var item stockdomain.StockItem
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND LOWER(name) = ? AND is_deleted = ?", companyID, strings.ToLower(strings.TrimSpace(name)), false).
		Limit(1).
		Find(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, companyID snowflake.ID, filter stockdomain.ListRequest) ([]stockdomain.StockItem, error) {
	var items []stockdomain.StockItem
	stmt := r.db.WithContext(ctx).
		Model(&stockdomain.StockItem{}).
		Where("company_id = ? AND is_deleted = ?", companyID, false)

	if filter.Search != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, item *stockdomain.StockItem) error {
	return r.db.WithContext(ctx).
		Model(&stockdomain.StockItem{}).
		Where("company_id = ? AND id = ?", item.CompanyID, item.ID).
		Updates(map[string]any{
			"name":             item.Name,
			"hsn_code":         item.HSNCode,
			"unit":             item.Unit,
			"rate":             item.Rate,
			"tax_rate_percent": item.TaxRatePercent,
			"updated_at":       item.UpdatedAt,
		}).Error
}

func (r *repository) SoftDelete(ctx context.Context, companyID, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&stockdomain.StockItem{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		}).Error
}
