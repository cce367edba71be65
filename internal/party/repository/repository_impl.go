package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) partydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, party *partydomain.Party) error {
	return r.db.WithContext(ctx).Create(party).Error
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*partydomain.Party, error) {
	var party partydomain.Party
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ? AND is_deleted = ?", companyID, id, false).
		Limit(1).
		Find(&party).Error
	if err != nil {
		return nil, err
	}
	if party.ID == 0 {
		return nil, nil
	}
	return &party, nil
}

func (r *repository) FindByName(ctx context.Context, companyID snowflake.ID, name string) (*partydomain.Party, error) {
	var party partydomain.Party
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND LOWER(name) = ? AND is_deleted = ?", companyID, strings.ToLower(strings.TrimSpace(name)), false).
		Limit(1).
		Find(&party).Error
	if err != nil {
		return nil, err
	}
	if party.ID == 0 {
		return nil, nil
	}
	return &party, nil
}

func (r *repository) List(ctx context.Context, companyID snowflake.ID, filter partydomain.ListRequest) ([]partydomain.Party, error) {
	var items []partydomain.Party
	stmt := r.db.WithContext(ctx).
		Model(&partydomain.Party{}).
		Where("company_id = ? AND is_deleted = ?", companyID, false)

	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.Search != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	if err := stmt.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, party *partydomain.Party) error {
	return r.db.WithContext(ctx).
		Model(&partydomain.Party{}).
		Where("company_id = ? AND id = ?", party.CompanyID, party.ID).
		Updates(map[string]any{
			"name":       party.Name,
			"gstin":      party.GSTIN,
			"address":    party.Address,
			"updated_at": party.UpdatedAt,
		}).Error
}

func (r *repository) SoftDelete(ctx context.Context, companyID, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&partydomain.Party{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		}).Error
}
