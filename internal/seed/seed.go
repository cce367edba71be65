// Package seed bootstraps the rows a fresh install needs so the service
// is usable out of the box.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/saralbooks/saralbooks/internal/company/domain"
	"gorm.io/gorm"
)

const defaultCompanyName = "Main"

// DefaultCompany is the company every request falls back to when no
// X-Company-ID header is sent.
type DefaultCompany struct {
	ID snowflake.ID
}

// EnsureDefaultCompany resolves the single-tenant company row, creating it
// when none exists, and returns its ID for request scoping. A configured ID
// pins the created row so restarts stay stable; when a row already exists
// its ID wins over the configured one.
func EnsureDefaultCompany(db *gorm.DB, companyID int64) (DefaultCompany, error) {
	if db == nil {
		return DefaultCompany{}, errors.New("seed database handle is required")
	}

	ctx := context.Background()
	var resolved snowflake.ID
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var company companydomain.Company
		err := tx.WithContext(ctx).Order("id ASC").First(&company).Error
		if err == nil {
			resolved = company.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		id := snowflake.ID(companyID)
		if id == 0 {
			node, err := snowflake.NewNode(1)
			if err != nil {
				return err
			}
			id = node.Generate()
		}

		now := time.Now().UTC()
		company = companydomain.Company{
			ID:        id,
			Name:      defaultCompanyName,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
			return err
		}
		resolved = company.ID
		return nil
	})
	if err != nil {
		return DefaultCompany{}, err
	}
	return DefaultCompany{ID: resolved}, nil
}
