package repository

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/internal/observability/metrics"
	"github.com/saralbooks/saralbooks/pkg/db"
	"github.com/saralbooks/saralbooks/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RepositoryParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type repository struct {
	db      *gorm.DB
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewRepository(p RepositoryParam) documentdomain.Repository {
	return &repository{
		db:      p.DB,
		log:     p.Log.Named("document.repository"),
		metrics: p.Metrics,
	}
}

func (r *repository) Save(ctx context.Context, doc *documentdomain.Document, isNew bool) error {
	return r.saveColumns(ctx, doc, columnMap(doc), isNew)
}

// saveColumns writes the column map and, on an unknown-column error,
// strips the offending column and retries. id and company_id are never
// strippable; losing either would write an unreachable row.
func (r *repository) saveColumns(ctx context.Context, doc *documentdomain.Document, cols map[string]any, isNew bool) error {
	var err error
	if isNew {
		err = r.db.WithContext(ctx).
			Table(documentdomain.Document{}.TableName()).
			Create(cols).Error
	} else {
		update := make(map[string]any, len(cols))
		for k, v := range cols {
			if k == "id" || k == "company_id" || k == "created_at" {
				continue
			}
			update[k] = v
		}
		err = r.db.WithContext(ctx).
			Table(documentdomain.Document{}.TableName()).
			Where("company_id = ? AND id = ?", doc.CompanyID, doc.ID).
			Updates(update).Error
	}
	if err == nil {
		return nil
	}

	column, ok := db.MissingColumn(err)
	if !ok || column == "id" || column == "company_id" {
		return err
	}
	if _, present := cols[column]; !present {
		return err
	}

	r.log.Warn("document column missing, retrying without it",
		zap.String("column", column),
		zap.Bool("is_new", isNew),
	)
	if r.metrics != nil {
		r.metrics.RecordSaveColumnRetry(ctx, column)
	}

	retry := make(map[string]any, len(cols)-1)
	for k, v := range cols {
		if k == column {
			continue
		}
		retry[k] = v
	}
	return r.saveColumns(ctx, doc, retry, isNew)
}

func (r *repository) FindByID(ctx context.Context, companyID, id snowflake.ID) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ? AND is_deleted = ?", companyID, id, false).
		Limit(1).
		Find(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (r *repository) List(ctx context.Context, companyID snowflake.ID, filter documentdomain.ListFilter) ([]documentdomain.Document, *pagination.PageInfo, error) {
	limit := filter.Pagination.PageSize
	if limit <= 0 {
		limit = 10
	}

	stmt := r.db.WithContext(ctx).
		Model(&documentdomain.Document{}).
		Where("company_id = ? AND is_deleted = ?", companyID, false)

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", strings.ToUpper(filter.Type))
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", strings.ToUpper(filter.Status))
	}
	if filter.Search != "" {
		needle := "%" + strings.ToLower(filter.Search) + "%"
		stmt = stmt.Where("LOWER(party_name) LIKE ? OR LOWER(number) LIKE ?", needle, needle)
	}
	if filter.DateFrom != "" {
		stmt = stmt.Where("doc_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		stmt = stmt.Where("doc_date <= ?", filter.DateTo)
	}

	if filter.Pagination.PageToken != "" {
		cursor, err := pagination.DecodeCursor(filter.Pagination.PageToken)
		if err != nil {
			return nil, nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, nil, err
		}
		stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, cursor.ID)
	}

	var docs []documentdomain.Document
	err := stmt.Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&docs).Error
	if err != nil {
		return nil, nil, err
	}

	pageInfo, docs := pagination.BuildCursorPageInfo(docs, limit, func(doc documentdomain.Document) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        doc.ID.String(),
			CreatedAt: doc.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	return docs, pageInfo, nil
}

func (r *repository) SoftDelete(ctx context.Context, companyID, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&documentdomain.Document{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Updates(map[string]any{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) Summarize(ctx context.Context, companyID snowflake.ID, dateFrom, dateTo string) ([]documentdomain.SummaryRow, error) {
	stmt := r.db.WithContext(ctx).
		Model(&documentdomain.Document{}).
		Select("type, COUNT(*) AS count, COALESCE(SUM(grand_total), 0) AS grand_total").
		Where("company_id = ? AND is_deleted = ?", companyID, false)

	if dateFrom != "" {
		stmt = stmt.Where("doc_date >= ?", dateFrom)
	}
	if dateTo != "" {
		stmt = stmt.Where("doc_date <= ?", dateTo)
	}

	var rows []documentdomain.SummaryRow
	if err := stmt.Group("type").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func columnMap(doc *documentdomain.Document) map[string]any {
	return map[string]any{
		"id":                doc.ID,
		"company_id":        doc.CompanyID,
		"type":              doc.Type,
		"status":            doc.Status,
		"number":            doc.Number,
		"doc_date":          doc.DocDate,
		"party_name":        doc.PartyName,
		"party_gstin":       doc.PartyGSTIN,
		"party_address":     doc.PartyAddress,
		"tax_mode":          doc.TaxMode,
		"note":              doc.Note,
		"items":             doc.Items,
		"adjustments":       doc.Adjustments,
		"total_cgst":        doc.CGSTTotal,
		"total_sgst":        doc.SGSTTotal,
		"total_igst":        doc.IGSTTotal,
		"commission_rate":   doc.CommissionRate,
		"commission_amount": doc.CommissionAmount,
		"labor_charges":     doc.LaborCharges,
		"market_fee":        doc.MarketFee,
		"total_taxable":     doc.TaxableTotal,
		"total_tax":         doc.TaxTotal,
		"round_off":         doc.RoundOff,
		"grand_total":       doc.GrandTotal,
		"is_deleted":        doc.IsDeleted,
		"created_at":        doc.CreatedAt,
		"updated_at":        doc.UpdatedAt,
	}
}
