package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/companyctx"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	documentrepository "github.com/saralbooks/saralbooks/internal/document/repository"
	reportdomain "github.com/saralbooks/saralbooks/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (reportdomain.Service, documentdomain.Repository, context.Context) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := documentrepository.NewRepository(documentrepository.RepositoryParam{
		DB:  conn,
		Log: zap.NewNop(),
	})
	svc := NewService(ServiceParam{
		Log:       zap.NewNop(),
		Documents: repo,
	})
	ctx := companyctx.WithCompanyID(context.Background(), int64(node.Generate()))
	return svc, repo, ctx
}

var docNode, docNodeErr = snowflake.NewNode(2)

func saveDocument(t *testing.T, ctx context.Context, repo documentdomain.Repository, docType, docDate string, grandTotal float64) {
	t.Helper()
	companyID, _ := companyctx.CompanyIDFromContext(ctx)
	require.NoError(t, docNodeErr)
	now := time.Now().UTC()
	require.NoError(t, repo.Save(ctx, &documentdomain.Document{
		ID:          docNode.Generate(),
		CompanyID:   companyID,
		Type:        docType,
		Status:      "PENDING",
		Number:      "DOC",
		DocDate:     docDate,
		PartyName:   "Sharma Traders",
		Items:       datatypes.JSON(`[]`),
		Adjustments: datatypes.JSON(`[]`),
		GrandTotal:  grandTotal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, true))
}

func TestSummarySplitsReceivableAndPayable(t *testing.T) {
	svc, repo, ctx := newTestService(t)

	saveDocument(t, ctx, repo, "SALE", "2026-04-10", 236)
	saveDocument(t, ctx, repo, "SALE", "2026-05-02", 118)
	saveDocument(t, ctx, repo, "PURCHASE", "2026-04-15", 500)

	resp, err := svc.Summary(ctx, reportdomain.SummaryRequest{})
	require.NoError(t, err)
	assert.Equal(t, 354.0, resp.Receivable)
	assert.Equal(t, int64(2), resp.SaleCount)
	assert.Equal(t, 500.0, resp.Payable)
	assert.Equal(t, int64(1), resp.PurchaseCount)
}

func TestSummaryHonorsDateWindow(t *testing.T) {
	svc, repo, ctx := newTestService(t)

	saveDocument(t, ctx, repo, "SALE", "2026-04-10", 236)
	saveDocument(t, ctx, repo, "SALE", "2025-04-10", 999)

	resp, err := svc.Summary(ctx, reportdomain.SummaryRequest{
		DateFrom: "2026-04-01",
		DateTo:   "2026-04-30",
	})
	require.NoError(t, err)
	assert.Equal(t, 236.0, resp.Receivable)
	assert.Equal(t, int64(1), resp.SaleCount)
}

func TestSummaryRejectsBadWindow(t *testing.T) {
	svc, _, ctx := newTestService(t)

	_, err := svc.Summary(ctx, reportdomain.SummaryRequest{DateFrom: "10/04/2026"})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidWindow)

	_, err = svc.Summary(ctx, reportdomain.SummaryRequest{DateFrom: "2026-05-01", DateTo: "2026-04-01"})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidWindow)

	_, err = svc.Summary(context.Background(), reportdomain.SummaryRequest{})
	assert.ErrorIs(t, err, reportdomain.ErrInvalidCompany)
}
