package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	"github.com/saralbooks/saralbooks/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return conn
}

func newTestRepository(t *testing.T, conn *gorm.DB) *repository {
	t.Helper()
	repo := NewRepository(RepositoryParam{
		DB:  conn,
		Log: zap.NewNop(),
	})
	return repo.(*repository)
}

func testDocument(node *snowflake.Node, companyID snowflake.ID) *documentdomain.Document {
	now := time.Now().UTC()
	return &documentdomain.Document{
		ID:           node.Generate(),
		CompanyID:    companyID,
		Type:         "SALE",
		Status:       "PENDING",
		Number:       "INV-001",
		DocDate:      "2026-08-30",
		PartyName:    "Sharma Traders",
		TaxMode:      "intra_state",
		Note:         "urgent delivery",
		Items:        datatypes.JSON(`[]`),
		Adjustments:  datatypes.JSON(`[]`),
		TaxableTotal: 200,
		TaxTotal:     36,
		GrandTotal:   236,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSaveAndFindByID(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, _ := snowflake.NewNode(1)
	repo := newTestRepository(t, conn)
	companyID := node.Generate()

	doc := testDocument(node, companyID)
	require.NoError(t, repo.Save(context.Background(), doc, true))

	got, err := repo.FindByID(context.Background(), companyID, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INV-001", got.Number)
	assert.Equal(t, "urgent delivery", got.Note)
	assert.Equal(t, 236.0, got.GrandTotal)
}

func TestSaveStripsMissingColumnAndRetries(t *testing.T) {
	conn := openTestDB(t)

	// Schema that trails the code: no note and no market_fee columns.
	require.NoError(t, conn.Exec(`CREATE TABLE documents (
		id INTEGER PRIMARY KEY,
		company_id INTEGER,
		type TEXT,
		status TEXT,
		number TEXT,
		doc_date TEXT,
		party_name TEXT,
		party_gstin TEXT,
		party_address TEXT,
		tax_mode TEXT,
		items TEXT,
		adjustments TEXT,
		total_cgst REAL,
		total_sgst REAL,
		total_igst REAL,
		commission_rate REAL,
		commission_amount REAL,
		labor_charges REAL,
		total_taxable REAL,
		total_tax REAL,
		round_off REAL,
		grand_total REAL,
		is_deleted NUMERIC,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	node, _ := snowflake.NewNode(1)
	repo := newTestRepository(t, conn)
	companyID := node.Generate()

	doc := testDocument(node, companyID)
	doc.MarketFee = 5

	require.NoError(t, repo.Save(context.Background(), doc, true))

	got, err := repo.FindByID(context.Background(), companyID, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INV-001", got.Number)
	assert.Empty(t, got.Note)
	assert.Equal(t, 0.0, got.MarketFee)
	assert.Equal(t, 236.0, got.GrandTotal)

	// Update path strips the same way.
	doc.Number = "INV-002"
	doc.Note = "still missing"
	require.NoError(t, repo.Save(context.Background(), doc, false))

	got, err = repo.FindByID(context.Background(), companyID, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "INV-002", got.Number)
}

func TestListFiltersAndPaginates(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, _ := snowflake.NewNode(1)
	repo := newTestRepository(t, conn)
	companyID := node.Generate()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		doc := testDocument(node, companyID)
		doc.Number = "INV-00" + string(rune('1'+i))
		doc.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		doc.UpdatedAt = doc.CreatedAt
		if i%2 == 1 {
			doc.Type = "PURCHASE"
		}
		require.NoError(t, repo.Save(context.Background(), doc, true))
	}

	docs, pageInfo, err := repo.List(context.Background(), companyID, documentdomain.ListFilter{
		Type:       "SALE",
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	require.NotNil(t, pageInfo)
	assert.True(t, pageInfo.HasMore)
	require.NotEmpty(t, pageInfo.NextPageToken)

	next, pageInfo, err := repo.List(context.Background(), companyID, documentdomain.ListFilter{
		Type:       "SALE",
		Pagination: pagination.Pagination{PageSize: 2, PageToken: pageInfo.NextPageToken},
	})
	require.NoError(t, err)
	assert.Len(t, next, 1)
	assert.False(t, pageInfo.HasMore)
	assert.Empty(t, pageInfo.NextPageToken)
	// Newest first, no overlap across pages.
	for _, d := range next {
		for _, p := range docs {
			assert.NotEqual(t, p.ID, d.ID)
		}
	}
}

func TestSoftDeleteHidesDocument(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, _ := snowflake.NewNode(1)
	repo := newTestRepository(t, conn)
	companyID := node.Generate()

	doc := testDocument(node, companyID)
	require.NoError(t, repo.Save(context.Background(), doc, true))
	require.NoError(t, repo.SoftDelete(context.Background(), companyID, doc.ID))

	got, err := repo.FindByID(context.Background(), companyID, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSummarizeGroupsByType(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, _ := snowflake.NewNode(1)
	repo := newTestRepository(t, conn)
	companyID := node.Generate()

	sale := testDocument(node, companyID)
	sale.GrandTotal = 100
	require.NoError(t, repo.Save(context.Background(), sale, true))

	sale2 := testDocument(node, companyID)
	sale2.GrandTotal = 150
	require.NoError(t, repo.Save(context.Background(), sale2, true))

	purchase := testDocument(node, companyID)
	purchase.Type = "PURCHASE"
	purchase.GrandTotal = 80
	require.NoError(t, repo.Save(context.Background(), purchase, true))

	old := testDocument(node, companyID)
	old.DocDate = "2020-01-01"
	old.GrandTotal = 999
	require.NoError(t, repo.Save(context.Background(), old, true))

	rows, err := repo.Summarize(context.Background(), companyID, "2026-01-01", "2026-12-31")
	require.NoError(t, err)

	byType := make(map[string]documentdomain.SummaryRow)
	for _, row := range rows {
		byType[row.Type] = row
	}
	assert.Equal(t, int64(2), byType["SALE"].Count)
	assert.Equal(t, 250.0, byType["SALE"].GrandTotal)
	assert.Equal(t, int64(1), byType["PURCHASE"].Count)
	assert.Equal(t, 80.0, byType["PURCHASE"].GrandTotal)
}
