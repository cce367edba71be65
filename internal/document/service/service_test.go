package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/saralbooks/saralbooks/internal/clock"
	"github.com/saralbooks/saralbooks/internal/companyctx"
	"github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/internal/document/calc"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	documentrepository "github.com/saralbooks/saralbooks/internal/document/repository"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stubParties resolves a single known party name.
type stubParties struct {
	partydomain.Service

	known *partydomain.Response
}

func (s stubParties) Lookup(_ context.Context, name string) (*partydomain.Response, error) {
	if s.known != nil && name == s.known.Name {
		resp := *s.known
		return &resp, nil
	}
	return nil, nil
}

// stubStock resolves a single known catalog item name.
type stubStock struct {
	stockdomain.Service

	known *stockdomain.Response
}

func (s stubStock) Lookup(_ context.Context, name string) (*stockdomain.Response, error) {
	if s.known != nil && name == s.known.Name {
		resp := *s.known
		return &resp, nil
	}
	return nil, nil
}

// stubDuties serves a fixed set of active masters.
type stubDuties struct {
	dutydomain.Service

	active []dutydomain.Response
}

func (s stubDuties) ListActive(context.Context) ([]dutydomain.Response, error) {
	return s.active, nil
}

type serviceFixture struct {
	svc       documentdomain.Service
	repo      documentdomain.Repository
	companyID snowflake.ID
	now       time.Time
}

func newServiceFixture(t *testing.T, parties stubParties, stock stubStock, duties stubDuties) *serviceFixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&documentdomain.Document{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	settings, err := config.NewSettingsHolder()
	require.NoError(t, err)

	repo := documentrepository.NewRepository(documentrepository.RepositoryParam{
		DB:  conn,
		Log: zap.NewNop(),
	})

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	svc := NewService(ServiceParam{
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(now),
		Repo:     repo,
		Parties:  parties,
		Stock:    stock,
		Duties:   duties,
		Settings: settings,
	})

	return &serviceFixture{
		svc:       svc,
		repo:      repo,
		companyID: node.Generate(),
		now:       now,
	}
}

func (f *serviceFixture) ctx() context.Context {
	return companyctx.WithCompanyID(context.Background(), int64(f.companyID))
}

func submittableRequest() documentdomain.Request {
	return documentdomain.Request{
		Draft: calc.Draft{
			Type:    calc.DocumentTypeSale,
			TaxMode: calc.TaxModeIntraState,
			Items: []calc.Line{
				{Name: "Basmati Rice", Quantity: 10, Rate: 20, TaxRatePercent: 18},
			},
		},
		Number:    "INV-001",
		PartyName: "Sharma Traders",
	}
}

func TestNewDraftSaleClonesActiveMasters(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{
		active: []dutydomain.Response{
			{ID: "10", Name: "Commission", Kind: "DEDUCTION", Method: "percentage", Rate: 2, ApplyOn: "subtotal"},
			{ID: "11", Name: "Market Fee", Kind: "CHARGE", Method: "fixed", FixedAmount: 50},
		},
	})

	resp, err := f.svc.NewDraft(f.ctx(), "sale")
	require.NoError(t, err)

	assert.Equal(t, calc.DocumentTypeSale, resp.Type)
	assert.Equal(t, "2026-08-30", resp.DocDate)
	assert.Equal(t, documentdomain.StatusPending, resp.Status)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1.0, resp.Items[0].Quantity.Float())
	assert.Equal(t, "PCS", resp.Items[0].Unit)

	require.Len(t, resp.Adjustments, 2)
	assert.Equal(t, "Commission", resp.Adjustments[0].Name)
	assert.NotEqual(t, "10", resp.Adjustments[0].ID)
	assert.NotEmpty(t, resp.Adjustments[0].ID)
	// Percentage of an empty subtotal is zero; the fixed fee applies as-is.
	assert.Equal(t, 0.0, resp.Adjustments[0].Amount)
	assert.Equal(t, 50.0, resp.Adjustments[1].Amount)
	assert.Equal(t, 50.0, resp.GrandTotal)
}

func TestNewDraftPurchaseSkipsMasters(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{
		active: []dutydomain.Response{{ID: "10", Name: "Commission", Kind: "DEDUCTION"}},
	})

	resp, err := f.svc.NewDraft(f.ctx(), "purchase")
	require.NoError(t, err)
	assert.Equal(t, calc.DocumentTypePurchase, resp.Type)
	assert.Empty(t, resp.Adjustments)
}

func TestNewDraftRejectsUnknownType(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	_, err := f.svc.NewDraft(f.ctx(), "memo")
	assert.ErrorIs(t, err, documentdomain.ErrInvalidType)
}

func TestRecalculatePrefillsPartyAndLines(t *testing.T) {
	f := newServiceFixture(t,
		stubParties{known: &partydomain.Response{
			Name: "Sharma Traders", GSTIN: "27AAAAA0000A1Z5", Address: "12 MG Road, Pune",
		}},
		stubStock{known: &stockdomain.Response{
			Name: "Basmati Rice", HSNCode: "1006", Unit: "KG", Rate: 90, TaxRatePercent: 5,
		}},
		stubDuties{},
	)

	req := documentdomain.Request{
		Draft: calc.Draft{
			Type:    calc.DocumentTypeSale,
			TaxMode: calc.TaxModeIntraState,
			Items: []calc.Line{
				{Name: "Basmati Rice", Quantity: 2},
			},
		},
		PartyName: "Sharma Traders",
	}

	resp, err := f.svc.Recalculate(f.ctx(), req)
	require.NoError(t, err)

	assert.Equal(t, "27AAAAA0000A1Z5", resp.PartyGSTIN)
	assert.Equal(t, "12 MG Road, Pune", resp.PartyAddress)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "1006", resp.Items[0].HSNCode)
	assert.Equal(t, "KG", resp.Items[0].Unit)
	assert.Equal(t, 90.0, resp.Items[0].Rate.Float())
	assert.Equal(t, 5.0, resp.Items[0].TaxRatePercent.Float())

	// 2 x 90 at 5% intra-state.
	assert.Equal(t, 180.0, resp.TaxableTotal)
	assert.Equal(t, 4.5, resp.CGSTTotal.Float())
	assert.Equal(t, 4.5, resp.SGSTTotal.Float())
	assert.Equal(t, 189.0, resp.GrandTotal)
}

func TestRecalculateKeepsFilledLineUntouched(t *testing.T) {
	f := newServiceFixture(t,
		stubParties{},
		stubStock{known: &stockdomain.Response{Name: "Basmati Rice", HSNCode: "1006", Rate: 90}},
		stubDuties{},
	)

	req := documentdomain.Request{
		Draft: calc.Draft{
			Type:    calc.DocumentTypeSale,
			TaxMode: calc.TaxModeIntraState,
			Items: []calc.Line{
				{Name: "Basmati Rice", Quantity: 2, Rate: 75, TaxRatePercent: 5},
			},
		},
		PartyName: "Walk-in",
	}

	resp, err := f.svc.Recalculate(f.ctx(), req)
	require.NoError(t, err)
	assert.Equal(t, 75.0, resp.Items[0].Rate.Float())
	assert.Empty(t, resp.Items[0].HSNCode)
}

func TestRecalculateDoesNotOverwritePartyDetails(t *testing.T) {
	f := newServiceFixture(t,
		stubParties{known: &partydomain.Response{
			Name: "Sharma Traders", GSTIN: "27AAAAA0000A1Z5", Address: "12 MG Road, Pune",
		}},
		stubStock{}, stubDuties{},
	)

	req := submittableRequest()
	req.PartyGSTIN = "29BBBBB1111B2Z6"

	resp, err := f.svc.Recalculate(f.ctx(), req)
	require.NoError(t, err)
	assert.Equal(t, "29BBBBB1111B2Z6", resp.PartyGSTIN)
	assert.Empty(t, resp.PartyAddress)
}

func TestRecalculateRepairsEmptySaleItems(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	req := documentdomain.Request{
		Draft:     calc.Draft{Type: calc.DocumentTypeSale},
		PartyName: "Walk-in",
	}

	resp, err := f.svc.Recalculate(f.ctx(), req)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1.0, resp.Items[0].Quantity.Float())
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	req := submittableRequest()
	req.PartyName = "   "
	_, err := f.svc.Create(f.ctx(), req)
	assert.ErrorIs(t, err, documentdomain.ErrMissingParty)

	req = submittableRequest()
	req.Number = ""
	_, err = f.svc.Create(f.ctx(), req)
	assert.ErrorIs(t, err, documentdomain.ErrMissingNumber)

	req = submittableRequest()
	req.DocDate = "31/02/2026"
	_, err = f.svc.Create(f.ctx(), req)
	assert.ErrorIs(t, err, documentdomain.ErrInvalidDate)

	_, err = f.svc.Create(context.Background(), submittableRequest())
	assert.ErrorIs(t, err, documentdomain.ErrInvalidCompany)
}

func TestCreatePersistsAndComputesTotals(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	resp, err := f.svc.Create(f.ctx(), submittableRequest())
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	assert.Equal(t, "2026-08-30", resp.DocDate)
	assert.Equal(t, documentdomain.StatusPending, resp.Status)
	assert.Equal(t, 200.0, resp.TaxableTotal)
	assert.Equal(t, 18.0, resp.CGSTTotal.Float())
	assert.Equal(t, 18.0, resp.SGSTTotal.Float())
	assert.Equal(t, 236.0, resp.GrandTotal)

	got, err := f.svc.Get(f.ctx(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-001", got.Number)
	assert.Equal(t, 236.0, got.GrandTotal)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Basmati Rice", got.Items[0].Name)
}

func TestCreateAcceptsDisplayDate(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	req := submittableRequest()
	req.DocDate = "05/01/2026"

	resp, err := f.svc.Create(f.ctx(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-01-05", resp.DocDate)
}

func TestUpdateKeepsManualSplitWhenOnlyNoteChanges(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	created, err := f.svc.Create(f.ctx(), submittableRequest())
	require.NoError(t, err)

	// Hold a manual split first.
	manual := submittableRequest()
	manual.ID = created.ID
	manual.CGSTTotal = 20
	manual.SGSTTotal = 20
	updated, err := f.svc.Update(f.ctx(), manual)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.CGSTTotal.Float())
	assert.Equal(t, 240.0, updated.GrandTotal)

	// A note edit is not structural; the split survives.
	noteOnly := manual
	noteOnly.Note = "deliver by friday"
	updated, err = f.svc.Update(f.ctx(), noteOnly)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.CGSTTotal.Float())
	assert.Equal(t, 20.0, updated.SGSTTotal.Float())
	assert.Equal(t, 240.0, updated.GrandTotal)
}

func TestUpdateStructuralEditRederivesSplit(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	created, err := f.svc.Create(f.ctx(), submittableRequest())
	require.NoError(t, err)

	manual := submittableRequest()
	manual.ID = created.ID
	manual.CGSTTotal = 20
	manual.SGSTTotal = 20
	_, err = f.svc.Update(f.ctx(), manual)
	require.NoError(t, err)

	// A quantity change re-derives the split even with the stale manual
	// totals still in the payload.
	structural := manual
	structural.Items = []calc.Line{
		{Name: "Basmati Rice", Quantity: 20, Rate: 20, TaxRatePercent: 18},
	}
	updated, err := f.svc.Update(f.ctx(), structural)
	require.NoError(t, err)
	assert.Equal(t, 400.0, updated.TaxableTotal)
	assert.Equal(t, 36.0, updated.CGSTTotal.Float())
	assert.Equal(t, 36.0, updated.SGSTTotal.Float())
	assert.Equal(t, 472.0, updated.GrandTotal)
}

func TestUpdateForcesStoredType(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	created, err := f.svc.Create(f.ctx(), submittableRequest())
	require.NoError(t, err)

	req := submittableRequest()
	req.ID = created.ID
	req.Type = calc.DocumentTypePurchase

	updated, err := f.svc.Update(f.ctx(), req)
	require.NoError(t, err)
	assert.Equal(t, calc.DocumentTypeSale, updated.Type)
}

func TestUpdateUnknownDocument(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	req := submittableRequest()
	req.ID = "123456789"
	_, err := f.svc.Update(f.ctx(), req)
	assert.ErrorIs(t, err, documentdomain.ErrNotFound)

	req.ID = "not-a-number"
	_, err = f.svc.Update(f.ctx(), req)
	assert.ErrorIs(t, err, documentdomain.ErrInvalidID)
}

func TestDeleteThenGet(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	created, err := f.svc.Create(f.ctx(), submittableRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(f.ctx(), created.ID))

	_, err = f.svc.Get(f.ctx(), created.ID)
	assert.ErrorIs(t, err, documentdomain.ErrNotFound)

	err = f.svc.Delete(f.ctx(), created.ID)
	assert.ErrorIs(t, err, documentdomain.ErrNotFound)
}

func TestListFiltersByType(t *testing.T) {
	f := newServiceFixture(t, stubParties{}, stubStock{}, stubDuties{})

	sale := submittableRequest()
	_, err := f.svc.Create(f.ctx(), sale)
	require.NoError(t, err)

	purchase := submittableRequest()
	purchase.Type = calc.DocumentTypePurchase
	purchase.Number = "PUR-001"
	_, err = f.svc.Create(f.ctx(), purchase)
	require.NoError(t, err)

	resp, err := f.svc.List(f.ctx(), documentdomain.ListRequest{Type: "purchase"})
	require.NoError(t, err)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "PUR-001", resp.Documents[0].Number)
}
