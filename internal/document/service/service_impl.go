package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/saralbooks/saralbooks/internal/clock"
	"github.com/saralbooks/saralbooks/internal/companyctx"
	"github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/internal/document/calc"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	"github.com/saralbooks/saralbooks/internal/format"
	"github.com/saralbooks/saralbooks/internal/observability/metrics"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const isoDate = "2006-01-02"

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     documentdomain.Repository
	Parties  partydomain.Service
	Stock    stockdomain.Service
	Duties   dutydomain.Service
	Settings *config.SettingsHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     documentdomain.Repository
	parties  partydomain.Service
	stock    stockdomain.Service
	duties   dutydomain.Service
	settings *config.SettingsHolder
	metrics  *metrics.Metrics
}

func NewService(p ServiceParam) documentdomain.Service {
	return &Service{
		log:      p.Log.Named("document.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		parties:  p.Parties,
		stock:    p.Stock,
		duties:   p.Duties,
		settings: p.Settings,
		metrics:  p.Metrics,
	}
}

func (s *Service) NewDraft(ctx context.Context, docType string) (*documentdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, documentdomain.ErrInvalidCompany
	}

	normalized, err := normalizeType(docType)
	if err != nil {
		return nil, err
	}

	draft := calc.Draft{
		Type:    normalized,
		TaxMode: calc.TaxModeIntraState,
		Items:   []calc.Line{calc.NewBlankLine()},
	}

	if normalized == calc.DocumentTypeSale {
		masters, err := s.duties.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range masters {
			draft.Adjustments = append(draft.Adjustments, calc.Adjustment{
				ID:          uuid.NewString(),
				Name:        m.Name,
				Kind:        calc.AdjustmentKind(m.Kind),
				Method:      calc.AdjustmentMethod(m.Method),
				Rate:        calc.Amount(m.Rate),
				FixedAmount: calc.Amount(m.FixedAmount),
				ApplyOn:     calc.AdjustmentBase(m.ApplyOn),
			})
		}
	}

	draft = calc.Recalculate(draft)
	if s.metrics != nil {
		s.metrics.RecordRecalculation(ctx, string(draft.Type))
	}

	return &documentdomain.Response{
		Draft:   draft,
		DocDate: s.clock.Now().Format(isoDate),
		Status:  documentdomain.StatusPending,
	}, nil
}

func (s *Service) Recalculate(ctx context.Context, req documentdomain.Request) (*documentdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, documentdomain.ErrInvalidCompany
	}

	draft, err := s.prepare(ctx, &req)
	if err != nil {
		return nil, err
	}

	return &documentdomain.Response{
		Draft:        draft,
		Number:       strings.TrimSpace(req.Number),
		DocDate:      req.DocDate,
		PartyName:    strings.TrimSpace(req.PartyName),
		PartyGSTIN:   req.PartyGSTIN,
		PartyAddress: req.PartyAddress,
		Status:       normalizeStatus(req.Status),
		Note:         req.Note,
	}, nil
}

func (s *Service) Create(ctx context.Context, req documentdomain.Request) (*documentdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, documentdomain.ErrInvalidCompany
	}

	if err := validateSubmit(req); err != nil {
		return nil, err
	}
	docDate, err := s.normalizeDate(req.DocDate)
	if err != nil {
		return nil, err
	}
	req.DocDate = docDate

	draft, err := s.prepare(ctx, &req)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record, err := toRecord(companyID, s.genID.Generate(), req, draft)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := s.repo.Save(ctx, record, true); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDocumentSaved(ctx, record.Type)
	}
	s.log.Info("document created",
		zap.String("document_id", record.ID.String()),
		zap.String("type", record.Type),
		zap.Float64("grand_total", record.GrandTotal),
	)

	return toResponse(record)
}

func (s *Service) Update(ctx context.Context, req documentdomain.Request) (*documentdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, documentdomain.ErrInvalidCompany
	}

	docID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, documentdomain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, documentdomain.ErrNotFound
	}

	if err := validateSubmit(req); err != nil {
		return nil, err
	}
	docDate, err := s.normalizeDate(req.DocDate)
	if err != nil {
		return nil, err
	}
	req.DocDate = docDate
	req.Type = calc.DocumentType(existing.Type)

	// A structural edit invalidates any manually held tax split.
	if !req.ResetTaxes && structurallyChanged(existing, req) {
		req.ResetTaxes = true
	}

	draft, err := s.prepare(ctx, &req)
	if err != nil {
		return nil, err
	}

	record, err := toRecord(companyID, docID, req, draft)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, record, false); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordDocumentSaved(ctx, record.Type)
	}

	return toResponse(record)
}

func (s *Service) Get(ctx context.Context, id string) (*documentdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, documentdomain.ErrInvalidCompany
	}

	docID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, documentdomain.ErrInvalidID
	}

	doc, err := s.repo.FindByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentdomain.ErrNotFound
	}

	return toResponse(doc)
}

func (s *Service) List(ctx context.Context, req documentdomain.ListRequest) (*documentdomain.ListResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, documentdomain.ErrInvalidCompany
	}

	filter := documentdomain.ListFilter{
		Type:       strings.TrimSpace(req.Type),
		Status:     strings.TrimSpace(req.Status),
		Search:     strings.TrimSpace(req.Search),
		DateFrom:   strings.TrimSpace(req.DateFrom),
		DateTo:     strings.TrimSpace(req.DateTo),
		Pagination: req.Pagination,
	}

	docs, pageInfo, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	out := make([]documentdomain.Response, 0, len(docs))
	for i := range docs {
		resp, err := toResponse(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}
	return &documentdomain.ListResponse{Documents: out, PageInfo: pageInfo}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return documentdomain.ErrInvalidCompany
	}

	docID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return documentdomain.ErrInvalidID
	}

	doc, err := s.repo.FindByID(ctx, companyID, docID)
	if err != nil {
		return err
	}
	if doc == nil {
		return documentdomain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, companyID, docID)
}

// prepare normalizes the type, repairs an empty sale item list, prefills
// party and line details from the catalogs and runs the engine.
func (s *Service) prepare(ctx context.Context, req *documentdomain.Request) (calc.Draft, error) {
	normalized, err := normalizeType(string(req.Type))
	if err != nil {
		return calc.Draft{}, err
	}
	req.Type = normalized

	if normalized == calc.DocumentTypeSale && len(req.Items) == 0 {
		req.Items = []calc.Line{calc.NewBlankLine()}
	}

	s.prefillParty(ctx, req)
	s.prefillLines(ctx, req)

	draft := calc.Recalculate(req.Draft)
	if s.metrics != nil {
		s.metrics.RecordRecalculation(ctx, string(draft.Type))
	}
	return draft, nil
}

func (s *Service) prefillParty(ctx context.Context, req *documentdomain.Request) {
	name := strings.TrimSpace(req.PartyName)
	if name == "" || req.PartyGSTIN != "" || req.PartyAddress != "" {
		return
	}

	party, err := s.parties.Lookup(ctx, name)
	if err != nil {
		s.log.Warn("party prefill lookup failed", zap.String("party_name", name), zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.RecordCatalogLookup(ctx, "party", party != nil)
	}
	if party == nil {
		return
	}
	req.PartyGSTIN = party.GSTIN
	req.PartyAddress = party.Address
}

func (s *Service) prefillLines(ctx context.Context, req *documentdomain.Request) {
	for i := range req.Items {
		line := &req.Items[i]
		name := strings.TrimSpace(line.Name)
		if name == "" || line.HSNCode != "" || line.Rate != 0 {
			continue
		}

		item, err := s.stock.Lookup(ctx, name)
		if err != nil {
			s.log.Warn("stock prefill lookup failed", zap.String("item_name", name), zap.Error(err))
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordCatalogLookup(ctx, "stock", item != nil)
		}
		if item == nil {
			continue
		}

		line.HSNCode = item.HSNCode
		line.Rate = calc.Amount(item.Rate)
		line.TaxRatePercent = calc.Amount(item.TaxRatePercent)
		if item.Unit != "" {
			line.Unit = item.Unit
		}
	}
}

// normalizeDate accepts an ISO date or a typed display date and returns
// ISO form. An empty input defaults to today.
func (s *Service) normalizeDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return s.clock.Now().Format(isoDate), nil
	}
	if _, err := time.Parse(isoDate, input); err == nil {
		return input, nil
	}

	formatter := format.New(s.settings.Get())
	iso, ok := formatter.ParseInputDate(input)
	if !ok {
		return "", documentdomain.ErrInvalidDate
	}
	return iso, nil
}

// structurallyChanged reports whether the edit touched the line items or
// the tax mode, which are the edits that must re-derive a manual split.
func structurallyChanged(existing *documentdomain.Document, req documentdomain.Request) bool {
	var items []calc.Line
	if len(existing.Items) > 0 {
		if err := json.Unmarshal(existing.Items, &items); err != nil {
			return true
		}
	}

	if calc.NormalizeTaxMode(calc.TaxMode(existing.TaxMode)) != calc.NormalizeTaxMode(req.TaxMode) {
		return true
	}
	if len(items) != len(req.Items) {
		return true
	}
	for i, prev := range items {
		next := req.Items[i]
		if prev.Name != next.Name ||
			prev.Quantity.Float() != next.Quantity.Float() ||
			prev.Rate.Float() != next.Rate.Float() ||
			prev.TaxRatePercent.Float() != next.TaxRatePercent.Float() {
			return true
		}
	}
	return false
}

func validateSubmit(req documentdomain.Request) error {
	if strings.TrimSpace(req.PartyName) == "" {
		return documentdomain.ErrMissingParty
	}
	if strings.TrimSpace(req.Number) == "" {
		return documentdomain.ErrMissingNumber
	}
	return nil
}

func normalizeType(docType string) (calc.DocumentType, error) {
	switch calc.DocumentType(strings.ToUpper(strings.TrimSpace(docType))) {
	case calc.DocumentTypeSale:
		return calc.DocumentTypeSale, nil
	case calc.DocumentTypePurchase:
		return calc.DocumentTypePurchase, nil
	default:
		return "", documentdomain.ErrInvalidType
	}
}

func normalizeStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case documentdomain.StatusPaid:
		return documentdomain.StatusPaid
	default:
		return documentdomain.StatusPending
	}
}

func toRecord(companyID, id snowflake.ID, req documentdomain.Request, draft calc.Draft) (*documentdomain.Document, error) {
	items, err := json.Marshal(draft.Items)
	if err != nil {
		return nil, err
	}
	adjustments, err := json.Marshal(draft.Adjustments)
	if err != nil {
		return nil, err
	}

	return &documentdomain.Document{
		ID:        id,
		CompanyID: companyID,
		Type:      string(draft.Type),
		Status:    normalizeStatus(req.Status),
		Number:    strings.TrimSpace(req.Number),
		DocDate:   req.DocDate,

		PartyName:    strings.TrimSpace(req.PartyName),
		PartyGSTIN:   strings.TrimSpace(req.PartyGSTIN),
		PartyAddress: strings.TrimSpace(req.PartyAddress),
		TaxMode:      string(draft.TaxMode),
		Note:         strings.TrimSpace(req.Note),

		Items:       items,
		Adjustments: adjustments,

		CGSTTotal:        draft.CGSTTotal.Float(),
		SGSTTotal:        draft.SGSTTotal.Float(),
		IGSTTotal:        draft.IGSTTotal.Float(),
		CommissionRate:   draft.CommissionRate.Float(),
		CommissionAmount: draft.CommissionAmount,
		LaborCharges:     draft.LaborCharges.Float(),
		MarketFee:        draft.MarketFee.Float(),
		TaxableTotal:     draft.TaxableTotal,
		TaxTotal:         draft.TaxTotal,
		RoundOff:         draft.RoundOff,
		GrandTotal:       draft.GrandTotal,
	}, nil
}

func toResponse(doc *documentdomain.Document) (*documentdomain.Response, error) {
	var items []calc.Line
	if len(doc.Items) > 0 {
		if err := json.Unmarshal(doc.Items, &items); err != nil {
			return nil, err
		}
	}
	var adjustments []calc.Adjustment
	if len(doc.Adjustments) > 0 {
		if err := json.Unmarshal(doc.Adjustments, &adjustments); err != nil {
			return nil, err
		}
	}

	return &documentdomain.Response{
		Draft: calc.Draft{
			Type:             calc.DocumentType(doc.Type),
			TaxMode:          calc.TaxMode(doc.TaxMode),
			Items:            items,
			Adjustments:      adjustments,
			CGSTTotal:        calc.Amount(doc.CGSTTotal),
			SGSTTotal:        calc.Amount(doc.SGSTTotal),
			IGSTTotal:        calc.Amount(doc.IGSTTotal),
			CommissionRate:   calc.Amount(doc.CommissionRate),
			CommissionAmount: doc.CommissionAmount,
			LaborCharges:     calc.Amount(doc.LaborCharges),
			MarketFee:        calc.Amount(doc.MarketFee),
			TaxableTotal:     doc.TaxableTotal,
			TaxTotal:         doc.TaxTotal,
			RoundOff:         doc.RoundOff,
			GrandTotal:       doc.GrandTotal,
		},
		ID:           doc.ID.String(),
		CompanyID:    doc.CompanyID.String(),
		Number:       doc.Number,
		DocDate:      doc.DocDate,
		PartyName:    doc.PartyName,
		PartyGSTIN:   doc.PartyGSTIN,
		PartyAddress: doc.PartyAddress,
		Status:       doc.Status,
		Note:         doc.Note,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
