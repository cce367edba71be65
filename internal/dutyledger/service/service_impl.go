package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/companyctx"
	dutydomain "github.com/saralbooks/saralbooks/internal/dutyledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  dutydomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  dutydomain.Repository
}

func NewService(p ServiceParam) dutydomain.Service {
	return &Service{
		log:   p.Log.Named("dutyledger.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req dutydomain.CreateRequest) (*dutydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, dutydomain.ErrInvalidCompany
	}

	now := time.Now().UTC()
	record := &dutydomain.DutyLedger{
		ID:          s.genID.Generate(),
		CompanyID:   companyID,
		Name:        strings.TrimSpace(req.Name),
		Kind:        req.Kind,
		Method:      req.Method,
		Rate:        req.Rate,
		FixedAmount: req.FixedAmount,
		ApplyOn:     req.ApplyOn,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req dutydomain.ListRequest) ([]dutydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, dutydomain.ErrInvalidCompany
	}

	filter := dutydomain.ListRequest{Search: strings.TrimSpace(req.Search)}

	items, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) ListActive(ctx context.Context) ([]dutydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, dutydomain.ErrInvalidCompany
	}

	items, err := s.repo.ListActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) Update(ctx context.Context, req dutydomain.UpdateRequest) (*dutydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, dutydomain.ErrInvalidCompany
	}

	ledgerID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, dutydomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, companyID, ledgerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, dutydomain.ErrNotFound
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Kind != nil {
		item.Kind = *req.Kind
	}
	if req.Method != nil {
		item.Method = *req.Method
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.FixedAmount != nil {
		item.FixedAmount = *req.FixedAmount
	}
	if req.ApplyOn != nil {
		item.ApplyOn = *req.ApplyOn
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return dutydomain.ErrInvalidCompany
	}

	ledgerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return dutydomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, companyID, ledgerID)
	if err != nil {
		return err
	}
	if item == nil {
		return dutydomain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, companyID, ledgerID)
}

func toResponses(items []dutydomain.DutyLedger) []dutydomain.Response {
	resp := make([]dutydomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp
}

func toResponse(ledger *dutydomain.DutyLedger) dutydomain.Response {
	return dutydomain.Response{
		ID:          ledger.ID.String(),
		CompanyID:   ledger.CompanyID.String(),
		Name:        ledger.Name,
		Kind:        ledger.Kind,
		Method:      ledger.Method,
		Rate:        ledger.Rate,
		FixedAmount: ledger.FixedAmount,
		ApplyOn:     ledger.ApplyOn,
		CreatedAt:   ledger.CreatedAt,
		UpdatedAt:   ledger.UpdatedAt,
	}
}
