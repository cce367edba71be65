package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/companyctx"
	"github.com/saralbooks/saralbooks/internal/document/calc"
	stockdomain "github.com/saralbooks/saralbooks/internal/stock/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  stockdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  stockdomain.Repository
}

func NewService(p ServiceParam) stockdomain.Service {
	return &Service{
		log:   p.Log.Named("stock.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req stockdomain.CreateRequest) (*stockdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, stockdomain.ErrInvalidCompany
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, stockdomain.ErrInvalidName
	}
	if !validTaxRate(req.TaxRatePercent) {
		return nil, stockdomain.ErrInvalidTaxRate
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "PCS"
	}

	now := time.Now().UTC()
	record := &stockdomain.StockItem{
		ID:             s.genID.Generate(),
		CompanyID:      companyID,
		Name:           name,
		HSNCode:        strings.TrimSpace(req.HSNCode),
		Unit:           unit,
		Rate:           req.Rate,
		TaxRatePercent: req.TaxRatePercent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req stockdomain.ListRequest) ([]stockdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, stockdomain.ErrInvalidCompany
	}

	filter := stockdomain.ListRequest{Search: strings.TrimSpace(req.Search)}

	items, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]stockdomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req stockdomain.UpdateRequest) (*stockdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, stockdomain.ErrInvalidCompany
	}

	itemID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, stockdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, companyID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, stockdomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, stockdomain.ErrInvalidName
		}
		item.Name = name
	}
	if req.HSNCode != nil {
		item.HSNCode = strings.TrimSpace(*req.HSNCode)
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			unit = "PCS"
		}
		item.Unit = unit
	}
	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.TaxRatePercent != nil {
		if !validTaxRate(*req.TaxRatePercent) {
			return nil, stockdomain.ErrInvalidTaxRate
		}
		item.TaxRatePercent = *req.TaxRatePercent
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
		return stockdomain.ErrInvalidCompany
	}

	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return stockdomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, companyID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return stockdomain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, companyID, itemID)
}

func (s *Service) Lookup(ctx context.Context, name string) (*stockdomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, stockdomain.ErrInvalidCompany
	}

	item, err := s.repo.FindByName(ctx, companyID, name)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	resp := toResponse(item)
	return &resp, nil
}

func validTaxRate(rate float64) bool {
	for _, r := range calc.TaxRates {
		if rate == r {
			return true
		}
	}
	return false
}

func toResponse(item *stockdomain.StockItem) stockdomain.Response {
	return stockdomain.Response{
		ID:             item.ID.String(),
		CompanyID:      item.CompanyID.String(),
		Name:           item.Name,
		HSNCode:        item.HSNCode,
		Unit:           item.Unit,
		Rate:           item.Rate,
		TaxRatePercent: item.TaxRatePercent,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
