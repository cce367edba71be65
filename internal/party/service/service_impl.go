package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/companyctx"
	partydomain "github.com/saralbooks/saralbooks/internal/party/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  partydomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  partydomain.Repository
}

func NewService(p ServiceParam) partydomain.Service {
	return &Service{
		log:   p.Log.Named("party.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req partydomain.CreateRequest) (*partydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, partydomain.ErrInvalidCompany
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, partydomain.ErrInvalidName
	}

	now := time.Now().UTC()
	record := &partydomain.Party{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		GSTIN:     strings.TrimSpace(req.GSTIN),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req partydomain.ListRequest) ([]partydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, partydomain.ErrInvalidCompany
	}

	filter := partydomain.ListRequest{
		Name:   strings.TrimSpace(req.Name),
		Search: strings.TrimSpace(req.Search),
	}

	items, err := s.repo.List(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]partydomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req partydomain.UpdateRequest) (*partydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, partydomain.ErrInvalidCompany
	}

	partyID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, partydomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, companyID, partyID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, partydomain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, partydomain.ErrInvalidName
		}
		item.Name = name
	}
	if req.GSTIN != nil {
		item.GSTIN = strings.TrimSpace(*req.GSTIN)
	}
	if req.Address != nil {
		item.Address = strings.TrimSpace(*req.Address)
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
		return partydomain.ErrInvalidCompany
	}

	partyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return partydomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, companyID, partyID)
	if err != nil {
		return err
	}
	if item == nil {
		return partydomain.ErrNotFound
	}

	return s.repo.SoftDelete(ctx, companyID, partyID)
}

func (s *Service) Lookup(ctx context.Context, name string) (*partydomain.Response, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, partydomain.ErrInvalidCompany
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

func toResponse(party *partydomain.Party) partydomain.Response {
	return partydomain.Response{
		ID:        party.ID.String(),
		CompanyID: party.CompanyID.String(),
		Name:      party.Name,
		GSTIN:     party.GSTIN,
		Address:   party.Address,
		CreatedAt: party.CreatedAt,
		UpdatedAt: party.UpdatedAt,
	}
}
