package service

import (
	"context"
	"strings"
	"time"

	"github.com/saralbooks/saralbooks/internal/companyctx"
	"github.com/saralbooks/saralbooks/internal/document/calc"
	documentdomain "github.com/saralbooks/saralbooks/internal/document/domain"
	reportdomain "github.com/saralbooks/saralbooks/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const isoDate = "2006-01-02"

type ServiceParam struct {
	fx.In

	Log       *zap.Logger
	Documents documentdomain.Repository
}

type Service struct {
	log       *zap.Logger
	documents documentdomain.Repository
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		log:       p.Log.Named("report.service"),
		documents: p.Documents,
	}
}

func (s *Service) Summary(ctx context.Context, req reportdomain.SummaryRequest) (*reportdomain.SummaryResponse, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, reportdomain.ErrInvalidCompany
	}

	dateFrom, err := normalizeBound(req.DateFrom)
	if err != nil {
		return nil, err
	}
	dateTo, err := normalizeBound(req.DateTo)
	if err != nil {
		return nil, err
	}
	if dateFrom != "" && dateTo != "" && dateFrom > dateTo {
		return nil, reportdomain.ErrInvalidWindow
	}

	rows, err := s.documents.Summarize(ctx, companyID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	var resp reportdomain.SummaryResponse
	for _, row := range rows {
		switch calc.DocumentType(row.Type) {
		case calc.DocumentTypeSale:
			resp.Receivable = row.GrandTotal
			resp.SaleCount = row.Count
		case calc.DocumentTypePurchase:
			resp.Payable = row.GrandTotal
			resp.PurchaseCount = row.Count
		}
	}
	return &resp, nil
}

func normalizeBound(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if _, err := time.Parse(isoDate, input); err != nil {
		return "", reportdomain.ErrInvalidWindow
	}
	return input, nil
}
