package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/query"
)

const defaultServiceType = "claim"

// ReportStore runs the dashboard procedures.
type ReportStore interface {
	PercentageReport(ctx context.Context, p model.ReportParams) ([]model.Row, error)
	CountReport(ctx context.Context, p model.ReportParams) ([]model.Row, error)
	AISummary(ctx context.Context, p model.ReportParams) ([]model.Row, error)
}

// SummaryService builds the dashboard reports.
type SummaryService struct {
	store ReportStore
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(store ReportStore) *SummaryService {
	return &SummaryService{store: store}
}

// Report returns the percentage and count reports for the same filter.
func (s *SummaryService) Report(ctx context.Context, f model.SummaryFilter) (model.SummaryReport, error) {
	params, err := reportParams(f.ServiceType, f.DealerCode, f.FromDate, f.ToDate)
	if err != nil {
		return model.SummaryReport{}, err
	}

	pct, err := s.store.PercentageReport(ctx, params)
	if err != nil {
		return model.SummaryReport{}, fmt.Errorf("percentage report: %w", err)
	}
	count, err := s.store.CountReport(ctx, params)
	if err != nil {
		return model.SummaryReport{}, fmt.Errorf("count report: %w", err)
	}

	return model.SummaryReport{
		PercentageReport: nonNil(pct),
		OverallSummary:   nonNil(count),
	}, nil
}

// AISummary returns the AI inspection outcome summary.
func (s *SummaryService) AISummary(ctx context.Context, req model.AISummaryRequest) ([]model.Row, error) {
	params, err := reportParams(req.ServiceType, req.DealerID, req.FromDate, req.ToDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.AISummary(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("ai summary: %w", err)
	}
	return nonNil(rows), nil
}

func reportParams(serviceType, dealer, from, to string) (model.ReportParams, error) {
	p := model.ReportParams{
		ServiceType: defaultServiceType,
		Dealer:      normalize(dealer),
		FromDate:    normalize(from),
		ToDate:      normalize(to),
	}
	if st := normalize(serviceType); st != nil {
		p.ServiceType = *st
	}

	for _, d := range []*string{p.FromDate, p.ToDate} {
		if d == nil {
			continue
		}
		if err := query.ValidateDate(*d); err != nil {
			return model.ReportParams{}, fmt.Errorf("%w: %w: %q", ErrInvalidFilter, err, *d)
		}
	}
	return p, nil
}

// normalize treats blanks and the "null" and "string" placeholders sent by
// generated clients as absent.
func normalize(v string) *string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "", "null", "string":
		return nil
	}
	return &v
}

func nonNil(rows []model.Row) []model.Row {
	if rows == nil {
		return []model.Row{}
	}
	return rows
}
