package repository

import (
	"context"
	"database/sql"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
)

const (
	procPercentageReport = "tyrecheck.USP_DashboardServicetypewise_percentage_Report"
	procCountReport      = "tyrecheck.USP_DashboardServicetypewiseCountReport"
	procAISummaryReport  = "tyrecheck.USP_DashboardAISummaryReport"
)

// ReportRepository runs the dashboard aggregation procedures.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// PercentageReport returns per service type result percentages.
func (r *ReportRepository) PercentageReport(ctx context.Context, p model.ReportParams) ([]model.Row, error) {
	return r.call(ctx, procPercentageReport, p)
}

// CountReport returns overall inspection counts.
func (r *ReportRepository) CountReport(ctx context.Context, p model.ReportParams) ([]model.Row, error) {
	return r.call(ctx, procCountReport, p)
}

// AISummary returns the AI inspection outcome summary.
func (r *ReportRepository) AISummary(ctx context.Context, p model.ReportParams) ([]model.Row, error) {
	return r.call(ctx, procAISummaryReport, p)
}

func (r *ReportRepository) call(ctx context.Context, proc string, p model.ReportParams) ([]model.Row, error) {
	return callProcedure(ctx, r.db, proc, p.ServiceType, p.Dealer, p.FromDate, p.ToDate)
}
