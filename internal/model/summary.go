package model

// SummaryFilter narrows the dashboard summary report.
type SummaryFilter struct {
	ServiceType string `json:"servicetype"`
	DealerCode  string `json:"dealer_code"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
}

// SummaryReport combines the percentage and count reports.
type SummaryReport struct {
	PercentageReport []Row `json:"percentage_report"`
	OverallSummary   []Row `json:"overall_summary"`
}

// AISummaryRequest filters the AI inspection summary.
type AISummaryRequest struct {
	DealerID    string `json:"dealer_id"`
	ServiceType string `json:"service_type"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
}

// ReportParams are the normalized arguments shared by the dashboard
// procedures. Nil pointers are passed to the database as NULL.
type ReportParams struct {
	ServiceType string
	Dealer      *string
	FromDate    *string
	ToDate      *string
}
