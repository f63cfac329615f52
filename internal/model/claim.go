package model

// Row is a single result row returned by a stored procedure, keyed by column
// name. The service does not interpret its contents.
type Row map[string]any

// ClaimFilterRequest describes which claim records to list. Empty fields are
// treated as absent. Dates are calendar days in YYYY-MM-DD form.
type ClaimFilterRequest struct {
	ClaimWarrantyID string `json:"ClaimWarrantyId"`
	DealerID        string `json:"DealerId"`
	ServiceType     string `json:"Servicetype"`
	FromDate        string `json:"FromDate"`
	ToDate          string `json:"ToDate"`
	Page            int    `json:"page"`
}

// PaginatedClaims is the envelope returned by the claim listing endpoint.
type PaginatedClaims struct {
	Data       []Row `json:"data"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// UpdateClaimRequest records an inspector's review of a claim image.
type UpdateClaimRequest struct {
	ClaimID          string  `json:"claim_id"`
	Remark           *string `json:"remark"`
	ResultPercentage *int    `json:"result_percentage"`
	Type             *string `json:"type"`
	CorrectedValue   *string `json:"corrected_value"`
}

// ClaimImage identifies the stored row an update applies to.
type ClaimImage struct {
	ID        int64
	ImageName *string
}

// ExportRequest filters the rows used for the PDF export.
type ExportRequest struct {
	ClaimID    string `json:"claim_id"`
	DealerCode string `json:"dealer_code"`
	FromDate   string `json:"fromDate"`
	ToDate     string `json:"toDate"`
}

// IsEmpty reports whether no filter was supplied.
func (r ExportRequest) IsEmpty() bool {
	return r.ClaimID == "" && r.DealerCode == "" && r.FromDate == "" && r.ToDate == ""
}
