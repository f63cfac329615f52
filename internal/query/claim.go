package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
)

const (
	dateLayout = "2006-01-02"
	dayStart   = " 00:00:00"
	dayEnd     = " 23:59:59"
)

var ErrInvalidDate = errors.New("dates must use the YYYY-MM-DD format")

// Claim listing columns, qualified for the count query's join.
const (
	ColClaimID     = "sl.Claim_Warranty_Id"
	ColDealerCode  = "sl.Dealer_Code"
	ColServiceType = "sl.Service_type"
	ColRequestDate = "sl.Request_Date"
)

// ClaimFilter is a validated ClaimFilterRequest. Empty fields are absent.
type ClaimFilter struct {
	ClaimID     string
	DealerID    string
	ServiceType string
	FromDate    string
	ToDate      string
}

// NewClaimFilter trims the request fields and validates the date bounds.
// A from date after the to date is accepted and simply matches nothing.
func NewClaimFilter(req model.ClaimFilterRequest) (ClaimFilter, error) {
	f := ClaimFilter{
		ClaimID:     strings.TrimSpace(req.ClaimWarrantyID),
		DealerID:    strings.TrimSpace(req.DealerID),
		ServiceType: strings.TrimSpace(req.ServiceType),
		FromDate:    strings.TrimSpace(req.FromDate),
		ToDate:      strings.TrimSpace(req.ToDate),
	}

	for _, d := range []struct{ name, value string }{
		{"FromDate", f.FromDate},
		{"ToDate", f.ToDate},
	} {
		if err := ValidateDate(d.value); err != nil {
			return ClaimFilter{}, fmt.Errorf("%w: %s=%q", err, d.name, d.value)
		}
	}

	return f, nil
}

// ValidateDate accepts an empty string or a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// StartOfDay expands a calendar date to its first second.
func StartOfDay(date string) string {
	return date + dayStart
}

// EndOfDay expands a calendar date to its last second.
func EndOfDay(date string) string {
	return date + dayEnd
}

// Predicates returns one predicate per present field. Date bounds are
// inclusive of both boundary days.
func (f ClaimFilter) Predicates() *Builder {
	b := NewBuilder().
		WhereIf(ColClaimID, OpEq, f.ClaimID).
		WhereIf(ColDealerCode, OpEq, f.DealerID).
		WhereIf(ColServiceType, OpEq, f.ServiceType)

	if f.FromDate != "" {
		b.Where(ColRequestDate, OpGte, StartOfDay(f.FromDate))
	}
	if f.ToDate != "" {
		b.Where(ColRequestDate, OpLte, EndOfDay(f.ToDate))
	}
	return b
}

// ProcedureArgs returns the positional arguments for the paged listing
// procedure: claim, dealer, service type, from, to, page, per page. Absent
// fields become NULL and dates are passed as plain calendar days.
func (f ClaimFilter) ProcedureArgs(p Page) []any {
	return []any{
		nullable(f.ClaimID),
		nullable(f.DealerID),
		nullable(f.ServiceType),
		nullable(f.FromDate),
		nullable(f.ToDate),
		p.Number,
		p.Size,
	}
}

// nullable maps an empty string to a SQL NULL argument.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
