package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/query"
	"github.com/tyrecheck/tyrecheck-go/internal/repository"
)

// exportPreviewRows caps an unfiltered export.
const exportPreviewRows = 10

var (
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrClaimIDRequired = errors.New("claim_id is required")
	ErrClaimNotFound   = errors.New("claim not found")
)

// ClaimStore is the claim persistence used by ClaimService.
type ClaimStore interface {
	ListClaims(ctx context.Context, filter query.ClaimFilter, page query.Page) (int, []model.Row, error)
	GetClaimDetails(ctx context.Context, claimID string) ([]model.Row, error)
	UpdateClaimResult(ctx context.Context, req model.UpdateClaimRequest) error
	ExportReport(ctx context.Context, req model.ExportRequest) ([]model.Row, error)
}

// ClaimService handles claim listing, review and export.
type ClaimService struct {
	store ClaimStore
}

// NewClaimService creates a new ClaimService.
func NewClaimService(store ClaimStore) *ClaimService {
	return &ClaimService{store: store}
}

// ListClaims returns one page of claims matching req. A filter that matches
// nothing yields an empty page, not an error.
func (s *ClaimService) ListClaims(ctx context.Context, req model.ClaimFilterRequest, perPage int) (model.PaginatedClaims, error) {
	filter, err := query.NewClaimFilter(req)
	if err != nil {
		return model.PaginatedClaims{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	page, err := query.NewPage(req.Page, perPage)
	if err != nil {
		return model.PaginatedClaims{}, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	total, rows, err := s.store.ListClaims(ctx, filter, page)
	if err != nil {
		return model.PaginatedClaims{}, fmt.Errorf("listing claims: %w", err)
	}
	rows = nonNil(rows)

	return model.PaginatedClaims{
		Data:       rows,
		Page:       page.Number,
		PerPage:    page.Size,
		Total:      total,
		TotalPages: query.TotalPages(total, page.Size),
	}, nil
}

// GetClaim returns every image row of a claim.
func (s *ClaimService) GetClaim(ctx context.Context, claimID string) ([]model.Row, error) {
	if strings.TrimSpace(claimID) == "" {
		return nil, ErrClaimIDRequired
	}

	rows, err := s.store.GetClaimDetails(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("fetching claim %s: %w", claimID, err)
	}
	if len(rows) == 0 {
		return nil, ErrClaimNotFound
	}

	return rows, nil
}

// UpdateClaim stores an inspector's review of a claim image.
func (s *ClaimService) UpdateClaim(ctx context.Context, req model.UpdateClaimRequest) error {
	if strings.TrimSpace(req.ClaimID) == "" {
		return ErrClaimIDRequired
	}

	if err := s.store.UpdateClaimResult(ctx, req); err != nil {
		if errors.Is(err, repository.ErrClaimNotFound) {
			return ErrClaimNotFound
		}
		return fmt.Errorf("updating claim %s: %w", req.ClaimID, err)
	}

	return nil
}

// ExportClaims returns the rows for the report export. Without any filter
// only the first rows are returned.
func (s *ClaimService) ExportClaims(ctx context.Context, req model.ExportRequest) ([]model.Row, error) {
	req = model.ExportRequest{
		ClaimID:    strings.TrimSpace(req.ClaimID),
		DealerCode: strings.TrimSpace(req.DealerCode),
		FromDate:   strings.TrimSpace(req.FromDate),
		ToDate:     strings.TrimSpace(req.ToDate),
	}
	for _, d := range []string{req.FromDate, req.ToDate} {
		if err := query.ValidateDate(d); err != nil {
			return nil, fmt.Errorf("%w: %w: %q", ErrInvalidFilter, err, d)
		}
	}

	rows, err := s.store.ExportReport(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("exporting claims: %w", err)
	}
	rows = nonNil(rows)
	if req.IsEmpty() && len(rows) > exportPreviewRows {
		rows = rows[:exportPreviewRows]
	}

	return rows, nil
}
