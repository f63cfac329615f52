package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/query"
)

const (
	procListClaimsPaged  = "USP_GetAllDetails_Paged"
	procClaimDetails     = "tyrecheck.USP_GetTyreDetailsFromWarranty_ClaimNo"
	procUpdateTyreResult = "tyrecheck.USP_UpdateTyreDetails"
	procExportReport     = "tyrecheck.usp_getTyreReportFiltered"
)

// countClaimsQuery counts distinct claims to match the grouping done by the
// paged listing procedure.
const countClaimsQuery = `SELECT COUNT(DISTINCT sl.Claim_Warranty_Id) AS total
	FROM TBL_Tyre_Details sl
	INNER JOIN tyre_dealer_masters tdm ON sl.Dealer_Code = tdm.Dealer_code
	WHERE `

// findClaimImageQuery selects the row an update applies to. The null-safe
// comparison lets a NULL type match a NULL Type column.
const findClaimImageQuery = `SELECT ID, Image_name FROM TBL_Tyre_Details
	WHERE Claim_Warranty_Id = ? AND Type <=> ? LIMIT 1`

var ErrClaimNotFound = errors.New("claim not found")

// ClaimRepository reads and updates tyre inspection claims.
type ClaimRepository struct {
	db *sql.DB
}

// NewClaimRepository creates a new ClaimRepository.
func NewClaimRepository(db *sql.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// ListClaims returns the number of claims matching filter and the rows of
// the requested page. Both statements run on one connection that is
// released before returning; they are not wrapped in a transaction, so a
// concurrent write may make total and rows disagree.
func (r *ClaimRepository) ListClaims(ctx context.Context, filter query.ClaimFilter, page query.Page) (int, []model.Row, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	total, err := countClaims(ctx, conn, filter)
	if err != nil {
		return 0, nil, err
	}

	rows, err := callProcedure(ctx, conn, procListClaimsPaged, filter.ProcedureArgs(page)...)
	if err != nil {
		return 0, nil, err
	}

	return total, rows, nil
}

// CountClaims returns the number of distinct claims matching filter.
func (r *ClaimRepository) CountClaims(ctx context.Context, filter query.ClaimFilter) (int, error) {
	return countClaims(ctx, r.db, filter)
}

func countClaims(ctx context.Context, q querier, filter query.ClaimFilter) (int, error) {
	where, args := filter.Predicates().Render(query.MySQL)

	var total sql.NullInt64
	if err := q.QueryRowContext(ctx, countClaimsQuery+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting claims: %w", err)
	}
	return int(total.Int64), nil
}

// GetClaimDetails returns every image row recorded for a claim.
func (r *ClaimRepository) GetClaimDetails(ctx context.Context, claimID string) ([]model.Row, error) {
	return callProcedure(ctx, r.db, procClaimDetails, claimID)
}

// UpdateClaimResult stores an inspector's review for the image row matching
// the claim and image type. The lookup and update share a transaction that
// is rolled back on any failure.
func (r *ClaimRepository) UpdateClaimResult(ctx context.Context, req model.UpdateClaimRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	image, err := findClaimImage(ctx, tx, req.ClaimID, req.Type)
	if err != nil {
		return err
	}

	if _, err := callProcedure(ctx, tx, procUpdateTyreResult,
		req.ClaimID,
		req.Remark,
		image.ImageName,
		image.ID,
		req.CorrectedValue,
		req.ResultPercentage,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func findClaimImage(ctx context.Context, q querier, claimID string, imageType *string) (model.ClaimImage, error) {
	var image model.ClaimImage
	var name sql.NullString
	err := q.QueryRowContext(ctx, findClaimImageQuery, claimID, imageType).Scan(&image.ID, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ClaimImage{}, ErrClaimNotFound
		}
		return model.ClaimImage{}, err
	}
	if name.Valid {
		image.ImageName = &name.String
	}

	return image, nil
}

// ExportReport returns the rows used for the PDF export.
func (r *ClaimRepository) ExportReport(ctx context.Context, req model.ExportRequest) ([]model.Row, error) {
	return callProcedure(ctx, r.db, procExportReport,
		nullString(req.ClaimID),
		nullString(req.FromDate),
		nullString(req.ToDate),
		nullString(req.DealerCode),
	)
}

// nullString maps an empty string to a SQL NULL argument.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
