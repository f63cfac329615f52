package repository

import (
	"context"
	"database/sql"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
)

const procAllDealers = "tyrecheck.GetAllDealers"

// DealerRepository reads the dealer master list.
type DealerRepository struct {
	db *sql.DB
}

// NewDealerRepository creates a new DealerRepository.
func NewDealerRepository(db *sql.DB) *DealerRepository {
	return &DealerRepository{db: db}
}

// ListDealers returns every dealer row.
func (r *DealerRepository) ListDealers(ctx context.Context) ([]model.Row, error) {
	return callProcedure(ctx, r.db, procAllDealers)
}
