package service

import (
	"context"
	"fmt"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
)

// DealerStore lists the dealer master.
type DealerStore interface {
	ListDealers(ctx context.Context) ([]model.Row, error)
}

// DealerService exposes the dealer list.
type DealerService struct {
	store DealerStore
}

// NewDealerService creates a new DealerService.
func NewDealerService(store DealerStore) *DealerService {
	return &DealerService{store: store}
}

func (s *DealerService) ListDealers(ctx context.Context) ([]model.Row, error) {
	rows, err := s.store.ListDealers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing dealers: %w", err)
	}
	return nonNil(rows), nil
}
