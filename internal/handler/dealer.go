package handler

import (
	"net/http"

	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

// DealerHandler serves the dealer list.
type DealerHandler struct {
	service *service.DealerService
}

// NewDealerHandler creates a new DealerHandler.
func NewDealerHandler(svc *service.DealerService) *DealerHandler {
	return &DealerHandler{service: svc}
}

// HandleListDealers handles GET /dealers requests.
func (h *DealerHandler) HandleListDealers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ListDealers(r.Context())
	if err != nil {
		internalError(w, r, "listing dealers", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
