package handler

import (
	"errors"
	"net/http"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

// SummaryHandler serves the dashboard reports.
type SummaryHandler struct {
	service *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(svc *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{service: svc}
}

// HandleSummaryReport handles POST /summary/summary_report requests.
func (h *SummaryHandler) HandleSummaryReport(w http.ResponseWriter, r *http.Request) {
	var req model.SummaryFilter
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.Report(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, r, "building summary report", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleAISummary handles POST /summary/ai_summary requests.
func (h *SummaryHandler) HandleAISummary(w http.ResponseWriter, r *http.Request) {
	var req model.AISummaryRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	rows, err := h.service.AISummary(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		internalError(w, r, "building ai summary", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
