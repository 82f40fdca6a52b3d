package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/service"
)

// DatasetHandler serves the upload/replace endpoints for the three row
// collections and the dataset status listing.
type DatasetHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

func NewDatasetHandler(svc *service.DashboardService, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{svc: svc, logger: logger}
}

// ReplaceActivities handles POST /v1/datasets/activities.
func (h *DatasetHandler) ReplaceActivities(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rows []domain.DispatchActivity `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	status, err := h.svc.LoadActivities(r.Context(), body.Rows)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ReplaceOrigination handles POST /v1/datasets/origination.
func (h *DatasetHandler) ReplaceOrigination(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rows []domain.OriginationDailyRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	status, err := h.svc.LoadOrigination(r.Context(), body.Rows)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ReplacePaidMedia handles POST /v1/datasets/paid-media.
func (h *DatasetHandler) ReplacePaidMedia(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rows []domain.PaidMediaDailyRow `json:"rows"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	status, err := h.svc.LoadPaidMedia(r.Context(), body.Rows)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ListDatasets handles GET /v1/datasets.
func (h *DatasetHandler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"datasets": h.svc.DatasetStatus(r.Context()),
	})
}
