package handlers

import (
	"net/http"
)

// MetricsHandler godoc
// @Summary Get dashboard metrics
// @Tags metrics
// @Produce json
// @Success 200 {object} store.Metrics
// @Router /metrics [get]
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, inventory.Metrics())
}
