package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/stocktrail/inventory/internal/barcode"
	"github.com/stocktrail/inventory/internal/models"
	"github.com/stocktrail/inventory/internal/store"
)

// ScanHandler godoc
// @Summary Resolve a scanned or manually entered barcode
// @Description Returns the matching product, or an advisory metadata suggestion for an unknown barcode. Lookup failures never block the flow.
// @Tags scan
// @Accept json
// @Produce json
// @Param scan body models.ScanResult true "Capture event"
// @Success 200 {object} ScanResponse
// @Failure 400 {string} string "Invalid barcode"
// @Router /scan [post]
func ScanHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ScanResult
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	// Manual entry is checked here at the boundary; camera formats are
	// opaque and pass through as-is.
	if req.Format == "" || req.Format == "manual" {
		if !barcode.ValidManual(req.Barcode) {
			http.Error(w, "please enter a valid barcode (at least 8 digits)", http.StatusBadRequest)
			return
		}
		req.Format = "manual"
	}

	resp := ScanResponse{
		Barcode: req.Barcode,
		Format:  req.Format,
	}
	if f := barcode.Format(req.Barcode); f != "unknown" {
		resp.Format = f
	}

	product, err := inventory.FindByBarcode(req.Barcode)
	if err == nil {
		pr := toProductResponse(product)
		resp.Found = true
		resp.Product = &pr
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if !errors.Is(err, store.ErrProductNotFound) {
		http.Error(w, "could not resolve barcode", http.StatusInternalServerError)
		return
	}

	if lookupClient != nil {
		info, err := lookupClient.Lookup(r.Context(), req.Barcode)
		if err != nil {
			// Advisory only: the operator fills the form by hand.
			log.Printf("metadata lookup failed for %s: %v", req.Barcode, err)
		} else {
			resp.Suggestion = info
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
