package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrail/inventory/internal/store"
)

// AdjustStockHandler godoc
// @Summary Apply a stock movement to a product
// @Description Types add and buy increase on-hand stock, sell decreases it. A movement that would drive stock negative is rejected with no side effects.
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param adjustment body AdjustStockRequest true "Stock movement"
// @Success 200 {object} AdjustStockResponse
// @Failure 400 {string} string "Invalid adjustment"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Insufficient stock"
// @Router /products/{id}/adjust [post]
func AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	product, tx, err := inventory.AdjustStock(id, req.Type, req.Quantity, req.Price)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, store.ErrInsufficientStock):
			http.Error(w, "insufficient stock", http.StatusConflict)
		case errors.Is(err, store.ErrInvalidQuantity),
			errors.Is(err, store.ErrInvalidPrice),
			errors.Is(err, store.ErrInvalidTransactionType):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "could not adjust stock", http.StatusInternalServerError)
		}
		return
	}

	if product.LowStock() {
		log.Printf("⚠️ ALERT: Product %s (%s) is at or below minimum stock! Qty=%d, MinStock=%d",
			product.ID, product.Name, product.Quantity, product.MinStock)
	}

	warnIfNotPersisted(w)
	writeJSON(w, http.StatusOK, AdjustStockResponse{
		Product:     toProductResponse(product),
		Transaction: tx,
	})
}

// CorrectStockHandler godoc
// @Summary Set a product's stock level to an absolute value
// @Description Records the magnitude of the change as an adjust transaction
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param correction body CorrectStockRequest true "New stock level"
// @Success 200 {object} AdjustStockResponse
// @Failure 400 {string} string "Invalid correction"
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/correct [post]
func CorrectStockHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CorrectStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	product, tx, err := inventory.CorrectStock(id, req.Quantity, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
		case errors.Is(err, store.ErrNoChange),
			errors.Is(err, store.ErrInvalidQuantity):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "could not correct stock", http.StatusInternalServerError)
		}
		return
	}

	warnIfNotPersisted(w)
	writeJSON(w, http.StatusOK, AdjustStockResponse{
		Product:     toProductResponse(product),
		Transaction: tx,
	})
}
