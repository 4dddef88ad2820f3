package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrail/inventory/internal/store"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog and records its initial stock transaction
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ProductValidationError
// @Failure 409 {string} string "Duplicate barcode"
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateProduct(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	created, err := inventory.Create(store.CreateInput{
		Barcode:     req.Barcode,
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateBarcode) {
			http.Error(w, "could not create product: barcode already registered", http.StatusConflict)
			return
		}
		http.Error(w, "could not create product", http.StatusInternalServerError)
		return
	}

	warnIfNotPersisted(w)
	writeJSON(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products := inventory.Products()
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, response)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := inventory.FindByID(id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// GetProductByBarcodeHandler godoc
// @Summary Get product by barcode
// @Description Exact, case-sensitive barcode lookup
// @Tags products
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/barcode/{barcode} [get]
func GetProductByBarcodeHandler(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	product, err := inventory.FindByBarcode(barcode)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch product", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// LowStockHandler godoc
// @Summary List products at or below their minimum stock level
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Router /products/low-stock [get]
func LowStockHandler(w http.ResponseWriter, r *http.Request) {
	products := inventory.LowStock()
	response := make([]ProductResponse, len(products))
	for i, p := range products {
		response[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, response)
}
