package handlers

import (
	"github.com/stocktrail/inventory/internal/lookup"
	"github.com/stocktrail/inventory/internal/models"
)

type ProductRequest struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brand       string  `json:"brand,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	MinStock    *int    `json:"minStock,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

type ProductResponse struct {
	models.Product
	LowStock bool `json:"lowStock"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, LowStock: p.LowStock()}
}

type AdjustStockRequest struct {
	Type     models.TransactionType `json:"type"`
	Quantity int                    `json:"quantity"`
	Price    *float64               `json:"price,omitempty"`
}

type CorrectStockRequest struct {
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

type AdjustStockResponse struct {
	Product     ProductResponse    `json:"product"`
	Transaction models.Transaction `json:"transaction"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type TransactionsSearchResult struct {
	Data []models.Transaction `json:"data"`
	Meta Meta                 `json:"meta,omitempty"`
}

type ScanResponse struct {
	Barcode    string              `json:"barcode"`
	Format     string              `json:"format"`
	Found      bool                `json:"found"`
	Product    *ProductResponse    `json:"product,omitempty"`
	Suggestion *lookup.ProductInfo `json:"suggestion,omitempty"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}
