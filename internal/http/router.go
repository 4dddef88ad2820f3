package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stocktrail/inventory/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/products", handlers.CreateProductHandler)
	r.Get("/products", handlers.GetProductsHandler)
	r.Get("/products/low-stock", handlers.LowStockHandler)
	r.Get("/products/barcode/{barcode}", handlers.GetProductByBarcodeHandler)
	r.Get("/products/{id}", handlers.GetProductByIDHandler)
	r.Post("/products/{id}/adjust", handlers.AdjustStockHandler)
	r.Post("/products/{id}/correct", handlers.CorrectStockHandler)
	r.Get("/products/{id}/transactions", handlers.GetProductTransactionsHandler)
	r.Post("/products/import", handlers.ImportProductsHandler)

	r.Get("/transactions", handlers.RecentTransactionsHandler)
	r.Get("/transactions/export", handlers.ExportTransactionsHandler)

	r.Post("/scan", handlers.ScanHandler)
	r.Get("/metrics", handlers.MetricsHandler)

	return r
}
