package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stocktrail/inventory/internal/models"
	"github.com/stocktrail/inventory/internal/store"
)

// RecentTransactionsHandler godoc
// @Summary List recent transactions
// @Description Most recent first; a missing or non-positive limit defaults to 10
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum number of entries"
// @Success 200 {array} models.Transaction
// @Failure 400 {string} string "Invalid limit"
// @Router /transactions [get]
func RecentTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid limit format", http.StatusBadRequest)
			return
		}
		limit = v
	}

	writeJSON(w, http.StatusOK, inventory.RecentTransactions(limit))
}

// GetProductTransactionsHandler godoc
// @Summary Get a product's transaction history
// @Tags transactions
// @Produce json
// @Param id path string true "Product ID"
// @Param since query string false "Filter transactions from this timestamp (RFC3339)"
// @Param until query string false "Filter transactions until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} TransactionsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Router /products/{id}/transactions [get]
func GetProductTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tf, err := parseTransactionFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transactions, total, err := inventory.TransactionsForProduct(id, tf)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		log.Printf("could not retrieve transactions for product %s: %v", id, err)
		http.Error(w, "could not retrieve transactions", http.StatusInternalServerError)
		return
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, TransactionsSearchResult{
		Data: transactions,
		Meta: Meta{TotalCount: total},
	})
}

func parseTransactionFilter(r *http.Request) (store.TransactionFilter, error) {
	var tf store.TransactionFilter

	sinceStr := r.URL.Query().Get("since")
	untilStr := r.URL.Query().Get("until")

	// URL query decoding turns + into a space, which breaks the zone offset
	// of RFC3339 values. Undo it before parsing.
	sinceStr = restorePlusOffset(sinceStr)
	untilStr = restorePlusOffset(untilStr)

	if sinceStr != "" {
		ts, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return tf, fmt.Errorf("invalid since date format")
		}
		tf.Since = &ts
	}
	if untilStr != "" {
		ts, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return tf, fmt.Errorf("invalid until date format")
		}
		tf.Until = &ts
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		v, err := strconv.Atoi(limitStr)
		if err != nil {
			return tf, fmt.Errorf("invalid limit format")
		}
		if v <= 0 {
			return tf, fmt.Errorf("limit must be greater than zero")
		}
		tf.Limit = &v
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		v, err := strconv.Atoi(offsetStr)
		if err != nil {
			return tf, fmt.Errorf("invalid offset format")
		}
		if v < 0 {
			return tf, fmt.Errorf("offset must be zero or positive")
		}
		tf.Offset = &v
	}
	return tf, nil
}

func restorePlusOffset(s string) string {
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		return s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	return s
}

// ExportTransactionsHandler godoc
// @Summary Export the transaction ledger
// @Tags transactions
// @Produce text/csv, application/json
// @Param format query string true "Export format (csv or json)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Router /transactions/export [get]
func ExportTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	transactions := inventory.Transactions()

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.json"`)
		writeJSON(w, http.StatusOK, transactions)

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product_id", "type", "quantity", "price", "total", "timestamp", "notes"})
		for _, tx := range transactions {
			price, total := "", ""
			if tx.Price != nil {
				price = strconv.FormatFloat(*tx.Price, 'f', -1, 64)
			}
			if tx.Total != nil {
				total = strconv.FormatFloat(*tx.Total, 'f', -1, 64)
			}
			_ = csvWriter.Write([]string{
				tx.ID,
				tx.ProductID,
				string(tx.Type),
				strconv.Itoa(tx.Quantity),
				price,
				total,
				tx.Timestamp.Format(time.RFC3339),
				tx.Notes,
			})
		}
		csvWriter.Flush()
	}
}
