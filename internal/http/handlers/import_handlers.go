package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/stocktrail/inventory/internal/store"
)

type csvRow struct {
	Barcode     string
	Name        string
	Description string
	Brand       string
	Category    string
	Price       float64
	Quantity    int
	MinStock    *int
}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"barcode", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{
			Barcode:     field(record, "barcode"),
			Name:        field(record, "name"),
			Description: field(record, "description"),
			Brand:       field(record, "brand"),
			Category:    field(record, "category"),
			Price:       parseFloat(field(record, "price")),
			Quantity:    parseInt(field(record, "quantity")),
		}
		if ms := field(record, "minstock"); ms != "" {
			v := parseInt(ms)
			row.MinStock = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if strings.TrimSpace(r.Barcode) == "" {
		return errors.New("missing barcode")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("missing name")
	}
	if r.Price < 0 {
		return errors.New("invalid price")
	}
	if r.Quantity < 0 {
		return errors.New("invalid quantity")
	}
	if r.MinStock != nil && *r.MinStock < 0 {
		return errors.New("invalid minstock")
	}
	return nil
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// ImportProductsHandler godoc
// @Summary Import products from a CSV file
// @Description Expects a multipart upload with a "file" field. Rows that fail validation or reuse a barcode are reported and skipped.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file with barcode,name,description,brand,category,price,quantity,minstock columns"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid upload"
// @Router /products/import [post]
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}
	for i, row := range rows {
		line := fmt.Sprintf("row %d", i+1)
		if err := validateRow(row); err != nil {
			result.Errors = append(result.Errors, ProductValidationError{Field: line, Description: err.Error()})
			continue
		}

		_, err := inventory.Create(store.CreateInput{
			Barcode:     row.Barcode,
			Name:        row.Name,
			Description: row.Description,
			Brand:       row.Brand,
			Category:    row.Category,
			Price:       row.Price,
			Quantity:    row.Quantity,
			MinStock:    row.MinStock,
		})
		if err != nil {
			result.Errors = append(result.Errors, ProductValidationError{Field: line, Description: err.Error()})
			continue
		}
		result.ImportedProductsCount++
	}

	warnIfNotPersisted(w)
	writeJSON(w, http.StatusOK, result)
}
