package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/stocktrail/inventory/internal/http"
	handler "github.com/stocktrail/inventory/internal/http/handlers"
	"github.com/stocktrail/inventory/internal/kv"
	"github.com/stocktrail/inventory/internal/store"
)

// setupTestStore wires a fresh in-memory store into the handlers and
// returns it for direct inspection.
func setupTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(context.Background(), kv.NewMemoryStore())
	if err != nil {
		t.Fatalf("error creating store: %v", err)
	}
	handler.SetStore(s)
	handler.SetLookupClient(nil)
	return s
}

func doJSON(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, payload handler.ProductRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, "/products", payload)
}

func mustCreateProduct(t *testing.T, r http.Handler, payload handler.ProductRequest) handler.ProductResponse {
	t.Helper()

	w := createProduct(r, payload)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return resp
}

func adjustStock(r http.Handler, productID string, payload handler.AdjustStockRequest) *httptest.ResponseRecorder {
	return doJSON(r, http.MethodPost, fmt.Sprintf("/products/%s/adjust", productID), payload)
}

func uploadCSV(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "products.csv")
	_, _ = part.Write([]byte(csvContent))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/products/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newRouter() http.Handler {
	return api.NewRouter()
}
