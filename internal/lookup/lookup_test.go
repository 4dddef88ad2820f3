package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookup_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/123456789012" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Energy Drink","description":"Refreshing","brand":"EnergyMax","category":"Beverages","imageUrl":"http://img"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	info, err := c.Lookup(context.Background(), "123456789012")
	if err != nil {
		t.Fatalf("error looking up barcode: %v", err)
	}
	if info == nil {
		t.Fatal("expected a metadata candidate")
	}
	if info.Name != "Energy Drink" || info.Brand != "EnergyMax" || info.Category != "Beverages" {
		t.Errorf("unexpected metadata: %+v", info)
	}
}

func TestLookup_UnknownBarcode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	info, err := c.Lookup(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("expected no error for unknown barcode, got %v", err)
	}
	if info != nil {
		t.Errorf("expected nil candidate, got %+v", info)
	}
}

func TestLookup_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.Lookup(context.Background(), "12345678"); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestLookup_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	if _, err := c.Lookup(context.Background(), "12345678"); err == nil {
		t.Fatal("expected a timeout error")
	}
}
