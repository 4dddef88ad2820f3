package models

import "time"

// Product represents a catalog entry tracked by the inventory store.
// Barcode is the primary lookup key and is unique across the catalog.
type Product struct {
	ID          string    `json:"id"`
	Barcode     string    `json:"barcode"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	MinStock    int       `json:"minStock"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LowStock reports whether the product is at or below its minimum stock level.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinStock
}
