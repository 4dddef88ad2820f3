package store

// MostMovedProduct identifies the product with the most ledger entries.
type MostMovedProduct struct {
	Name             string `json:"name"`
	TransactionCount int    `json:"transaction_count"`
}

// Metrics are the dashboard numbers derived from the catalog and ledger.
type Metrics struct {
	TotalProducts     int              `json:"total_products"`
	TotalTransactions int              `json:"total_transactions"`
	LowStockCount     int              `json:"low_stock_count"`
	InventoryValue    float64          `json:"inventory_value"`
	MostMovedProduct  MostMovedProduct `json:"most_moved_product"`
}

// Metrics derives dashboard metrics from the current state. Pure read, no
// side effects.
func (s *Store) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := Metrics{
		TotalProducts:     len(s.products),
		TotalTransactions: len(s.transactions),
	}

	counts := make(map[string]int, len(s.products))
	for _, tx := range s.transactions {
		counts[tx.ProductID]++
	}

	for _, p := range s.products {
		if p.LowStock() {
			m.LowStockCount++
		}
		m.InventoryValue += p.Price * float64(p.Quantity)
		if counts[p.ID] > m.MostMovedProduct.TransactionCount {
			m.MostMovedProduct.Name = p.Name
			m.MostMovedProduct.TransactionCount = counts[p.ID]
		}
	}
	return m
}
