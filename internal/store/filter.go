package store

import "time"

// TransactionFilter narrows and paginates a product's ledger slice. Nil
// fields are ignored.
type TransactionFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}
