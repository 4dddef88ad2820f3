package models

import "time"

// TransactionType tags the direction and intent of a stock movement.
type TransactionType string

const (
	// TypeAdd is a plain stock addition. Product creation records its
	// initial quantity with this type.
	TypeAdd TransactionType = "add"
	// TypeBuy is a restocking purchase; it increases on-hand stock.
	TypeBuy TransactionType = "buy"
	// TypeSell is a sale; it decreases on-hand stock.
	TypeSell TransactionType = "sell"
	// TypeAdjust is a manual correction of the stock level.
	TypeAdjust TransactionType = "adjust"
)

// Transaction is an immutable ledger entry. Once appended it is never
// mutated or removed. Quantity is the unsigned magnitude of the change;
// the sign is implied by Type.
type Transaction struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Price     *float64        `json:"price,omitempty"`
	Total     *float64        `json:"total,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     string          `json:"notes,omitempty"`
}
