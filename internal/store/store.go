// Package store owns the product catalog and the transaction ledger and
// enforces every stock invariant before committing a state change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/inventory/internal/kv"
	"github.com/stocktrail/inventory/internal/models"
)

// Persistence keys. They match the collection names the catalog has always
// been stored under, so existing data loads unchanged.
const (
	productsKey     = "inventory_products"
	transactionsKey = "inventory_transactions"
)

const (
	defaultMinStock       = 5
	defaultCategory       = "Uncategorized"
	defaultRecentLimit    = 10
	persistTimeout        = 5 * time.Second
	initialStockNote      = "Initial stock"
	defaultCorrectionNote = "Manual correction"
)

var (
	// ErrProductNotFound is returned when a product id or barcode does not
	// resolve to a catalog entry.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is returned when an adjustment would drive the
	// on-hand quantity negative. The rejected call has no side effects.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for non-positive adjustment quantities.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidPrice is returned for negative unit prices.
	ErrInvalidPrice = errors.New("price cannot be negative")
	// ErrInvalidTransactionType is returned when an adjustment names a type
	// other than add, buy or sell.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrDuplicateBarcode is returned when a create would reuse a barcode
	// already present in the catalog.
	ErrDuplicateBarcode = errors.New("barcode already registered")
	// ErrNoChange is returned by CorrectStock when the requested level
	// equals the current one.
	ErrNoChange = errors.New("stock level unchanged")
)

// Store is the inventory engine: it owns both collections for the lifetime
// of the session and is the only writer. Reads from storage happen once at
// construction; every successful mutation writes both collections back.
type Store struct {
	mu             sync.Mutex
	backend        kv.Store
	products       []models.Product
	transactions   []models.Transaction
	lastPersistErr error
}

// New loads the catalog and ledger from the backend. Missing keys mean a
// fresh installation, not an error.
func New(ctx context.Context, backend kv.Store) (*Store, error) {
	s := &Store{backend: backend}

	if err := load(ctx, backend, productsKey, &s.products); err != nil {
		return nil, err
	}
	if err := load(ctx, backend, transactionsKey, &s.transactions); err != nil {
		return nil, err
	}
	return s, nil
}

func load(ctx context.Context, backend kv.Store, key string, out any) error {
	data, err := backend.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// CreateInput carries the operator-supplied fields for a new product.
// MinStock is a pointer so "not provided" can default independently of an
// explicit zero.
type CreateInput struct {
	Barcode     string
	Name        string
	Description string
	Brand       string
	Category    string
	Price       float64
	Quantity    int
	MinStock    *int
	ImageURL    string
}

// Create normalizes the input, inserts the product and appends the single
// initial-stock transaction, then persists both collections. Malformed
// numeric input is normalized rather than rejected; the only error path is
// a duplicate barcode.
func (s *Store) Create(input CreateInput) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	barcode := strings.TrimSpace(input.Barcode)
	for _, p := range s.products {
		if p.Barcode == barcode {
			return models.Product{}, ErrDuplicateBarcode
		}
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultCategory
	}

	quantity := input.Quantity
	if quantity < 0 {
		log.Printf("create: negative quantity %d for barcode %s, defaulting to 0", quantity, barcode)
		quantity = 0
	}
	price := input.Price
	if price < 0 {
		log.Printf("create: negative price %v for barcode %s, defaulting to 0", price, barcode)
		price = 0
	}
	minStock := defaultMinStock
	if input.MinStock != nil && *input.MinStock >= 0 {
		minStock = *input.MinStock
	}

	now := time.Now().UTC()
	product := models.Product{
		ID:          uuid.NewString(),
		Barcode:     barcode,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Brand:       strings.TrimSpace(input.Brand),
		Category:    category,
		Price:       price,
		Quantity:    quantity,
		MinStock:    minStock,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		LastUpdated: now,
		CreatedAt:   now,
	}

	s.products = append(s.products, product)
	s.transactions = append(s.transactions, models.Transaction{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		Type:      models.TypeAdd,
		Quantity:  quantity,
		Timestamp: now,
		Notes:     initialStockNote,
	})

	s.persistLocked()
	return product, nil
}

// AdjustStock applies a signed stock movement and appends its ledger entry.
// Types add and buy increase stock, sell decreases it. A result below zero
// rejects the whole operation: no product change, no ledger entry, no write.
func (s *Store) AdjustStock(productID string, txType models.TransactionType, quantity int, price *float64) (models.Product, models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(productID)
	if idx < 0 {
		return models.Product{}, models.Transaction{}, ErrProductNotFound
	}
	if quantity <= 0 {
		return models.Product{}, models.Transaction{}, ErrInvalidQuantity
	}
	if price != nil && *price < 0 {
		return models.Product{}, models.Transaction{}, ErrInvalidPrice
	}

	var delta int
	switch txType {
	case models.TypeAdd, models.TypeBuy:
		delta = quantity
	case models.TypeSell:
		delta = -quantity
	default:
		return models.Product{}, models.Transaction{}, ErrInvalidTransactionType
	}

	candidate := s.products[idx].Quantity + delta
	if candidate < 0 {
		return models.Product{}, models.Transaction{}, ErrInsufficientStock
	}

	now := time.Now().UTC()
	s.products[idx].Quantity = candidate
	s.products[idx].LastUpdated = now

	tx := models.Transaction{
		ID:        uuid.NewString(),
		ProductID: productID,
		Type:      txType,
		Quantity:  quantity,
		Price:     price,
		Timestamp: now,
	}
	if price != nil {
		total := *price * float64(quantity)
		tx.Total = &total
	}
	s.transactions = append(s.transactions, tx)

	s.persistLocked()
	return s.products[idx], tx, nil
}

// CorrectStock sets the on-hand quantity to an absolute level and records
// the magnitude of the change as an adjust transaction.
func (s *Store) CorrectStock(productID string, newQuantity int, notes string) (models.Product, models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(productID)
	if idx < 0 {
		return models.Product{}, models.Transaction{}, ErrProductNotFound
	}
	if newQuantity < 0 {
		return models.Product{}, models.Transaction{}, ErrInvalidQuantity
	}

	diff := newQuantity - s.products[idx].Quantity
	if diff == 0 {
		return s.products[idx], models.Transaction{}, ErrNoChange
	}
	if diff < 0 {
		diff = -diff
	}
	if notes == "" {
		notes = defaultCorrectionNote
	}

	now := time.Now().UTC()
	s.products[idx].Quantity = newQuantity
	s.products[idx].LastUpdated = now

	tx := models.Transaction{
		ID:        uuid.NewString(),
		ProductID: productID,
		Type:      models.TypeAdjust,
		Quantity:  diff,
		Timestamp: now,
		Notes:     notes,
	}
	s.transactions = append(s.transactions, tx)

	s.persistLocked()
	return s.products[idx], tx, nil
}

// FindByID retrieves a product by its id.
func (s *Store) FindByID(productID string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(productID)
	if idx < 0 {
		return models.Product{}, ErrProductNotFound
	}
	return s.products[idx], nil
}

// FindByBarcode retrieves the product whose barcode matches exactly.
// Matching is case-sensitive with no normalization.
func (s *Store) FindByBarcode(barcode string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Products returns a snapshot of the catalog in insertion order.
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// LowStock returns the products at or below their minimum stock level, in
// insertion order.
func (s *Store) LowStock() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	low := []models.Product{}
	for _, p := range s.products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low
}

// RecentTransactions returns up to limit ledger entries, most recent first,
// ties in insertion order. A non-positive limit uses the default of 10. The
// underlying ledger order is never disturbed.
func (s *Store) RecentTransactions(limit int) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = defaultRecentLimit
	}

	sorted := make([]models.Transaction, len(s.transactions))
	copy(sorted, s.transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted
}

// Transactions returns a snapshot of the full ledger in append order.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// TransactionsForProduct returns the product's ledger slice, filtered and
// paginated, along with the total count before pagination.
func (s *Store) TransactionsForProduct(productID string, tf TransactionFilter) ([]models.Transaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfLocked(productID) < 0 {
		return nil, 0, ErrProductNotFound
	}

	var filtered []models.Transaction
	for _, tx := range s.transactions {
		if tx.ProductID != productID {
			continue
		}
		if tf.Since != nil && tx.Timestamp.Before(*tf.Since) {
			continue
		}
		if tf.Until != nil && tx.Timestamp.After(*tf.Until) {
			continue
		}
		filtered = append(filtered, tx)
	}

	if tf.Offset != nil && *tf.Offset > len(filtered) {
		return []models.Transaction{}, len(filtered), nil
	}

	start := 0
	if tf.Offset != nil {
		start = clamp(*tf.Offset, 0, len(filtered))
	}
	end := len(filtered)
	if tf.Limit != nil && *tf.Limit > 0 {
		end = clamp(start+*tf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// LastPersistError reports the error from the most recent persistence
// attempt, or nil when it succeeded. Persistence failures are non-fatal:
// in-memory state stays authoritative and the next mutation rewrites both
// collections.
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersistErr
}

func (s *Store) indexOfLocked(productID string) int {
	for i, p := range s.products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) persistLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	s.lastPersistErr = nil
	for key, value := range map[string]any{
		productsKey:     s.products,
		transactionsKey: s.transactions,
	} {
		data, err := json.Marshal(value)
		if err == nil {
			err = s.backend.Set(ctx, key, data)
		}
		if err != nil {
			log.Printf("⚠️ persistence failed for %s, changes may not survive a restart: %v", key, err)
			s.lastPersistErr = err
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
