package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stocktrail/inventory/internal/kv"
	"github.com/stocktrail/inventory/internal/models"
)

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	backend := kv.NewMemoryStore()
	s, err := New(context.Background(), backend)
	if err != nil {
		t.Fatalf("error creating store: %v", err)
	}
	return s, backend
}

func createProduct(t *testing.T, s *Store, barcode string, quantity int) models.Product {
	t.Helper()
	p, err := s.Create(CreateInput{
		Barcode:  barcode,
		Name:     "Product " + barcode,
		Price:    9.99,
		Quantity: quantity,
	})
	if err != nil {
		t.Fatalf("error creating product: %v", err)
	}
	return p
}

func TestCreate_EmitsOneInitialTransaction(t *testing.T) {
	s, _ := newTestStore(t)

	p := createProduct(t, s, "12345678", 10)

	txs := s.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected exactly 1 transaction, got %d", len(txs))
	}
	tx := txs[0]
	if tx.Type != models.TypeAdd {
		t.Errorf("expected type %q, got %q", models.TypeAdd, tx.Type)
	}
	if tx.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", tx.Quantity)
	}
	if tx.ProductID != p.ID {
		t.Errorf("expected product id %q, got %q", p.ID, tx.ProductID)
	}
	if tx.Notes != "Initial stock" {
		t.Errorf("expected notes 'Initial stock', got %q", tx.Notes)
	}
}

func TestCreate_Normalization(t *testing.T) {
	s, _ := newTestStore(t)

	p, err := s.Create(CreateInput{
		Barcode:  " 12345678 ",
		Name:     "  Soda  ",
		Category: "   ",
		Price:    -3,
		Quantity: -2,
	})
	if err != nil {
		t.Fatalf("error creating product: %v", err)
	}

	if p.Barcode != "12345678" {
		t.Errorf("expected trimmed barcode, got %q", p.Barcode)
	}
	if p.Name != "Soda" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
	if p.Category != "Uncategorized" {
		t.Errorf("expected default category, got %q", p.Category)
	}
	if p.Price != 0 {
		t.Errorf("expected negative price normalized to 0, got %v", p.Price)
	}
	if p.Quantity != 0 {
		t.Errorf("expected negative quantity normalized to 0, got %d", p.Quantity)
	}
	if p.MinStock != 5 {
		t.Errorf("expected default minStock 5, got %d", p.MinStock)
	}
	if p.ID == "" {
		t.Error("expected a generated id")
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.LastUpdated) {
		t.Error("expected createdAt == lastUpdated at creation")
	}
}

func TestCreate_ExplicitMinStock(t *testing.T) {
	s, _ := newTestStore(t)

	zero := 0
	p, err := s.Create(CreateInput{Barcode: "12345678", Name: "Soda", MinStock: &zero})
	if err != nil {
		t.Fatalf("error creating product: %v", err)
	}
	if p.MinStock != 0 {
		t.Errorf("expected explicit minStock 0 to be kept, got %d", p.MinStock)
	}
}

func TestCreate_DuplicateBarcode(t *testing.T) {
	s, _ := newTestStore(t)
	createProduct(t, s, "12345678", 1)

	_, err := s.Create(CreateInput{Barcode: "12345678", Name: "Other"})
	if !errors.Is(err, ErrDuplicateBarcode) {
		t.Fatalf("expected ErrDuplicateBarcode, got %v", err)
	}
	if got := len(s.Products()); got != 1 {
		t.Errorf("expected catalog unchanged, got %d products", got)
	}
	if got := len(s.Transactions()); got != 1 {
		t.Errorf("expected ledger unchanged, got %d transactions", got)
	}
}

func TestAdjustStock_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		txType   models.TransactionType
		quantity int
		want     int
	}{
		{"add increases", models.TypeAdd, 3, 8},
		{"buy increases", models.TypeBuy, 2, 7},
		{"sell decreases", models.TypeSell, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			p := createProduct(t, s, "12345678", 5)

			updated, tx, err := s.AdjustStock(p.ID, tt.txType, tt.quantity, nil)
			if err != nil {
				t.Fatalf("error adjusting stock: %v", err)
			}
			if updated.Quantity != tt.want {
				t.Errorf("expected quantity %d, got %d", tt.want, updated.Quantity)
			}
			if tx.Quantity != tt.quantity {
				t.Errorf("expected unsigned transaction quantity %d, got %d", tt.quantity, tx.Quantity)
			}
			if tx.Type != tt.txType {
				t.Errorf("expected type %q, got %q", tt.txType, tx.Type)
			}
			if !updated.LastUpdated.After(p.LastUpdated) && !updated.LastUpdated.Equal(p.LastUpdated) {
				t.Error("expected lastUpdated to be refreshed")
			}
		})
	}
}

func TestAdjustStock_InsufficientStockHasNoSideEffects(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)
	before := s.Transactions()

	_, _, err := s.AdjustStock(p.ID, models.TypeSell, 6, nil)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	got, err := s.FindByID(p.ID)
	if err != nil {
		t.Fatalf("error fetching product: %v", err)
	}
	if got.Quantity != 5 {
		t.Errorf("expected quantity still 5, got %d", got.Quantity)
	}
	if !got.LastUpdated.Equal(p.LastUpdated) {
		t.Error("expected lastUpdated untouched on rejection")
	}
	if !reflect.DeepEqual(before, s.Transactions()) {
		t.Error("expected ledger unchanged after rejected adjustment")
	}
}

func TestAdjustStock_SellToExactlyZero(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)

	updated, _, err := s.AdjustStock(p.ID, models.TypeSell, 5, nil)
	if err != nil {
		t.Fatalf("error selling down to zero: %v", err)
	}
	if updated.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", updated.Quantity)
	}
}

func TestAdjustStock_InvalidInput(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)
	negativePrice := -1.0

	tests := []struct {
		name     string
		id       string
		txType   models.TransactionType
		quantity int
		price    *float64
		want     error
	}{
		{"unknown product", "nope", models.TypeAdd, 1, nil, ErrProductNotFound},
		{"zero quantity", p.ID, models.TypeAdd, 0, nil, ErrInvalidQuantity},
		{"negative quantity", p.ID, models.TypeSell, -3, nil, ErrInvalidQuantity},
		{"negative price", p.ID, models.TypeBuy, 1, &negativePrice, ErrInvalidPrice},
		{"adjust type not accepted", p.ID, models.TypeAdjust, 1, nil, ErrInvalidTransactionType},
		{"unknown type", p.ID, models.TransactionType("steal"), 1, nil, ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.AdjustStock(tt.id, tt.txType, tt.quantity, tt.price)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if got := len(s.Transactions()); got != 1 {
		t.Errorf("expected only the initial transaction, got %d", got)
	}
}

func TestAdjustStock_TotalComputation(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)

	price := 2.50
	_, tx, err := s.AdjustStock(p.ID, models.TypeBuy, 3, &price)
	if err != nil {
		t.Fatalf("error adjusting stock: %v", err)
	}
	if tx.Total == nil || *tx.Total != 7.50 {
		t.Fatalf("expected total 7.50, got %v", tx.Total)
	}

	_, tx, err = s.AdjustStock(p.ID, models.TypeSell, 2, nil)
	if err != nil {
		t.Fatalf("error adjusting stock: %v", err)
	}
	if tx.Price != nil || tx.Total != nil {
		t.Errorf("expected price and total absent, got price=%v total=%v", tx.Price, tx.Total)
	}
}

func TestLedgerAppendOnly(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)

	before := s.Transactions()
	if _, _, err := s.AdjustStock(p.ID, models.TypeBuy, 3, nil); err != nil {
		t.Fatalf("error adjusting stock: %v", err)
	}

	after := s.Transactions()
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one appended entry, got %d -> %d", len(before), len(after))
	}
	if !reflect.DeepEqual(before, after[:len(before)]) {
		t.Error("expected existing ledger entries unchanged")
	}
}

func TestCorrectStock(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)

	updated, tx, err := s.CorrectStock(p.ID, 2, "shrinkage")
	if err != nil {
		t.Fatalf("error correcting stock: %v", err)
	}
	if updated.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", updated.Quantity)
	}
	if tx.Type != models.TypeAdjust {
		t.Errorf("expected adjust transaction, got %q", tx.Type)
	}
	if tx.Quantity != 3 {
		t.Errorf("expected magnitude 3, got %d", tx.Quantity)
	}
	if tx.Notes != "shrinkage" {
		t.Errorf("expected notes kept, got %q", tx.Notes)
	}

	if _, _, err := s.CorrectStock(p.ID, 2, ""); !errors.Is(err, ErrNoChange) {
		t.Errorf("expected ErrNoChange, got %v", err)
	}
	if _, _, err := s.CorrectStock(p.ID, -1, ""); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, _, err := s.CorrectStock("nope", 1, ""); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestFindByBarcode_ExactMatch(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)

	got, err := s.FindByBarcode("12345678")
	if err != nil {
		t.Fatalf("error finding product: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("expected product %q, got %q", p.ID, got.ID)
	}

	if _, err := s.FindByBarcode("87654321"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestLowStock_InclusiveBoundary(t *testing.T) {
	s, _ := newTestStore(t)

	min := 5
	atBoundary, err := s.Create(CreateInput{Barcode: "12345678", Name: "At", Quantity: 5, MinStock: &min})
	if err != nil {
		t.Fatalf("error creating product: %v", err)
	}
	if _, err := s.Create(CreateInput{Barcode: "87654321", Name: "Above", Quantity: 6, MinStock: &min}); err != nil {
		t.Fatalf("error creating product: %v", err)
	}

	low := s.LowStock()
	if len(low) != 1 {
		t.Fatalf("expected 1 low-stock product, got %d", len(low))
	}
	if low[0].ID != atBoundary.ID {
		t.Errorf("expected the boundary product, got %q", low[0].Name)
	}
}

func TestRecentTransactions(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 100)

	for i := 0; i < 14; i++ {
		if _, _, err := s.AdjustStock(p.ID, models.TypeSell, 1, nil); err != nil {
			t.Fatalf("error adjusting stock: %v", err)
		}
	}

	recent := s.RecentTransactions(0)
	if len(recent) != 10 {
		t.Fatalf("expected default limit of 10, got %d", len(recent))
	}

	recent = s.RecentTransactions(5)
	if len(recent) != 5 {
		t.Fatalf("expected 5 transactions, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Timestamp.After(recent[i-1].Timestamp) {
			t.Errorf("expected descending order at index %d", i)
		}
	}

	// Sorting must not reorder the underlying ledger.
	all := s.Transactions()
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.Before(all[i-1].Timestamp) {
			t.Fatalf("ledger order disturbed at index %d", i)
		}
	}
}

func TestTransactionsForProduct(t *testing.T) {
	s, _ := newTestStore(t)
	p := createProduct(t, s, "12345678", 50)
	other := createProduct(t, s, "87654321", 50)

	for i := 0; i < 4; i++ {
		if _, _, err := s.AdjustStock(p.ID, models.TypeSell, 1, nil); err != nil {
			t.Fatalf("error adjusting stock: %v", err)
		}
	}
	if _, _, err := s.AdjustStock(other.ID, models.TypeSell, 1, nil); err != nil {
		t.Fatalf("error adjusting stock: %v", err)
	}

	txs, total, err := s.TransactionsForProduct(p.ID, TransactionFilter{})
	if err != nil {
		t.Fatalf("error fetching transactions: %v", err)
	}
	if total != 5 {
		t.Errorf("expected 5 transactions (initial + 4 sells), got %d", total)
	}
	for _, tx := range txs {
		if tx.ProductID != p.ID {
			t.Errorf("got transaction for wrong product: %q", tx.ProductID)
		}
	}

	limit, offset := 2, 1
	page, total, err := s.TransactionsForProduct(p.ID, TransactionFilter{Limit: &limit, Offset: &offset})
	if err != nil {
		t.Fatalf("error fetching transactions: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Errorf("expected page of 2 out of 5, got %d of %d", len(page), total)
	}

	if _, _, err := s.TransactionsForProduct("nope", TransactionFilter{}); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, backend := newTestStore(t)
	p := createProduct(t, s, "12345678", 5)
	price := 2.50
	if _, _, err := s.AdjustStock(p.ID, models.TypeBuy, 3, &price); err != nil {
		t.Fatalf("error adjusting stock: %v", err)
	}

	reloaded, err := New(context.Background(), backend)
	if err != nil {
		t.Fatalf("error reloading store: %v", err)
	}

	if !reflect.DeepEqual(s.Products(), reloaded.Products()) {
		t.Error("expected products identical after reload")
	}
	if !reflect.DeepEqual(s.Transactions(), reloaded.Transactions()) {
		t.Error("expected transactions identical after reload")
	}
}

type failingKV struct {
	*kv.MemoryStore
	fail bool
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func TestPersistFailureIsNonFatal(t *testing.T) {
	backend := &failingKV{MemoryStore: kv.NewMemoryStore()}
	s, err := New(context.Background(), backend)
	if err != nil {
		t.Fatalf("error creating store: %v", err)
	}

	backend.fail = true
	p, err := s.Create(CreateInput{Barcode: "12345678", Name: "Soda", Quantity: 5})
	if err != nil {
		t.Fatalf("expected creation to succeed despite persistence failure, got %v", err)
	}
	if s.LastPersistError() == nil {
		t.Fatal("expected a recorded persistence error")
	}

	// In-memory state stays authoritative.
	if _, err := s.FindByID(p.ID); err != nil {
		t.Errorf("expected product usable in memory, got %v", err)
	}

	// The next successful mutation rewrites both collections.
	backend.fail = false
	if _, _, err := s.AdjustStock(p.ID, models.TypeBuy, 1, nil); err != nil {
		t.Fatalf("error adjusting stock: %v", err)
	}
	if s.LastPersistError() != nil {
		t.Errorf("expected persistence error cleared, got %v", s.LastPersistError())
	}

	reloaded, err := New(context.Background(), backend.MemoryStore)
	if err != nil {
		t.Fatalf("error reloading store: %v", err)
	}
	if !reflect.DeepEqual(s.Products(), reloaded.Products()) {
		t.Error("expected catalog fully recovered after retry")
	}
}
