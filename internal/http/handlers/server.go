package handlers

import (
	"github.com/stocktrail/inventory/internal/lookup"
	"github.com/stocktrail/inventory/internal/store"
)

var (
	inventory    *store.Store
	lookupClient *lookup.Client
)

func SetStore(s *store.Store) {
	inventory = s
}

// SetLookupClient wires the metadata lookup collaborator. A nil client
// disables pre-fill suggestions; scanning still works.
func SetLookupClient(c *lookup.Client) {
	lookupClient = c
}
