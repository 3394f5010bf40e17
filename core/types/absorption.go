// Package types - Charge absorption predicate
package types

import "github.com/google/uuid"

// ItemIndex builds a uuid lookup over a slice of items
func ItemIndex(items []Item) map[uuid.UUID]*Item {
	index := make(map[uuid.UUID]*Item, len(items))
	for i := range items {
		index[items[i].UUID] = &items[i]
	}
	return index
}

// Absorbed reports whether a charge's price is folded into its parent item's
// displayed price rather than shown as a separate line. This is the single
// predicate shared by the oracle and ledger computation paths; both must
// agree on it for the same input.
func Absorbed(charge Charge, items map[uuid.UUID]*Item) bool {
	parent := charge.ParentItem()
	if parent == nil {
		return false
	}
	item, ok := items[*parent]
	return ok && item.AbsorbCharges
}

// AbsorbedParent returns the item a charge is absorbed into, or nil when the
// charge stands on its own line
func AbsorbedParent(charge Charge, items map[uuid.UUID]*Item) *Item {
	parent := charge.ParentItem()
	if parent == nil {
		return nil
	}
	item, ok := items[*parent]
	if !ok || !item.AbsorbCharges {
		return nil
	}
	return item
}
