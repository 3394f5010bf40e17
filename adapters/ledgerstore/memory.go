// Package ledgerstore provides ledger.Store implementations.
// Backends: memory (tests, demos) and postgres.
package ledgerstore

import (
	"context"
	"sync"

	"workorder-pricing/core/ledger"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
)

// MemoryStore is an in-memory ledger.Store
type MemoryStore struct {
	mu       sync.RWMutex
	lines    map[string][]ledger.OrderLine
	orders   map[string]*ledger.Order
	entities map[string]*ledger.Entities
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lines:    make(map[string][]ledger.OrderLine),
		orders:   make(map[string]*ledger.Order),
		entities: make(map[string]*ledger.Entities),
	}
}

// PutWorkOrder seeds a work order's lines and decomposition records
func (s *MemoryStore) PutWorkOrder(name string, lines []ledger.OrderLine, entities *ledger.Entities) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[name] = lines
	s.entities[name] = entities
}

// PutOrder seeds an order's payment state
func (s *MemoryStore) PutOrder(order *ledger.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.Name] = order
}

// OrderLinesForWorkOrder implements ledger.Store
func (s *MemoryStore) OrderLinesForWorkOrder(ctx context.Context, name string) ([]ledger.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines, ok := s.lines[name]
	if !ok {
		return nil, errors.NotFound("work order", name)
	}
	out := make([]ledger.OrderLine, len(lines))
	copy(out, lines)
	return out, nil
}

// Order implements ledger.Store
func (s *MemoryStore) Order(ctx context.Context, orderName string) (*ledger.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[orderName]
	if !ok {
		return nil, errors.NotFound("order", orderName)
	}
	copied := *order
	return &copied, nil
}

// ItemsAndCharges implements ledger.Store
func (s *MemoryStore) ItemsAndCharges(ctx context.Context, name string) (*ledger.Entities, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entities, ok := s.entities[name]
	if !ok {
		return nil, errors.NotFound("work order", name)
	}
	copied := &ledger.Entities{
		Items:         append([]types.Item(nil), entities.Items...),
		HourlyCharges: append([]types.HourlyCharge(nil), entities.HourlyCharges...),
		FixedCharges:  append([]types.FixedCharge(nil), entities.FixedCharges...),
	}
	return copied, nil
}
