package testutils

import (
	"sync"

	"github.com/evdnx/stratbook/executor"
	"github.com/evdnx/stratbook/types"
)

// MockExecutor behaves exactly like the paper executor and additionally
// captures every accepted order for assertions.
type MockExecutor struct {
	*executor.PaperExecutor

	mu      sync.RWMutex
	orders  []types.Order // captured for assertions
	failErr error
}

// NewMockExecutor creates a fresh executor with the supplied starting equity.
func NewMockExecutor(startEquity float64) *MockExecutor {
	return &MockExecutor{PaperExecutor: executor.NewPaperExecutor(startEquity, nil)}
}

// FailWith makes every following Submit return err (nil restores normal behaviour).
func (m *MockExecutor) FailWith(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

// Submit records the order and forwards it to the paper executor.
func (m *MockExecutor) Submit(o types.Order) error {
	m.mu.RLock()
	failErr := m.failErr
	m.mu.RUnlock()
	if failErr != nil {
		return failErr
	}
	if err := m.PaperExecutor.Submit(o); err != nil {
		return err
	}
	if o.Qty == 0 {
		return nil
	}
	m.mu.Lock()
	m.orders = append(m.orders, o)
	m.mu.Unlock()
	return nil
}

// Orders returns a copy of all submitted orders (useful for assertions).
func (m *MockExecutor) Orders() []types.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// LastOrder returns the most recent accepted order and false when none exist.
func (m *MockExecutor) LastOrder() (types.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.orders) == 0 {
		return types.Order{}, false
	}
	return m.orders[len(m.orders)-1], true
}
