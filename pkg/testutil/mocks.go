// Package testutil provides common testing utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/soundmint/marketplace/internal/app/domain/ledger"
)

// MockSettler is a test implementation of the marketplace Settler interface.
// It records every batch it receives and can be programmed to fail.
type MockSettler struct {
	mu       sync.Mutex
	failWith error
	batches  [][]ledger.Leg
}

// NewMockSettler creates a settler that settles every batch successfully.
func NewMockSettler() *MockSettler {
	return &MockSettler{}
}

// FailWith makes every subsequent batch fail with err. Pass nil to restore
// successful settlement.
func (m *MockSettler) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// TransferBatch records the legs and returns synthetic transfers, one per
// non-zero leg, or the programmed error.
func (m *MockSettler) TransferBatch(_ context.Context, reference string, legs []ledger.Leg) ([]ledger.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	m.batches = append(m.batches, append([]ledger.Leg(nil), legs...))

	transfers := make([]ledger.Transfer, 0, len(legs))
	for _, leg := range legs {
		if leg.Amount == 0 {
			continue
		}
		transfers = append(transfers, ledger.Transfer{
			ID:        uuid.NewString(),
			From:      leg.From,
			To:        leg.To,
			Amount:    leg.Amount,
			Reference: reference,
		})
	}
	return transfers, nil
}

// Batches returns the batches settled so far.
func (m *MockSettler) Batches() [][]ledger.Leg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ledger.Leg(nil), m.batches...)
}

// MockIssuer is a test implementation of the backing-unit Issuer interface
// that hands out sequential token references.
type MockIssuer struct {
	mu   sync.Mutex
	next int
	err  error
}

// NewMockIssuer creates an issuer starting at token-1.
func NewMockIssuer() *MockIssuer {
	return &MockIssuer{next: 1}
}

// FailWith makes every subsequent issue fail with err.
func (m *MockIssuer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Issue returns the next sequential token reference.
func (m *MockIssuer) Issue(_ context.Context, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	id := fmt.Sprintf("token-%d", m.next)
	m.next++
	return id, nil
}
