package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/soundmint/marketplace/internal/app/domain/asset"
	"github.com/soundmint/marketplace/internal/app/domain/collection"
	"github.com/soundmint/marketplace/internal/app/domain/ledger"
	"github.com/soundmint/marketplace/internal/app/storage"
)

// Store is an in-memory implementation of the storage interfaces. It is safe
// for concurrent use and is primarily intended for tests and local development.
type Store struct {
	mu                 sync.RWMutex
	nextID             int64
	collections        map[string]collection.Collection
	assets             map[string]asset.Asset
	ledgerAccounts     map[string]ledger.Account
	transfersByAddress map[string][]ledger.Transfer
	transfersByRef     map[string][]ledger.Transfer
}

var _ storage.CollectionStore = (*Store)(nil)
var _ storage.AssetStore = (*Store)(nil)
var _ storage.LedgerStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		nextID:             1,
		collections:        make(map[string]collection.Collection),
		assets:             make(map[string]asset.Asset),
		ledgerAccounts:     make(map[string]ledger.Account),
		transfersByAddress: make(map[string][]ledger.Transfer),
		transfersByRef:     make(map[string][]ledger.Transfer),
	}
}

func (s *Store) nextIDLocked() string {
	id := s.nextID
	s.nextID++
	return fmt.Sprintf("%d", id)
}

// CollectionStore implementation ----------------------------------------------

func (s *Store) CreateCollection(_ context.Context, col collection.Collection) (collection.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if col.ID == "" {
		col.ID = s.nextIDLocked()
	} else if _, exists := s.collections[col.ID]; exists {
		return collection.Collection{}, fmt.Errorf("collection %s already exists", col.ID)
	}

	now := time.Now().UTC()
	col.CreatedAt = now
	col.UpdatedAt = now

	s.collections[col.ID] = col
	return col, nil
}

func (s *Store) GetCollection(_ context.Context, id string) (collection.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[id]
	if !ok {
		return collection.Collection{}, fmt.Errorf("collection %s not found", id)
	}
	return col, nil
}

func (s *Store) ListCollections(_ context.Context, authority string) ([]collection.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]collection.Collection, 0)
	for _, col := range s.collections {
		if authority == "" || col.Authority == authority {
			result = append(result, col)
		}
	}
	return result, nil
}

// AssetStore implementation ----------------------------------------------------

func (s *Store) CreateAsset(_ context.Context, ast asset.Asset) (asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ast.ID == "" {
		ast.ID = s.nextIDLocked()
	} else if _, exists := s.assets[ast.ID]; exists {
		return asset.Asset{}, fmt.Errorf("asset %s already exists", ast.ID)
	}

	now := time.Now().UTC()
	ast.MintedAt = now
	ast.UpdatedAt = now

	s.assets[ast.ID] = ast
	return ast, nil
}

func (s *Store) UpdateAsset(_ context.Context, ast asset.Asset) (asset.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.assets[ast.ID]
	if !ok {
		return asset.Asset{}, fmt.Errorf("asset %s not found", ast.ID)
	}

	ast.MintedAt = original.MintedAt
	ast.UpdatedAt = time.Now().UTC()

	s.assets[ast.ID] = ast
	return ast, nil
}

func (s *Store) GetAsset(_ context.Context, id string) (asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ast, ok := s.assets[id]
	if !ok {
		return asset.Asset{}, fmt.Errorf("asset %s not found", id)
	}
	return ast, nil
}

func (s *Store) ListAssetsByOwner(_ context.Context, owner string) ([]asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]asset.Asset, 0)
	for _, ast := range s.assets {
		if ast.Owner == owner {
			result = append(result, ast)
		}
	}
	return result, nil
}

func (s *Store) ListAssetsByCollection(_ context.Context, collectionID string) ([]asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]asset.Asset, 0)
	for _, ast := range s.assets {
		if ast.CollectionID == collectionID {
			result = append(result, ast)
		}
	}
	return result, nil
}

func (s *Store) ListAssetsForSale(_ context.Context, collectionID string) ([]asset.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]asset.Asset, 0)
	for _, ast := range s.assets {
		if ast.ForSale && (collectionID == "" || ast.CollectionID == collectionID) {
			result = append(result, ast)
		}
	}
	return result, nil
}

// LedgerStore implementation ---------------------------------------------------

func (s *Store) CreateLedgerAccount(_ context.Context, acct ledger.Account) (ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if acct.Address == "" {
		return ledger.Account{}, fmt.Errorf("ledger account address is required")
	}
	if _, exists := s.ledgerAccounts[acct.Address]; exists {
		return ledger.Account{}, fmt.Errorf("ledger account for %s already exists", acct.Address)
	}
	if acct.ID == "" {
		acct.ID = s.nextIDLocked()
	}

	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	s.ledgerAccounts[acct.Address] = acct
	return acct, nil
}

func (s *Store) UpdateLedgerAccount(_ context.Context, acct ledger.Account) (ledger.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.ledgerAccounts[acct.Address]
	if !ok {
		return ledger.Account{}, fmt.Errorf("ledger account for %s not found", acct.Address)
	}

	acct.ID = original.ID
	acct.CreatedAt = original.CreatedAt
	acct.UpdatedAt = time.Now().UTC()

	s.ledgerAccounts[acct.Address] = acct
	return acct, nil
}

func (s *Store) GetLedgerAccount(_ context.Context, address string) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.ledgerAccounts[address]
	if !ok {
		return ledger.Account{}, fmt.Errorf("ledger account for %s not found", address)
	}
	return acct, nil
}

func (s *Store) ListLedgerAccounts(_ context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ledger.Account, 0, len(s.ledgerAccounts))
	for _, acct := range s.ledgerAccounts {
		result = append(result, acct)
	}
	return result, nil
}

// ApplyTransfers commits every transfer or none. All balance checks happen
// before the first mutation, under the same lock that guards the mutations.
func (s *Store) ApplyTransfers(_ context.Context, transfers []ledger.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Simulate the legs in order before touching real balances so a failure
	// part way through can never leave a partial application behind.
	projected := make(map[string]uint64)
	for _, tr := range transfers {
		for _, address := range []string{tr.From, tr.To} {
			if _, seen := projected[address]; seen {
				continue
			}
			acct, ok := s.ledgerAccounts[address]
			if !ok {
				return fmt.Errorf("ledger account for %s not found", address)
			}
			projected[address] = acct.Balance
		}
		if projected[tr.From] < tr.Amount {
			return fmt.Errorf("insufficient funds on %s: balance %d, debit %d", tr.From, projected[tr.From], tr.Amount)
		}
		projected[tr.From] -= tr.Amount
		projected[tr.To] += tr.Amount
	}

	now := time.Now().UTC()
	for _, tr := range transfers {
		from := s.ledgerAccounts[tr.From]
		from.Balance -= tr.Amount
		from.UpdatedAt = now
		s.ledgerAccounts[tr.From] = from

		to := s.ledgerAccounts[tr.To]
		to.Balance += tr.Amount
		to.UpdatedAt = now
		s.ledgerAccounts[tr.To] = to

		tr.CreatedAt = now
		s.transfersByAddress[tr.From] = append(s.transfersByAddress[tr.From], tr)
		if tr.To != tr.From {
			s.transfersByAddress[tr.To] = append(s.transfersByAddress[tr.To], tr)
		}
		s.transfersByRef[tr.Reference] = append(s.transfersByRef[tr.Reference], tr)
	}
	return nil
}

func (s *Store) ListTransfers(_ context.Context, address string) ([]ledger.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]ledger.Transfer(nil), s.transfersByAddress[address]...), nil
}

func (s *Store) ListTransfersByReference(_ context.Context, reference string) ([]ledger.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]ledger.Transfer(nil), s.transfersByRef[reference]...), nil
}
