package storage

import (
	"context"

	"github.com/soundmint/marketplace/internal/app/domain/asset"
	"github.com/soundmint/marketplace/internal/app/domain/collection"
	"github.com/soundmint/marketplace/internal/app/domain/ledger"
)

// CollectionStore persists collection records.
type CollectionStore interface {
	CreateCollection(ctx context.Context, col collection.Collection) (collection.Collection, error)
	GetCollection(ctx context.Context, id string) (collection.Collection, error)
	ListCollections(ctx context.Context, authority string) ([]collection.Collection, error)
}

// AssetStore persists asset records.
type AssetStore interface {
	CreateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error)
	UpdateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error)
	GetAsset(ctx context.Context, id string) (asset.Asset, error)
	ListAssetsByOwner(ctx context.Context, owner string) ([]asset.Asset, error)
	ListAssetsByCollection(ctx context.Context, collectionID string) ([]asset.Asset, error)
	ListAssetsForSale(ctx context.Context, collectionID string) ([]asset.Asset, error)
}

// LedgerStore persists ledger accounts and transfers. ApplyTransfers is the
// atomic commitment point for settlement: either every transfer in the slice
// is applied (balances debited and credited, transfer rows written) or none is.
type LedgerStore interface {
	CreateLedgerAccount(ctx context.Context, acct ledger.Account) (ledger.Account, error)
	UpdateLedgerAccount(ctx context.Context, acct ledger.Account) (ledger.Account, error)
	GetLedgerAccount(ctx context.Context, address string) (ledger.Account, error)
	ListLedgerAccounts(ctx context.Context) ([]ledger.Account, error)

	ApplyTransfers(ctx context.Context, transfers []ledger.Transfer) error
	ListTransfers(ctx context.Context, address string) ([]ledger.Transfer, error)
	ListTransfersByReference(ctx context.Context, reference string) ([]ledger.Transfer, error)
}
