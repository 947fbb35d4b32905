package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soundmint/marketplace/internal/app/domain/asset"
	"github.com/soundmint/marketplace/internal/app/domain/collection"
	"github.com/soundmint/marketplace/internal/app/domain/ledger"
)

func TestCollectionLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	col, err := store.CreateCollection(ctx, collection.Collection{Authority: "alice", Name: "One", Symbol: "ONE"})
	require.NoError(t, err)
	require.NotEmpty(t, col.ID)
	require.False(t, col.CreatedAt.IsZero())

	got, err := store.GetCollection(ctx, col.ID)
	require.NoError(t, err)
	require.Equal(t, col, got)

	_, err = store.GetCollection(ctx, "missing")
	require.Error(t, err)

	_, err = store.CreateCollection(ctx, collection.Collection{ID: col.ID})
	require.Error(t, err, "duplicate id must be rejected")
}

func TestAssetLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	ast, err := store.CreateAsset(ctx, asset.Asset{Owner: "alice", Creator: "alice", CollectionID: "c1", Title: "T"})
	require.NoError(t, err)
	require.NotEmpty(t, ast.ID)

	ast.Owner = "bob"
	ast.ForSale = true
	ast.Price = 10
	updated, err := store.UpdateAsset(ctx, ast)
	require.NoError(t, err)
	require.Equal(t, "bob", updated.Owner)
	require.Equal(t, ast.MintedAt, updated.MintedAt, "minted_at is immutable")

	_, err = store.UpdateAsset(ctx, asset.Asset{ID: "missing"})
	require.Error(t, err)

	owned, err := store.ListAssetsByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, owned, 1)

	forSale, err := store.ListAssetsForSale(ctx, "")
	require.NoError(t, err)
	require.Len(t, forSale, 1)

	forSale, err = store.ListAssetsForSale(ctx, "other-collection")
	require.NoError(t, err)
	require.Empty(t, forSale)
}

func TestApplyTransfersAtomic(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.CreateLedgerAccount(ctx, ledger.Account{Address: "a", Balance: 100})
	require.NoError(t, err)
	_, err = store.CreateLedgerAccount(ctx, ledger.Account{Address: "b"})
	require.NoError(t, err)

	// Second transfer is short; the first must not apply either.
	err = store.ApplyTransfers(ctx, []ledger.Transfer{
		{ID: "t1", From: "a", To: "b", Amount: 60, Reference: "r"},
		{ID: "t2", From: "a", To: "b", Amount: 60, Reference: "r"},
	})
	require.Error(t, err)

	acct, err := store.GetLedgerAccount(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, uint64(100), acct.Balance)

	transfers, err := store.ListTransfersByReference(ctx, "r")
	require.NoError(t, err)
	require.Empty(t, transfers)

	// A credit earlier in the batch funds a later debit.
	_, err = store.CreateLedgerAccount(ctx, ledger.Account{Address: "c"})
	require.NoError(t, err)
	err = store.ApplyTransfers(ctx, []ledger.Transfer{
		{ID: "t3", From: "a", To: "b", Amount: 100, Reference: "r2"},
		{ID: "t4", From: "b", To: "c", Amount: 100, Reference: "r2"},
	})
	require.NoError(t, err)

	final, err := store.GetLedgerAccount(ctx, "c")
	require.NoError(t, err)
	require.Equal(t, uint64(100), final.Balance)

	history, err := store.ListTransfers(ctx, "b")
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestUpdateLedgerAccountPreservesIdentity(t *testing.T) {
	store := New()
	ctx := context.Background()

	acct, err := store.CreateLedgerAccount(ctx, ledger.Account{Address: "a"})
	require.NoError(t, err)

	acct.Balance = 42
	updated, err := store.UpdateLedgerAccount(ctx, acct)
	require.NoError(t, err)
	require.Equal(t, acct.ID, updated.ID)
	require.Equal(t, uint64(42), updated.Balance)

	_, err = store.UpdateLedgerAccount(ctx, ledger.Account{Address: "ghost"})
	require.Error(t, err)
}
