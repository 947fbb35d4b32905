package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/soundmint/marketplace/internal/app/domain/asset"
	"github.com/soundmint/marketplace/internal/app/domain/collection"
	"github.com/soundmint/marketplace/internal/app/domain/ledger"
	"github.com/soundmint/marketplace/internal/app/storage"
)

// Store implements the storage interfaces backed by PostgreSQL.
type Store struct {
	db *sqlx.DB
}

var _ storage.CollectionStore = (*Store)(nil)
var _ storage.AssetStore = (*Store)(nil)
var _ storage.LedgerStore = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

type collectionRow struct {
	ID                 string    `db:"id"`
	Authority          string    `db:"authority"`
	Name               string    `db:"name"`
	Symbol             string    `db:"symbol"`
	URI                string    `db:"uri"`
	RoyaltyBasisPoints uint16    `db:"royalty_basis_points"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r collectionRow) model() collection.Collection {
	return collection.Collection(r)
}

type assetRow struct {
	ID                 string    `db:"id"`
	TokenID            string    `db:"token_id"`
	CollectionID       string    `db:"collection_id"`
	Owner              string    `db:"owner"`
	Creator            string    `db:"creator"`
	Title              string    `db:"title"`
	URI                string    `db:"uri"`
	RoyaltyBasisPoints uint16    `db:"royalty_basis_points"`
	ForSale            bool      `db:"for_sale"`
	Price              uint64    `db:"price"`
	MintedAt           time.Time `db:"minted_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func (r assetRow) model() asset.Asset {
	return asset.Asset(r)
}

type ledgerAccountRow struct {
	ID        string    `db:"id"`
	Address   string    `db:"address"`
	Balance   uint64    `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r ledgerAccountRow) model() ledger.Account {
	return ledger.Account(r)
}

type transferRow struct {
	ID        string    `db:"id"`
	From      string    `db:"from_address"`
	To        string    `db:"to_address"`
	Amount    uint64    `db:"amount"`
	Reference string    `db:"reference"`
	CreatedAt time.Time `db:"created_at"`
}

func (r transferRow) model() ledger.Transfer {
	return ledger.Transfer(r)
}

// --- CollectionStore --------------------------------------------------------

func (s *Store) CreateCollection(ctx context.Context, col collection.Collection) (collection.Collection, error) {
	if col.ID == "" {
		col.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	col.CreatedAt = now
	col.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, authority, name, symbol, uri, royalty_basis_points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, col.ID, col.Authority, col.Name, col.Symbol, col.URI, col.RoyaltyBasisPoints, col.CreatedAt, col.UpdatedAt)
	if err != nil {
		return collection.Collection{}, err
	}
	return col, nil
}

func (s *Store) GetCollection(ctx context.Context, id string) (collection.Collection, error) {
	var row collectionRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, authority, name, symbol, uri, royalty_basis_points, created_at, updated_at
		FROM collections WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return collection.Collection{}, fmt.Errorf("collection %s not found", id)
	}
	if err != nil {
		return collection.Collection{}, err
	}
	return row.model(), nil
}

func (s *Store) ListCollections(ctx context.Context, authority string) ([]collection.Collection, error) {
	var rows []collectionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, authority, name, symbol, uri, royalty_basis_points, created_at, updated_at
		FROM collections
		WHERE $1 = '' OR authority = $1
		ORDER BY created_at
	`, authority)
	if err != nil {
		return nil, err
	}
	result := make([]collection.Collection, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}

// --- AssetStore -------------------------------------------------------------

func (s *Store) CreateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error) {
	if ast.ID == "" {
		ast.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	ast.MintedAt = now
	ast.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assets (id, token_id, collection_id, owner, creator, title, uri,
			royalty_basis_points, for_sale, price, minted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, ast.ID, ast.TokenID, ast.CollectionID, ast.Owner, ast.Creator, ast.Title, ast.URI,
		ast.RoyaltyBasisPoints, ast.ForSale, ast.Price, ast.MintedAt, ast.UpdatedAt)
	if err != nil {
		return asset.Asset{}, err
	}
	return ast, nil
}

func (s *Store) UpdateAsset(ctx context.Context, ast asset.Asset) (asset.Asset, error) {
	ast.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE assets
		SET owner = $2, for_sale = $3, price = $4, updated_at = $5
		WHERE id = $1
	`, ast.ID, ast.Owner, ast.ForSale, ast.Price, ast.UpdatedAt)
	if err != nil {
		return asset.Asset{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return asset.Asset{}, fmt.Errorf("asset %s not found", ast.ID)
	}
	return s.GetAsset(ctx, ast.ID)
}

func (s *Store) GetAsset(ctx context.Context, id string) (asset.Asset, error) {
	var row assetRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, token_id, collection_id, owner, creator, title, uri,
			royalty_basis_points, for_sale, price, minted_at, updated_at
		FROM assets WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return asset.Asset{}, fmt.Errorf("asset %s not found", id)
	}
	if err != nil {
		return asset.Asset{}, err
	}
	return row.model(), nil
}

func (s *Store) listAssets(ctx context.Context, where string, arg any) ([]asset.Asset, error) {
	var rows []assetRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, token_id, collection_id, owner, creator, title, uri,
			royalty_basis_points, for_sale, price, minted_at, updated_at
		FROM assets `+where+` ORDER BY minted_at
	`, arg)
	if err != nil {
		return nil, err
	}
	result := make([]asset.Asset, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}

func (s *Store) ListAssetsByOwner(ctx context.Context, owner string) ([]asset.Asset, error) {
	return s.listAssets(ctx, `WHERE owner = $1`, owner)
}

func (s *Store) ListAssetsByCollection(ctx context.Context, collectionID string) ([]asset.Asset, error) {
	return s.listAssets(ctx, `WHERE collection_id = $1`, collectionID)
}

func (s *Store) ListAssetsForSale(ctx context.Context, collectionID string) ([]asset.Asset, error) {
	return s.listAssets(ctx, `WHERE for_sale AND ($1 = '' OR collection_id = $1)`, collectionID)
}

// --- LedgerStore ------------------------------------------------------------

func (s *Store) CreateLedgerAccount(ctx context.Context, acct ledger.Account) (ledger.Account, error) {
	if acct.Address == "" {
		return ledger.Account{}, fmt.Errorf("ledger account address is required")
	}
	if acct.ID == "" {
		acct.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_accounts (id, address, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, acct.ID, acct.Address, acct.Balance, acct.CreatedAt, acct.UpdatedAt)
	if err != nil {
		return ledger.Account{}, err
	}
	return acct, nil
}

func (s *Store) UpdateLedgerAccount(ctx context.Context, acct ledger.Account) (ledger.Account, error) {
	acct.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE ledger_accounts SET balance = $2, updated_at = $3 WHERE address = $1
	`, acct.Address, acct.Balance, acct.UpdatedAt)
	if err != nil {
		return ledger.Account{}, err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ledger.Account{}, fmt.Errorf("ledger account for %s not found", acct.Address)
	}
	return s.GetLedgerAccount(ctx, acct.Address)
}

func (s *Store) GetLedgerAccount(ctx context.Context, address string) (ledger.Account, error) {
	var row ledgerAccountRow
	err := s.db.GetContext(ctx, &row, `
		SELECT id, address, balance, created_at, updated_at
		FROM ledger_accounts WHERE address = $1
	`, address)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Account{}, fmt.Errorf("ledger account for %s not found", address)
	}
	if err != nil {
		return ledger.Account{}, err
	}
	return row.model(), nil
}

func (s *Store) ListLedgerAccounts(ctx context.Context) ([]ledger.Account, error) {
	var rows []ledgerAccountRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, address, balance, created_at, updated_at
		FROM ledger_accounts ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Account, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}

// ApplyTransfers commits every transfer inside a single database transaction.
// Debits use a conditional update so a short balance rolls the whole batch
// back without touching any row.
func (s *Store) ApplyTransfers(ctx context.Context, transfers []ledger.Transfer) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, tr := range transfers {
		result, err := tx.ExecContext(ctx, `
			UPDATE ledger_accounts
			SET balance = balance - $2, updated_at = $3
			WHERE address = $1 AND balance >= $2
		`, tr.From, tr.Amount, now)
		if err != nil {
			return err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("insufficient funds or missing account for %s", tr.From)
		}

		result, err = tx.ExecContext(ctx, `
			UPDATE ledger_accounts
			SET balance = balance + $2, updated_at = $3
			WHERE address = $1
		`, tr.To, tr.Amount, now)
		if err != nil {
			return err
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return fmt.Errorf("ledger account for %s not found", tr.To)
		}

		if tr.ID == "" {
			tr.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_transfers (id, from_address, to_address, amount, reference, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, tr.ID, tr.From, tr.To, tr.Amount, tr.Reference, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) listTransfers(ctx context.Context, where string, arg any) ([]ledger.Transfer, error) {
	var rows []transferRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, from_address, to_address, amount, reference, created_at
		FROM ledger_transfers `+where+` ORDER BY created_at
	`, arg)
	if err != nil {
		return nil, err
	}
	result := make([]ledger.Transfer, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.model())
	}
	return result, nil
}

func (s *Store) ListTransfers(ctx context.Context, address string) ([]ledger.Transfer, error) {
	return s.listTransfers(ctx, `WHERE from_address = $1 OR to_address = $1`, address)
}

func (s *Store) ListTransfersByReference(ctx context.Context, reference string) ([]ledger.Transfer, error) {
	return s.listTransfers(ctx, `WHERE reference = $1`, reference)
}
