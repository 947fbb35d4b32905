package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundmint/marketplace/internal/app/domain/asset"
	"github.com/soundmint/marketplace/internal/app/domain/ledger"
	"github.com/soundmint/marketplace/internal/app/metrics"
	"github.com/soundmint/marketplace/internal/app/storage"
	"github.com/soundmint/marketplace/pkg/logger"
)

var (
	// ErrNotOwner is returned when a caller tries to mutate an asset it does not own.
	ErrNotOwner = errors.New("caller is not the asset owner")
	// ErrNotForSale is returned when a purchase targets an unlisted asset.
	ErrNotForSale = errors.New("asset is not for sale")
	// ErrInvalidMetadata is returned when a descriptive field is missing or oversized.
	ErrInvalidMetadata = errors.New("invalid asset metadata")
	// ErrInvalidRoyalty is returned when a royalty rate is outside the basis-point range.
	ErrInvalidRoyalty = errors.New("royalty basis points out of range")
	// ErrInvalidPrice is returned when a listing price is zero.
	ErrInvalidPrice = errors.New("listing price must be positive")
	// ErrArithmeticOverflow is returned when the royalty computation exceeds uint64.
	ErrArithmeticOverflow = errors.New("royalty arithmetic overflow")
	// ErrTransferFailed is returned when the value-transfer collaborator rejects
	// a settlement leg. The collaborator error is joined for inspection.
	ErrTransferFailed = errors.New("settlement transfer failed")
)

// Settler settles value-transfer legs as one all-or-nothing unit: either every
// leg moves funds or none does, with no partial effect.
type Settler interface {
	TransferBatch(ctx context.Context, reference string, legs []ledger.Leg) ([]ledger.Transfer, error)
}

// Service owns the asset lifecycle: mint, list, buy, cancel. Every operation
// is a single atomic transition; buy additionally orchestrates the payment
// split between seller and original creator before ownership moves.
type Service struct {
	collections storage.CollectionStore
	assets      storage.AssetStore
	settler     Settler
	issuer      Issuer
	log         *logger.Logger
}

// New constructs a marketplace service. The issuer defaults to UUID token
// references; replace it with AttachIssuer when a real token subsystem backs
// the deployment.
func New(collections storage.CollectionStore, assets storage.AssetStore, settler Settler, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("market")
	}
	return &Service{
		collections: collections,
		assets:      assets,
		settler:     settler,
		issuer:      UUIDIssuer{},
		log:         log,
	}
}

// AttachIssuer swaps the backing-unit issuer. Call before serving traffic.
func (s *Service) AttachIssuer(issuer Issuer) {
	if issuer != nil {
		s.issuer = issuer
	}
}

// requireOwner guards every listing-state mutation: only the current owner
// may list or cancel. Identities are compared verbatim; verification of the
// caller's identity happens before it reaches this core.
func requireOwner(caller, owner string) error {
	if caller != owner {
		return ErrNotOwner
	}
	return nil
}

// Mint creates a new unlisted asset owned by its creator and requests a
// backing token unit for it.
func (s *Service) Mint(ctx context.Context, caller, collectionID, title, uri string, royaltyBasisPoints uint16) (asset.Asset, error) {
	caller = strings.TrimSpace(caller)
	title = strings.TrimSpace(title)
	uri = strings.TrimSpace(uri)

	if caller == "" {
		return asset.Asset{}, fmt.Errorf("caller identity is required")
	}
	if title == "" || len(title) > asset.MaxTitleLen {
		return asset.Asset{}, fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidMetadata, asset.MaxTitleLen)
	}
	if len(uri) > asset.MaxURILen {
		return asset.Asset{}, fmt.Errorf("%w: uri must be at most %d characters", ErrInvalidMetadata, asset.MaxURILen)
	}
	if royaltyBasisPoints > asset.MaxRoyaltyBasisPoints {
		return asset.Asset{}, fmt.Errorf("%w: %d > %d", ErrInvalidRoyalty, royaltyBasisPoints, asset.MaxRoyaltyBasisPoints)
	}

	col, err := s.collections.GetCollection(ctx, collectionID)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("collection validation failed: %w", err)
	}

	tokenID, err := s.issuer.Issue(ctx, title)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("issue backing token: %w", err)
	}

	ast := asset.Asset{
		TokenID:            tokenID,
		CollectionID:       col.ID,
		Owner:              caller,
		Creator:            caller,
		Title:              title,
		URI:                uri,
		RoyaltyBasisPoints: royaltyBasisPoints,
		ForSale:            false,
		Price:              0,
	}
	ast, err = s.assets.CreateAsset(ctx, ast)
	if err != nil {
		return asset.Asset{}, err
	}

	metrics.RecordMint(col.ID)
	s.log.WithField("asset_id", ast.ID).
		WithField("collection_id", col.ID).
		WithField("creator", caller).
		Info("asset minted")
	return ast, nil
}

// List puts an asset up for sale. Re-listing an already listed asset simply
// overwrites the price; listing at the current price is a no-op.
func (s *Service) List(ctx context.Context, caller, assetID string, price uint64) (asset.Asset, error) {
	caller = strings.TrimSpace(caller)

	ast, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return asset.Asset{}, err
	}
	if err := requireOwner(caller, ast.Owner); err != nil {
		return asset.Asset{}, err
	}
	if price == 0 {
		return asset.Asset{}, ErrInvalidPrice
	}
	if ast.ForSale && ast.Price == price {
		return ast, nil
	}

	ast.ForSale = true
	ast.Price = price
	ast, err = s.assets.UpdateAsset(ctx, ast)
	if err != nil {
		return asset.Asset{}, err
	}

	metrics.RecordListing("listed")
	s.log.WithField("asset_id", ast.ID).
		WithField("owner", caller).
		WithField("price", price).
		Info("asset listed")
	return ast, nil
}

// Buy purchases a listed asset. The sale price is split into a creator
// royalty and a seller remainder; both legs settle as one unit and ownership
// moves only after the funds have. Any identity may buy, including the
// current owner.
func (s *Service) Buy(ctx context.Context, buyer, assetID string) (asset.Asset, asset.Receipt, error) {
	start := time.Now()

	buyer = strings.TrimSpace(buyer)
	if buyer == "" {
		return asset.Asset{}, asset.Receipt{}, fmt.Errorf("buyer identity is required")
	}

	ast, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return asset.Asset{}, asset.Receipt{}, err
	}
	if !ast.ForSale {
		return asset.Asset{}, asset.Receipt{}, ErrNotForSale
	}

	seller := ast.Owner
	price := ast.Price

	royalty, sellerAmount, err := settlementSplit(price, ast.RoyaltyBasisPoints)
	if err != nil {
		return asset.Asset{}, asset.Receipt{}, err
	}

	// When the creator is still the owner there is no second party to pay:
	// the full price goes to the seller in a single leg.
	legs := []ledger.Leg{{From: buyer, To: seller, Amount: sellerAmount}}
	if ast.Creator != seller {
		legs = append(legs, ledger.Leg{From: buyer, To: ast.Creator, Amount: royalty})
	} else {
		legs[0].Amount = price
	}

	reference := uuid.NewString()
	transfers, err := s.settler.TransferBatch(ctx, reference, legs)
	if err != nil {
		return asset.Asset{}, asset.Receipt{}, errors.Join(ErrTransferFailed, err)
	}

	ast.Owner = buyer
	ast.ForSale = false
	ast.Price = 0
	ast, err = s.assets.UpdateAsset(ctx, ast)
	if err != nil {
		// Funds already moved, so the ownership failure must be compensated:
		// settle the same legs in reverse under the same reference to refund
		// the buyer before surfacing the error.
		reversal := make([]ledger.Leg, 0, len(legs))
		for _, leg := range legs {
			reversal = append(reversal, ledger.Leg{From: leg.To, To: leg.From, Amount: leg.Amount})
		}
		if _, revErr := s.settler.TransferBatch(ctx, reference, reversal); revErr != nil {
			s.log.WithError(revErr).
				WithField("asset_id", assetID).
				WithField("reference", reference).
				Error("settlement reversal failed")
			return asset.Asset{}, asset.Receipt{}, errors.Join(fmt.Errorf("record ownership transfer: %w", err), revErr)
		}
		return asset.Asset{}, asset.Receipt{}, fmt.Errorf("record ownership transfer: %w", err)
	}

	receipt := asset.Receipt{
		AssetID:      ast.ID,
		Buyer:        buyer,
		Seller:       seller,
		Creator:      ast.Creator,
		Price:        price,
		Royalty:      royalty,
		SellerAmount: sellerAmount,
		CompletedAt:  time.Now().UTC(),
	}
	if ast.Creator == seller {
		receipt.Royalty = 0
		receipt.SellerAmount = price
	}
	for _, tr := range transfers {
		switch tr.To {
		case seller:
			receipt.SellerTransferID = tr.ID
		case ast.Creator:
			receipt.RoyaltyTransferID = tr.ID
		}
	}

	metrics.RecordSale(price, receipt.Royalty, time.Since(start))
	s.log.WithField("asset_id", ast.ID).
		WithField("buyer", buyer).
		WithField("seller", seller).
		WithField("price", price).
		WithField("royalty", receipt.Royalty).
		Info("asset sold")
	return ast, receipt, nil
}

// Cancel delists an asset. Cancelling an unlisted asset is a no-op, not an
// error, so repeated cancels converge on the same state.
func (s *Service) Cancel(ctx context.Context, caller, assetID string) (asset.Asset, error) {
	caller = strings.TrimSpace(caller)

	ast, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return asset.Asset{}, err
	}
	if err := requireOwner(caller, ast.Owner); err != nil {
		return asset.Asset{}, err
	}
	if !ast.ForSale && ast.Price == 0 {
		return ast, nil
	}

	ast.ForSale = false
	ast.Price = 0
	ast, err = s.assets.UpdateAsset(ctx, ast)
	if err != nil {
		return asset.Asset{}, err
	}

	metrics.RecordListing("cancelled")
	s.log.WithField("asset_id", ast.ID).
		WithField("owner", caller).
		Info("listing cancelled")
	return ast, nil
}

// Get retrieves a single asset by identifier.
func (s *Service) Get(ctx context.Context, assetID string) (asset.Asset, error) {
	return s.assets.GetAsset(ctx, assetID)
}

// ListByOwner returns assets currently held by an identity.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]asset.Asset, error) {
	return s.assets.ListAssetsByOwner(ctx, strings.TrimSpace(owner))
}

// ListByCollection returns the assets minted under a collection.
func (s *Service) ListByCollection(ctx context.Context, collectionID string) ([]asset.Asset, error) {
	return s.assets.ListAssetsByCollection(ctx, collectionID)
}

// ListForSale returns listed assets, optionally scoped to one collection.
func (s *Service) ListForSale(ctx context.Context, collectionID string) ([]asset.Asset, error) {
	return s.assets.ListAssetsForSale(ctx, collectionID)
}
