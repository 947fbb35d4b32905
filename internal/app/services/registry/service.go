package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soundmint/marketplace/internal/app/domain/collection"
	"github.com/soundmint/marketplace/internal/app/storage"
	"github.com/soundmint/marketplace/pkg/logger"
)

// ErrInvalidMetadata is returned when a descriptive field is missing or
// exceeds its length bound.
var ErrInvalidMetadata = errors.New("invalid collection metadata")

// Service manages collection records. Collections are created once and never
// mutated afterwards; they exist to give assets a namespace and a default
// royalty policy.
type Service struct {
	store storage.CollectionStore
	log   *logger.Logger
}

// New constructs a collection registry service.
func New(store storage.CollectionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("registry")
	}
	return &Service{store: store, log: log}
}

// Create registers a new collection under the authority's identity. The
// royalty rate is the policy default; per-asset rates may override it at mint.
func (s *Service) Create(ctx context.Context, authority, name, symbol, uri string) (collection.Collection, error) {
	authority = strings.TrimSpace(authority)
	name = strings.TrimSpace(name)
	symbol = strings.TrimSpace(symbol)
	uri = strings.TrimSpace(uri)

	if authority == "" {
		return collection.Collection{}, fmt.Errorf("authority is required")
	}
	if name == "" || len(name) > collection.MaxNameLen {
		return collection.Collection{}, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidMetadata, collection.MaxNameLen)
	}
	if symbol == "" || len(symbol) > collection.MaxSymbolLen {
		return collection.Collection{}, fmt.Errorf("%w: symbol must be 1-%d characters", ErrInvalidMetadata, collection.MaxSymbolLen)
	}
	if len(uri) > collection.MaxURILen {
		return collection.Collection{}, fmt.Errorf("%w: uri must be at most %d characters", ErrInvalidMetadata, collection.MaxURILen)
	}

	col := collection.Collection{
		Authority:          authority,
		Name:               name,
		Symbol:             symbol,
		URI:                uri,
		RoyaltyBasisPoints: collection.DefaultRoyaltyBasisPoints,
	}
	col, err := s.store.CreateCollection(ctx, col)
	if err != nil {
		return collection.Collection{}, err
	}

	s.log.WithField("collection_id", col.ID).
		WithField("authority", authority).
		WithField("symbol", col.Symbol).
		Info("collection created")
	return col, nil
}

// Get retrieves a single collection by identifier.
func (s *Service) Get(ctx context.Context, id string) (collection.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// List returns collections, optionally filtered by authority.
func (s *Service) List(ctx context.Context, authority string) ([]collection.Collection, error) {
	return s.store.ListCollections(ctx, strings.TrimSpace(authority))
}
