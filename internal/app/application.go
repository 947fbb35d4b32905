package app

import (
	"context"
	"fmt"

	ledgersvc "github.com/soundmint/marketplace/internal/app/services/ledger"
	"github.com/soundmint/marketplace/internal/app/services/market"
	"github.com/soundmint/marketplace/internal/app/services/registry"
	"github.com/soundmint/marketplace/internal/app/storage"
	"github.com/soundmint/marketplace/internal/app/storage/memory"
	"github.com/soundmint/marketplace/internal/app/storage/postgres"
	"github.com/soundmint/marketplace/internal/app/system"
	"github.com/soundmint/marketplace/internal/config"
	"github.com/soundmint/marketplace/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Collections storage.CollectionStore
	Assets      storage.AssetStore
	Ledger      storage.LedgerStore
}

// Application ties the marketplace services together and manages their
// lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Registry *registry.Service
	Market   *market.Service
	Ledger   *ledgersvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if stores.Collections == nil {
		stores.Collections = mem
	}
	if stores.Assets == nil {
		stores.Assets = mem
	}
	if stores.Ledger == nil {
		stores.Ledger = mem
	}

	manager := system.NewManager()

	ledgerService := ledgersvc.New(stores.Ledger, log)
	registryService := registry.New(stores.Collections, log)
	marketService := market.New(stores.Collections, stores.Assets, ledgerService, log)

	for _, name := range []string{"registry", "market", "ledger"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	return &Application{
		manager:  manager,
		log:      log,
		Registry: registryService,
		Market:   marketService,
		Ledger:   ledgerService,
	}, nil
}

// NewFromConfig builds stores according to configuration and wires the
// application. The postgres driver applies schema migrations before serving.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	})

	var stores Stores
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("configure stores: %w", err)
		}
		if err := postgres.Apply(ctx, db.DB); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		store := postgres.New(db)
		stores = Stores{Collections: store, Assets: store, Ledger: store}
		log.Info("using postgres storage")
	default:
		log.Info("using in-memory storage")
	}

	return New(stores, log)
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// Start begins all registered services.
func (a *Application) Start(ctx context.Context) error {
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}
