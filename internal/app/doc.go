// Package app provides the application composition layer for the marketplace.
//
// # Architecture Role
//
// The app package sits above the domain services and composes them into a
// running application. It is NOT a business logic layer - business logic
// belongs in internal/app/services/.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Main application struct, wiring, and lifecycle
//	├── domain/             # Domain models (pure data structures)
//	│   ├── collection/     # Collection records
//	│   ├── asset/          # Asset records and settlement receipts
//	│   └── ledger/         # Ledger accounts and transfers
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # Store interfaces (CollectionStore, AssetStore, LedgerStore)
//	│   ├── memory/         # In-memory implementation for testing
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business logic services
//	│   ├── registry/       # Collection registry
//	│   ├── market/         # Asset marketplace engine (mint, list, buy, cancel)
//	│   └── ledger/         # Value-transfer ledger
//	├── system/             # System management (lifecycle manager)
//	└── metrics/            # Application metrics
//
// # Adding a New Domain
//
// When adding a new domain:
//
//  1. Create domain models in internal/app/domain/<name>/
//  2. Add a storage interface to internal/app/storage/interfaces.go
//  3. Implement storage in internal/app/storage/postgres/ and memory/
//  4. Create the service in internal/app/services/<name>/service.go
//  5. Wire the service in internal/app/application.go
package app
