package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	domain "github.com/soundmint/marketplace/internal/app/domain/ledger"
	"github.com/soundmint/marketplace/internal/app/storage"
	"github.com/soundmint/marketplace/pkg/logger"
)

var (
	// ErrAccountNotFound is returned when a party has no ledger account.
	ErrAccountNotFound = errors.New("ledger account not found")
	// ErrInsufficientFunds is returned when a debit exceeds the available balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidLeg is returned when a transfer names a blank party.
	ErrInvalidLeg = errors.New("transfer legs require from and to addresses")
)

// Service moves funds between party accounts. A batch of legs settles as one
// logical unit: either every leg commits or none does.
type Service struct {
	store storage.LedgerStore
	log   *logger.Logger
}

// New constructs a ledger service.
func New(store storage.LedgerStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("ledger")
	}
	return &Service{store: store, log: log}
}

// EnsureAccount returns the account for the address, creating it when absent.
func (s *Service) EnsureAccount(ctx context.Context, address string) (domain.Account, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Account{}, fmt.Errorf("address is required")
	}

	if acct, err := s.store.GetLedgerAccount(ctx, address); err == nil {
		return acct, nil
	}

	acct, err := s.store.CreateLedgerAccount(ctx, domain.Account{Address: address})
	if err != nil {
		return domain.Account{}, fmt.Errorf("create ledger account: %w", err)
	}
	s.log.WithField("address", address).Info("ledger account created")
	return acct, nil
}

// Deposit credits an account, creating it when absent.
func (s *Service) Deposit(ctx context.Context, address string, amount uint64) (domain.Account, error) {
	acct, err := s.EnsureAccount(ctx, address)
	if err != nil {
		return domain.Account{}, err
	}

	acct.Balance += amount
	acct, err = s.store.UpdateLedgerAccount(ctx, acct)
	if err != nil {
		return domain.Account{}, fmt.Errorf("credit ledger account: %w", err)
	}
	s.log.WithField("address", address).
		WithField("amount", amount).
		Info("ledger deposit")
	return acct, nil
}

// Balance returns the current balance for an address.
func (s *Service) Balance(ctx context.Context, address string) (uint64, error) {
	acct, err := s.store.GetLedgerAccount(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	return acct.Balance, nil
}

// Transfer moves a single amount between two parties.
func (s *Service) Transfer(ctx context.Context, from, to string, amount uint64, reference string) (domain.Transfer, error) {
	transfers, err := s.TransferBatch(ctx, reference, []domain.Leg{{From: from, To: to, Amount: amount}})
	if err != nil {
		return domain.Transfer{}, err
	}
	if len(transfers) == 0 {
		return domain.Transfer{}, nil
	}
	return transfers[0], nil
}

// TransferBatch settles the legs all-or-nothing. Zero-amount legs are dropped
// rather than rejected so a zero royalty never fails a sale, and missing
// credit-side accounts are opened on demand. Every debit is validated against
// the in-order projected balance before anything commits.
func (s *Service) TransferBatch(ctx context.Context, reference string, legs []domain.Leg) ([]domain.Transfer, error) {
	if reference == "" {
		reference = uuid.NewString()
	}

	transfers := make([]domain.Transfer, 0, len(legs))
	projected := make(map[string]uint64)
	for _, leg := range legs {
		if leg.Amount == 0 {
			continue
		}
		from := strings.TrimSpace(leg.From)
		to := strings.TrimSpace(leg.To)
		if from == "" || to == "" {
			return nil, ErrInvalidLeg
		}

		if _, seen := projected[from]; !seen {
			acct, err := s.store.GetLedgerAccount(ctx, from)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, from)
			}
			projected[from] = acct.Balance
		}
		if _, seen := projected[to]; !seen {
			// Credit-side accounts are opened on demand: a payee must never
			// be the reason a settlement fails.
			acct, err := s.EnsureAccount(ctx, to)
			if err != nil {
				return nil, err
			}
			projected[to] = acct.Balance
		}
		if projected[from] < leg.Amount {
			return nil, fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, projected[from], leg.Amount)
		}
		projected[from] -= leg.Amount
		projected[to] += leg.Amount

		transfers = append(transfers, domain.Transfer{
			ID:        uuid.NewString(),
			From:      from,
			To:        to,
			Amount:    leg.Amount,
			Reference: reference,
		})
	}

	if len(transfers) == 0 {
		return transfers, nil
	}

	if err := s.store.ApplyTransfers(ctx, transfers); err != nil {
		return nil, fmt.Errorf("apply transfers: %w", err)
	}

	s.log.WithField("reference", reference).
		WithField("legs", len(transfers)).
		Info("transfer batch settled")
	return transfers, nil
}

// Transfers returns the committed transfers touching an address.
func (s *Service) Transfers(ctx context.Context, address string) ([]domain.Transfer, error) {
	return s.store.ListTransfers(ctx, address)
}
