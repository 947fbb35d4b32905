package ledger

import (
	"context"
	"errors"
	"testing"

	domain "github.com/soundmint/marketplace/internal/app/domain/ledger"
	"github.com/soundmint/marketplace/internal/app/storage/memory"
)

func TestDepositAndBalance(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	acct, err := svc.Deposit(ctx, "alice", 100)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if acct.Balance != 100 {
		t.Fatalf("unexpected balance: %d", acct.Balance)
	}

	acct, err = svc.Deposit(ctx, "alice", 50)
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if acct.Balance != 150 {
		t.Fatalf("balance not accumulated: %d", acct.Balance)
	}

	if _, err := svc.Balance(ctx, "nobody"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransferBatchAllOrNothing(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, "buyer", 100); err != nil {
		t.Fatalf("fund buyer: %v", err)
	}
	if _, err := svc.EnsureAccount(ctx, "seller"); err != nil {
		t.Fatalf("seller account: %v", err)
	}
	if _, err := svc.EnsureAccount(ctx, "creator"); err != nil {
		t.Fatalf("creator account: %v", err)
	}

	// Second leg exceeds the remaining balance; nothing may move.
	_, err := svc.TransferBatch(ctx, "sale-1", []domain.Leg{
		{From: "buyer", To: "seller", Amount: 90},
		{From: "buyer", To: "creator", Amount: 20},
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, err := svc.Balance(ctx, "buyer")
	if err != nil {
		t.Fatalf("buyer balance: %v", err)
	}
	if balance != 100 {
		t.Fatalf("partial settlement leaked: buyer has %d", balance)
	}
	sellerBalance, err := svc.Balance(ctx, "seller")
	if err != nil {
		t.Fatalf("seller balance: %v", err)
	}
	if sellerBalance != 0 {
		t.Fatalf("partial settlement leaked: seller has %d", sellerBalance)
	}

	// A batch that fits commits both legs together.
	transfers, err := svc.TransferBatch(ctx, "sale-2", []domain.Leg{
		{From: "buyer", To: "seller", Amount: 90},
		{From: "buyer", To: "creator", Amount: 10},
	})
	if err != nil {
		t.Fatalf("transfer batch: %v", err)
	}
	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}
	for _, tr := range transfers {
		if tr.Reference != "sale-2" {
			t.Fatalf("reference not applied: %+v", tr)
		}
		if tr.ID == "" {
			t.Fatalf("transfer id missing")
		}
	}

	balance, _ = svc.Balance(ctx, "buyer")
	if balance != 0 {
		t.Fatalf("buyer not fully debited: %d", balance)
	}
}

func TestTransferBatchDropsZeroLegs(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, "buyer", 10); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if _, err := svc.EnsureAccount(ctx, "seller"); err != nil {
		t.Fatalf("seller: %v", err)
	}

	transfers, err := svc.TransferBatch(ctx, "", []domain.Leg{
		{From: "buyer", To: "seller", Amount: 10},
		{From: "buyer", To: "absent-creator", Amount: 0},
	})
	if err != nil {
		t.Fatalf("zero leg must not fail the batch: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
}

func TestTransferBatchOpensCreditAccounts(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, "buyer", 100); err != nil {
		t.Fatalf("fund: %v", err)
	}

	// Neither payee has an account yet; the settlement opens them.
	transfers, err := svc.TransferBatch(ctx, "sale-1", []domain.Leg{
		{From: "buyer", To: "seller", Amount: 95},
		{From: "buyer", To: "creator", Amount: 5},
	})
	if err != nil {
		t.Fatalf("transfer batch: %v", err)
	}
	if len(transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(transfers))
	}

	balance, err := svc.Balance(ctx, "seller")
	if err != nil {
		t.Fatalf("seller balance: %v", err)
	}
	if balance != 95 {
		t.Fatalf("seller not credited: %d", balance)
	}
	balance, err = svc.Balance(ctx, "creator")
	if err != nil {
		t.Fatalf("creator balance: %v", err)
	}
	if balance != 5 {
		t.Fatalf("creator not credited: %d", balance)
	}
}

func TestTransferBatchValidatesLegs(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	if _, err := svc.TransferBatch(ctx, "", []domain.Leg{{From: "", To: "x", Amount: 1}}); !errors.Is(err, ErrInvalidLeg) {
		t.Fatalf("expected ErrInvalidLeg, got %v", err)
	}
	if _, err := svc.TransferBatch(ctx, "", []domain.Leg{{From: "ghost", To: "x", Amount: 1}}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransfersByAddress(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	if _, err := svc.Deposit(ctx, "a", 10); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if _, err := svc.EnsureAccount(ctx, "b"); err != nil {
		t.Fatalf("account: %v", err)
	}
	if _, err := svc.Transfer(ctx, "a", "b", 4, "ref-1"); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	history, err := svc.Transfers(ctx, "b")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Amount != 4 {
		t.Fatalf("unexpected history: %+v", history)
	}
}
