package registry

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/soundmint/marketplace/internal/app/storage/memory"
)

func TestCreate(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	col, err := svc.Create(ctx, "alice", " Neon Tapes ", "NEON", "https://example.com/collection.json")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if col.ID == "" {
		t.Fatalf("expected id to be generated")
	}
	if col.Name != "Neon Tapes" {
		t.Fatalf("name not normalised: %q", col.Name)
	}
	if col.Authority != "alice" {
		t.Fatalf("authority not recorded: %q", col.Authority)
	}
	if col.RoyaltyBasisPoints != 500 {
		t.Fatalf("default royalty not applied: %d", col.RoyaltyBasisPoints)
	}

	got, err := svc.Get(ctx, col.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Symbol != "NEON" {
		t.Fatalf("unexpected symbol: %q", got.Symbol)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		args [4]string
	}{
		{"missing name", [4]string{"alice", "", "SYM", ""}},
		{"long name", [4]string{"alice", strings.Repeat("n", 65), "SYM", ""}},
		{"long symbol", [4]string{"alice", "ok", strings.Repeat("s", 13), ""}},
		{"long uri", [4]string{"alice", "ok", "SYM", strings.Repeat("u", 201)}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.args[0], tc.args[1], tc.args[2], tc.args[3]); !errors.Is(err, ErrInvalidMetadata) {
			t.Fatalf("%s: expected ErrInvalidMetadata, got %v", tc.name, err)
		}
	}

	if _, err := svc.Create(ctx, "", "ok", "SYM", ""); err == nil {
		t.Fatalf("expected error for missing authority")
	}
}

func TestListByAuthority(t *testing.T) {
	svc := New(memory.New(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "alice", "One", "ONE", ""); err != nil {
		t.Fatalf("create one: %v", err)
	}
	if _, err := svc.Create(ctx, "bob", "Two", "TWO", ""); err != nil {
		t.Fatalf("create two: %v", err)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 collections, got %d", len(all))
	}

	mine, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].Authority != "alice" {
		t.Fatalf("unexpected filtered result: %+v", mine)
	}
}
