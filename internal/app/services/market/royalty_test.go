package market

import (
	"math"
	"testing"
)

func TestSettlementSplitExact(t *testing.T) {
	prices := []uint64{0, 1, 99, 100, 10000, 1000000, math.MaxUint64}
	rates := []uint16{0, 1, 250, 500, 9999, 10000}

	for _, price := range prices {
		for _, bps := range rates {
			royalty, seller, err := settlementSplit(price, bps)
			if err != nil {
				t.Fatalf("split(%d, %d): %v", price, bps, err)
			}
			if royalty+seller != price {
				t.Fatalf("split(%d, %d): royalty %d + seller %d != price", price, bps, royalty, seller)
			}
			if royalty > price {
				t.Fatalf("split(%d, %d): royalty %d exceeds price", price, bps, royalty)
			}
		}
	}
}

func TestSettlementSplitScenario(t *testing.T) {
	royalty, seller, err := settlementSplit(1000000, 500)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if royalty != 50000 {
		t.Fatalf("expected royalty 50000, got %d", royalty)
	}
	if seller != 950000 {
		t.Fatalf("expected seller amount 950000, got %d", seller)
	}
}

func TestSettlementSplitFloors(t *testing.T) {
	// 999 * 500 / 10000 = 49.95, floors to 49.
	royalty, seller, err := settlementSplit(999, 500)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if royalty != 49 || seller != 950 {
		t.Fatalf("expected 49/950, got %d/%d", royalty, seller)
	}
}

func TestSettlementSplitZeroRate(t *testing.T) {
	royalty, seller, err := settlementSplit(100, 0)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if royalty != 0 || seller != 100 {
		t.Fatalf("expected 0/100, got %d/%d", royalty, seller)
	}
}

func TestSettlementSplitMaxPrice(t *testing.T) {
	// The full basis-point range must stay representable even at the top of
	// the price domain.
	royalty, seller, err := settlementSplit(math.MaxUint64, 10000)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if royalty != math.MaxUint64 || seller != 0 {
		t.Fatalf("expected full price as royalty, got %d/%d", royalty, seller)
	}
}
