package market

import "math/bits"

// royaltyDenominator converts basis points to a fraction: 10000 = 100%.
const royaltyDenominator = 10000

// settlementSplit divides a sale price into the creator royalty and the
// seller remainder. The product is taken in a 128-bit domain so the widening
// multiply can never wrap; the quotient is checked before narrowing back to
// uint64. For any rate within the basis-point range the royalty never exceeds
// the price, so royalty + seller == price exactly.
func settlementSplit(price uint64, royaltyBasisPoints uint16) (royalty, seller uint64, err error) {
	hi, lo := bits.Mul64(price, uint64(royaltyBasisPoints))
	if hi >= royaltyDenominator {
		return 0, 0, ErrArithmeticOverflow
	}
	royalty, _ = bits.Div64(hi, lo, royaltyDenominator)
	if royalty > price {
		return 0, 0, ErrArithmeticOverflow
	}
	return royalty, price - royalty, nil
}
