package collection

import "time"

// Field length limits enforced at registration time.
const (
	MaxNameLen   = 64
	MaxSymbolLen = 12
	MaxURILen    = 200
)

// DefaultRoyaltyBasisPoints is the policy default applied to new collections (5%).
const DefaultRoyaltyBasisPoints uint16 = 500

// Collection is a named grouping under which assets are minted. The authority
// and descriptive fields are fixed at creation.
type Collection struct {
	ID                 string
	Authority          string
	Name               string
	Symbol             string
	URI                string
	RoyaltyBasisPoints uint16
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
