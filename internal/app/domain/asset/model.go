package asset

import "time"

// Field length limits enforced at mint time.
const (
	MaxTitleLen = 100
	MaxURILen   = 200
)

// MaxRoyaltyBasisPoints caps royalty rates at 100%.
const MaxRoyaltyBasisPoints uint16 = 10000

// Asset is a uniquely owned record with provenance. Creator is the identity
// that minted it and never changes; Owner changes on every sale. Price is
// meaningful only while ForSale is true and is zero otherwise.
type Asset struct {
	ID                 string
	TokenID            string
	CollectionID       string
	Owner              string
	Creator            string
	Title              string
	URI                string
	RoyaltyBasisPoints uint16
	ForSale            bool
	Price              uint64
	MintedAt           time.Time
	UpdatedAt          time.Time
}

// Receipt records the settlement of a completed purchase. Royalty and
// SellerAmount always sum to Price. RoyaltyTransferID is empty when no
// royalty leg was executed (creator sold their own asset, or zero royalty).
type Receipt struct {
	AssetID           string
	Buyer             string
	Seller            string
	Creator           string
	Price             uint64
	Royalty           uint64
	SellerAmount      uint64
	SellerTransferID  string
	RoyaltyTransferID string
	CompletedAt       time.Time
}
