package ledger

import "time"

// Account holds the balance for a single party address.
type Account struct {
	ID        string
	Address   string
	Balance   uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Leg describes one movement of funds within a batch.
type Leg struct {
	From   string
	To     string
	Amount uint64
}

// Transfer is a committed movement of funds. Reference groups the transfers
// that settled together as one logical unit.
type Transfer struct {
	ID        string
	From      string
	To        string
	Amount    uint64
	Reference string
	CreatedAt time.Time
}
