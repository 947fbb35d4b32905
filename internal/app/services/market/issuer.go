package market

import (
	"context"

	"github.com/google/uuid"
)

// Issuer creates the backing token unit minted alongside each asset record.
// The engine stores the returned reference but never inspects it.
type Issuer interface {
	Issue(ctx context.Context, title string) (string, error)
}

// UUIDIssuer issues opaque UUID token references. It stands in for an
// external token subsystem in local and test deployments.
type UUIDIssuer struct{}

func (UUIDIssuer) Issue(_ context.Context, _ string) (string, error) {
	return uuid.NewString(), nil
}
