package escrow

import (
	"context"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/x"
)

type contextKey int // local to the escrow module

const (
	contextKeyVault contextKey = iota
)

// withVault is private, as only this module can authorize a vault. The
// condition is expected to be a rebuilt derivation.
func withVault(ctx context.Context, vault loom.Condition) context.Context {
	return context.WithValue(ctx, contextKeyVault, vault)
}

// Authenticate exposes the vault authority placed into the context by the
// withdraw handler.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the vault authority of the current context, if any.
func (Authenticate) GetConditions(ctx context.Context) []loom.Condition {
	val, _ := ctx.Value(contextKeyVault).(loom.Condition)
	if val == nil {
		return nil
	}
	return []loom.Condition{val}
}

// HasAddress returns true if the given address is the vault authority of
// the current context.
func (a Authenticate) HasAddress(ctx context.Context, addr loom.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
