package token

import (
	"context"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/x"
)

// RegisterQuery will register mints as "/mints" and holdings as
// "/holdings", "/holdings/owner" and "/holdings/mint".
func RegisterQuery(qr loom.QueryRouter) {
	NewMintBucket().Register("mints", qr)
	NewHoldingBucket().Register("holdings", qr)
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r loom.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, ctrl))
}

// NewSendHandler returns a handler of SendMsg.
func NewSendHandler(auth x.Authenticator, ctrl Controller) loom.Handler {
	return &SendHandler{auth: auth, ctrl: ctrl}
}

// SendHandler moves assets between holdings.
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ loom.Handler = (*SendHandler)(nil)

func (h *SendHandler) Check(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h *SendHandler) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Move(ctx, db, msg.Source, msg.Destination, msg.Mint, msg.Amount, msg.Decimals); err != nil {
		return nil, err
	}
	return &loom.DeliverResult{
		Tags: []loom.Tag{
			{Key: "token.mint", Value: msg.Mint.String()},
			{Key: "token.destination", Value: msg.Destination.String()},
		},
	}, nil
}

// validate loads the message and applies the main signer as the default
// source.
func (h *SendHandler) validate(ctx context.Context, db loom.KVStore, tx loom.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if len(msg.Source) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		msg.Source = signer.Address()
	}
	return &msg, nil
}
