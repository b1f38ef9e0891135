package sigs

import (
	"context"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/loomtest"
)

// StdTx is a signed transaction carrying a raw message payload.
type StdTx struct {
	loomtest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ loom.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &loomtest.Msg{RoutePath: "test/msg", Serialized: payload}
	return &StdTx{Tx: loomtest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []loom.Condition
}

var _ loom.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx context.Context, store loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &loom.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx context.Context, store loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &loom.DeliverResult{}, nil
}
