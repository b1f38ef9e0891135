package loomtest

import (
	"context"

	"github.com/domainlend/loom"
)

// Handler is a mock implementation of the loom.Handler interface. It
// returns configured results and counts calls.
type Handler struct {
	checkCall   int
	CheckResult loom.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult loom.DeliverResult
	DeliverErr    error

	// Write if set is stored in the database on every call, before the
	// result is returned.
	Write *loom.Model
}

var _ loom.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db loom.KVStore) error {
	if h.Write == nil {
		return nil
	}
	return db.Set(h.Write.Key, h.Write.Value)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
