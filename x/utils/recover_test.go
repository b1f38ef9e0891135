package utils

import (
	"context"
	"testing"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest"
	"github.com/domainlend/loom/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenHandler panics with the reason, like a handler hitting a corrupted
// escrow record would.
type brokenHandler struct {
	reason interface{}
}

var _ loom.Handler = brokenHandler{}

func (b brokenHandler) Check(context.Context, loom.KVStore, loom.Tx) (*loom.CheckResult, error) {
	panic(b.reason)
}

func (b brokenHandler) Deliver(context.Context, loom.KVStore, loom.Tx) (*loom.DeliverResult, error) {
	panic(b.reason)
}

func TestRecovery(t *testing.T) {
	cases := map[string]struct {
		handler  loom.Handler
		wantErr  *errors.Error
		wantLog  string
		wantData []byte
	}{
		"string panic": {
			handler: brokenHandler{reason: "vault record is corrupted"},
			wantErr: errors.ErrPanic,
			wantLog: "vault record is corrupted",
		},
		"error panic": {
			handler: brokenHandler{reason: errors.ErrEmpty.New("escrow nonce")},
			wantErr: errors.ErrPanic,
			wantLog: "escrow nonce",
		},
		"handler error is passed through": {
			handler: &loomtest.Handler{CheckErr: errors.ErrUnauthorized, DeliverErr: errors.ErrUnauthorized},
			wantErr: errors.ErrUnauthorized,
		},
		"handler result is passed through": {
			handler:  &loomtest.Handler{DeliverResult: loom.DeliverResult{Data: []byte("vault")}},
			wantData: []byte("vault"),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := loomtest.Decorate(tc.handler, NewRecovery())

			_, err := h.Check(context.Background(), db, &loomtest.Tx{})
			assert.True(t, tc.wantErr.Is(err), "check: %+v", err)

			res, err := h.Deliver(context.Background(), db, &loomtest.Tx{})
			assert.True(t, tc.wantErr.Is(err), "deliver: %+v", err)
			if tc.wantLog != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantLog)
			}
			if tc.wantErr == nil {
				require.NotNil(t, res)
				assert.Equal(t, tc.wantData, res.Data)
			}
		})
	}
}

func TestBrokenHandlerPanicsWithoutRecovery(t *testing.T) {
	h := brokenHandler{reason: "no vault"}
	db := store.MemStore()
	assert.Panics(t, func() { _, _ = h.Check(context.Background(), db, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(context.Background(), db, nil) })
}
