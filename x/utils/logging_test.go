package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest"
	"github.com/domainlend/loom/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := loom.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	db := store.MemStore()
	tx := &loomtest.Tx{Msg: &loomtest.Msg{RoutePath: "escrow/sell_offer"}}

	_, err := NewLogging().Deliver(ctx, db, tx, &loomtest.Handler{
		DeliverResult: loom.DeliverResult{Log: "terms updated"},
	})
	assert.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "terms updated"), out)
	assert.True(t, strings.Contains(out, "path=escrow/sell_offer"), out)

	buf.Reset()
	_, err = NewLogging().Check(ctx, db, tx, &loomtest.Handler{CheckErr: errors.ErrNotFound})
	assert.True(t, errors.ErrNotFound.Is(err))
	out = buf.String()
	assert.True(t, strings.Contains(out, "err="), out)
}
