package loom

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestHeight(t *testing.T) {
	ctx := context.Background()
	_, ok := GetHeight(ctx)
	assert.False(t, ok)

	deposited := WithHeight(ctx, 42)
	h, ok := GetHeight(deposited)
	require.True(t, ok)
	assert.Equal(t, int64(42), h)

	// A transaction is processed at exactly one height.
	assert.Panics(t, func() { WithHeight(deposited, 43) })
}

func TestLogger(t *testing.T) {
	assert.Equal(t, DefaultLogger, GetLogger(context.Background()))

	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	ctx = WithHeight(ctx, 3)

	escrowCtx := WithLogInfo(ctx, "escrow", "7")
	GetLogger(escrowCtx).Info("deposit")
	GetLogger(ctx).Info("commit")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "deposit")
	assert.Contains(t, lines[0], "escrow=7")
	assert.Contains(t, lines[1], "commit")
	assert.NotContains(t, lines[1], "escrow=7")

	// Log info does not touch other values.
	h, _ := GetHeight(escrowCtx)
	assert.Equal(t, int64(3), h)
}

func TestChainIDIsSetOnce(t *testing.T) {
	ctx := context.Background()
	assert.Panics(t, func() { GetChainID(ctx) })
	assert.Panics(t, func() { WithChainID(ctx, "dev") })

	ctx = WithChainID(ctx, "escrow-devnet")
	assert.Equal(t, "escrow-devnet", GetChainID(ctx))
	assert.Panics(t, func() { WithChainID(ctx, "escrow-mainnet") })
}

func TestIsValidChainID(t *testing.T) {
	cases := map[string]bool{
		"":                          false,
		"dev":                       false,
		"escrow":                    true,
		"escrow-devnet":             true,
		"domain_lend-42":            true,
		"escrow.mainnet":            false,
		"escrow/devnet":             false,
		"domainlend-escrow-mainnet": false,
	}
	for chainID, want := range cases {
		assert.Equal(t, want, IsValidChainID(chainID), chainID)
	}
}
