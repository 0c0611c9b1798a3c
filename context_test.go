package testament

import (
	"context"
	"io/ioutil"
	"testing"
	"time"

	"github.com/iov-one/testament/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(log.NewSyncWriter(ioutil.Discard))
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// add height
	ctx = WithHeight(ctx, 7)
	h, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), h)
	_, ok = GetHeight(bg)
	assert.False(t, ok)
	assert.Panics(t, func() { WithHeight(ctx, 8) })

	// chain ID must be valid and set only once
	assert.Panics(t, func() { WithChainID(ctx, "no") })
	ctx = WithChainID(ctx, "will-chain")
	assert.Equal(t, "will-chain", GetChainID(ctx))
	assert.Equal(t, "", GetChainID(bg))
	assert.Panics(t, func() { WithChainID(ctx, "other-chain") })
}

func TestBlockTime(t *testing.T) {
	ctx := context.Background()

	_, err := BlockTime(ctx)
	require.True(t, errors.ErrState.Is(err))

	_, err = BlockTime(WithBlockTime(ctx, time.Time{}))
	require.True(t, errors.ErrState.Is(err))

	now := time.Unix(1500000000, 0)
	got, err := BlockTime(WithBlockTime(ctx, now))
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestIsExpired(t *testing.T) {
	now := AsUnixTime(time.Unix(1500000000, 0))
	ctx := WithBlockTime(context.Background(), now.Time())

	assert.True(t, IsExpired(ctx, now))
	assert.True(t, IsExpired(ctx, now.AddSeconds(-1)))
	assert.False(t, IsExpired(ctx, now.AddSeconds(1)))
	assert.Panics(t, func() { IsExpired(context.Background(), now) })
}
