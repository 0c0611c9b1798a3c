package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/willtest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

type panicHandler struct{}

func (panicHandler) Check(testament.Context, testament.KVStore, testament.Tx) (*testament.CheckResult, error) {
	panic("check")
}

func (panicHandler) Deliver(testament.Context, testament.KVStore, testament.Tx) (*testament.DeliverResult, error) {
	panic("deliver")
}

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()
	s := store.MemStore()

	var buf bytes.Buffer
	ctx := testament.WithLogger(context.Background(), log.NewTMLogger(&buf))
	tx := &willtest.Tx{Msg: &willtest.Msg{RoutePath: "will/execute"}}

	assert.Panics(t, func() { _, _ = h.Check(ctx, s, tx) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, tx) })

	_, err := r.Check(ctx, s, tx, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "check")

	_, err = r.Deliver(ctx, s, tx, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, err.Error(), "deliver")

	assert.Contains(t, buf.String(), "path=will/execute")
}

func TestRecoveryWithoutTransaction(t *testing.T) {
	_, err := NewRecovery().Deliver(context.Background(), store.MemStore(), nil, panicHandler{})
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryPassesResults(t *testing.T) {
	handler := &willtest.Handler{DeliverResult: testament.DeliverResult{Data: []byte("id")}}
	h := willtest.Decorate(handler, NewRecovery())
	res, err := h.Deliver(context.Background(), store.MemStore(), &willtest.Tx{Msg: &willtest.Msg{RoutePath: "will/create"}})
	assert.NoError(t, err)
	assert.Equal(t, []byte("id"), res.Data)
}
