package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/willtest"
	"github.com/iov-one/testament/x"
	"github.com/stretchr/testify/assert"
)

func TestMultiAuth(t *testing.T) {
	a := willtest.NewCondition()
	b := willtest.NewCondition()
	c := willtest.NewCondition()

	ctx := context.Background()
	auth1 := &willtest.CtxAuth{Key: "foo"}
	auth2 := &willtest.CtxAuth{Key: "bar"}
	ctx = auth1.SetConditions(ctx, a, b)
	ctx = auth2.SetConditions(ctx, b, c)

	multi := x.ChainAuth(auth1, auth2)

	conds := multi.GetConditions(ctx)
	assert.Equal(t, []testament.Condition{a, b, c}, conds)
	assert.True(t, multi.HasAddress(ctx, c.Address()))
	assert.False(t, multi.HasAddress(ctx, willtest.NewCondition().Address()))

	assert.Equal(t, a, x.MainSigner(ctx, multi))
	assert.Nil(t, x.MainSigner(context.Background(), multi))

	assert.True(t, x.HasAllConditions(ctx, multi, []testament.Condition{c, a}))
	assert.False(t, x.HasAllConditions(ctx, multi, []testament.Condition{a, willtest.NewCondition()}))
	assert.True(t, x.HasAllAddresses(ctx, multi, []testament.Address{b.Address()}))

	addrs := x.GetAddresses(ctx, auth1)
	assert.Equal(t, []testament.Address{a.Address(), b.Address()}, addrs)
}
