package willtest

import (
	"context"
	"fmt"

	"github.com/iov-one/testament"
)

// Auth is a mock implementing x.Authenticator interface.
//
// It authenticates any of the referenced conditions. Signer and Signers
// are both considered, Signer is a shortcut for a single signer.
type Auth struct {
	Signer  testament.Condition
	Signers []testament.Condition
}

func (a *Auth) GetConditions(testament.Context) []testament.Condition {
	if a.Signer != nil {
		return append([]testament.Condition{a.Signer}, a.Signers...)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// Conditions are stored in and retrieved from the context, which allows
// a single authenticator to serve many transactions in one test.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context.
	Key string
}

func (a *CtxAuth) SetConditions(ctx testament.Context, conds ...testament.Condition) testament.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx testament.Context) []testament.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]testament.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []testament.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx testament.Context, addr testament.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
