package utils

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// Recovery converts a panic raised below it into an ErrPanic error and
// logs the path of the transaction that caused it. Put it above any
// savepoint so the partial writes of a panicking handler are dropped.
type Recovery struct{}

var _ testament.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (res *testament.CheckResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked(ctx, tx, p)
		}
	}()
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (res *testament.DeliverResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked(ctx, tx, p)
		}
	}()
	return next.Deliver(ctx, db, tx)
}

func panicked(ctx testament.Context, tx testament.Tx, p interface{}) error {
	path := "(missing)"
	if tx != nil {
		path = testament.GetPath(tx)
	}
	testament.GetLogger(ctx).Error("Handler panic", "path", path, "panic", p)
	return errors.Wrapf(errors.ErrPanic, "%v", p)
}
