package orm

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// ModelIterator lazily loads models out of a bucket.
type ModelIterator interface {
	// LoadNext loads the next model into given destination and returns
	// its key. It returns errors.ErrIteratorDone when all models were
	// returned.
	LoadNext(dest Model) ([]byte, error)
	// Release releases the iterator.
	Release()
}

type modelIterator struct {
	it     testament.Iterator
	bucket *modelBucket
}

func (m *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if reflect.TypeOf(dest) != reflect.PtrTo(m.bucket.model) {
		return nil, errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, m.bucket.model)
	}
	key, raw, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", m.bucket.model.Name(), err)
	}
	return key[len(m.bucket.prefix):], nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}
