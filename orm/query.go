package orm

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
)

// bucketQuery serves ABCI queries by the primary key. Returned keys do not
// contain the bucket prefix.
type bucketQuery struct {
	bucket *modelBucket
}

func (q *bucketQuery) Query(ctx testament.Context, db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	switch mod {
	case testament.KeyQueryMod:
		raw, err := db.Get(q.bucket.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []testament.Model{testament.Pair(data, raw)}, nil
	case testament.PrefixQueryMod:
		start := q.bucket.dbKey(data)
		it, err := db.Iterator(start, prefixEnd(start))
		if err != nil {
			return nil, err
		}
		res, err := store.ReadAll(it)
		if err != nil {
			return nil, err
		}
		for i := range res {
			res[i].Key = res[i].Key[len(q.bucket.prefix):]
		}
		return res, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery serves ABCI queries by a secondary index value.
type indexQuery struct {
	bucket *modelBucket
	index  *index
}

func (q *indexQuery) Query(ctx testament.Context, db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	if mod != testament.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported index query mod %q", mod)
	}
	keys, err := q.index.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]testament.Model, 0, len(keys))
	for _, k := range keys {
		raw, err := db.Get(q.bucket.dbKey(k))
		if err != nil {
			return nil, err
		}
		res = append(res, testament.Pair(k, raw))
	}
	return res, nil
}
