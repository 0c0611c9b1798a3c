package orm

import (
	"bytes"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

const idxPrefix = "_x."

// MultiKeyIndexer calculates the secondary index keys for a given model.
type MultiKeyIndexer func(Model) ([][]byte, error)

// index is using a database native storage and query in order to maintain
// and provide access to a secondary index. Index keys are in format:
//    _x.<bucket>.<index name>:<len(value)><value><entity key>
// so that all entities indexed under a value share a common key prefix.
type index struct {
	prefix  []byte
	name    string
	unique  bool
	indexer MultiKeyIndexer
}

func newIndex(bucket, name string, indexer MultiKeyIndexer, unique bool) *index {
	return &index{
		prefix:  []byte(idxPrefix + bucket + "." + name + ":"),
		name:    name,
		unique:  unique,
		indexer: indexer,
	}
}

func (ix *index) valuePrefix(value []byte) ([]byte, error) {
	if len(value) == 0 || len(value) > 255 {
		return nil, errors.Wrapf(errors.ErrInput, "index %q value length %d", ix.name, len(value))
	}
	p := make([]byte, 0, len(ix.prefix)+1+len(value))
	p = append(p, ix.prefix...)
	p = append(p, byte(len(value)))
	return append(p, value...), nil
}

// update removes all index entries of the previous model state and adds
// entries for the new one. A nil model means no state.
func (ix *index) update(db testament.KVStore, key []byte, prev, next Model) error {
	if prev != nil {
		values, err := ix.indexer(prev)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		for _, v := range values {
			p, err := ix.valuePrefix(v)
			if err != nil {
				return err
			}
			if err := db.Delete(append(p, key...)); err != nil {
				return errors.Wrap(err, "db delete")
			}
		}
	}

	if next != nil {
		values, err := ix.indexer(next)
		if err != nil {
			return errors.Wrap(err, "indexer")
		}
		for _, v := range values {
			p, err := ix.valuePrefix(v)
			if err != nil {
				return err
			}
			if ix.unique {
				keys, err := ix.keys(db, v)
				if err != nil {
					return err
				}
				for _, k := range keys {
					if !bytes.Equal(k, key) {
						return errors.Wrapf(errors.ErrDuplicate, "index %q", ix.name)
					}
				}
			}
			if err := db.Set(append(p, key...), key); err != nil {
				return errors.Wrap(err, "db set")
			}
		}
	}
	return nil
}

// keys returns primary keys of all entities indexed under given value.
func (ix *index) keys(db testament.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	p, err := ix.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	it, err := db.Iterator(p, prefixEnd(p))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var keys [][]byte
	for {
		_, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return keys, nil
		}
		if err != nil {
			return nil, err
		}
		keys = append(keys, v)
	}
}

func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
