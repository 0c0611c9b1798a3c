package store

import "github.com/iov-one/testament"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = testament.ReadOnlyKVStore
type SetDeleter = testament.SetDeleter
type KVStore = testament.KVStore
type Batch = testament.Batch
type Iterator = testament.Iterator
type CacheableKVStore = testament.CacheableKVStore
type KVCacheWrap = testament.KVCacheWrap
type CommitKVStore = testament.CommitKVStore
type CommitID = testament.CommitID
type Model = testament.Model
