/*
Package orm provides an easy to use database abstraction on top of the
KVStore interface.

A ModelBucket stores protobuf encoded models under a bucket specific key
prefix. Models can be looked up by their primary key, iterated by a key
prefix, or found through a secondary index. An optional Sequence provides
auto incremented primary keys.

Bucket content can be exposed to ABCI queries by registering the bucket
with a QueryRouter.
*/
package orm
