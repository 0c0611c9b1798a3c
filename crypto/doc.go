/*
Package crypto provides the ed25519 keys used to sign transactions, the
conditions they authorize and deterministic derivation of keys from a
seed.
*/
package crypto
