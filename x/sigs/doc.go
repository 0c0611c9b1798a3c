/*
Package sigs verifies the signatures on a transaction and maintains a
per-signer sequence for replay protection.

Verify is a pure predicate over a public key, the signed bytes and the
signature. The sequence tracking and the decorator are layered on top of
it: every signature must be built over the chain ID and the current
sequence of the signer, which is then incremented.
*/
package sigs
