package willtest

import (
	"encoding/binary"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a signature condition of a new random key.
func NewCondition() testament.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns the big endian encoding of n, the format of all
// IDs generated by bucket sequences.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// ParseAddress returns the binary form of an address in any of the
// supported human readable formats. The test fails if it cannot be
// parsed.
func ParseAddress(t testing.TB, encoded string) testament.Address {
	t.Helper()
	addr, err := testament.ParseAddress(encoded)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encoded, err)
	}
	return addr
}
