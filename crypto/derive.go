package crypto

import (
	"github.com/iov-one/testament/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the bip44 path used for keys generated from a
// mnemonic seed when no other path is requested.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveEd25519 derives an ed25519 private key from a master seed
// following SLIP-0010. Only hardened paths are supported, for example
// "m/44'/234'/0'".
func DeriveEd25519(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) < 16 {
		return nil, errors.Wrap(errors.ErrInput, "seed too short")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
