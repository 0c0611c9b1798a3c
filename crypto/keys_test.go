package crypto

import (
	"bytes"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()
	require.NoError(t, pub.Validate())

	msg := []byte("check in")
	sig, err := priv.Sign(msg)
	require.NoError(t, err)

	assert.True(t, pub.Verify(msg, sig))
	assert.False(t, pub.Verify([]byte("check out"), sig))

	other := GenPrivKeyEd25519().PublicKey()
	assert.False(t, other.Verify(msg, sig))

	assert.False(t, pub.Verify(msg, nil))
	assert.False(t, pub.Verify(msg, &Signature{Ed25519: []byte{1, 2, 3}}))
}

func TestKeyFromSeedIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.Ed25519, b.Ed25519)
	assert.Equal(t, a.PublicKey().Address(), b.PublicKey().Address())
}

func TestConditionAddress(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	cond := pub.Condition()
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, ExtensionName, ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, pub.Ed25519, data)
	assert.Equal(t, cond.Address(), pub.Address())
	assert.NoError(t, pub.Address().Validate())
}

func TestPublicKeyValidate(t *testing.T) {
	assert.Error(t, (*PublicKey)(nil).Validate())
	assert.Error(t, (&PublicKey{Ed25519: []byte{1}}).Validate())
}

func TestKeySerialization(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	bz, err := proto.Marshal(pub)
	require.NoError(t, err)

	var got PublicKey
	require.NoError(t, proto.Unmarshal(bz, &got))
	assert.Equal(t, pub.Ed25519, got.Ed25519)
}

func TestDeriveEd25519(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 64)

	a, err := DeriveEd25519(seed, DefaultDerivationPath)
	require.NoError(t, err)
	b, err := DeriveEd25519(seed, DefaultDerivationPath)
	require.NoError(t, err)
	assert.Equal(t, a.Ed25519, b.Ed25519)

	c, err := DeriveEd25519(seed, "m/44'/234'/1'")
	require.NoError(t, err)
	assert.NotEqual(t, a.Ed25519, c.Ed25519)

	_, err = DeriveEd25519(seed, "not a path")
	assert.Error(t, err)

	_, err = DeriveEd25519([]byte{1}, DefaultDerivationPath)
	assert.Error(t, err)
}
