package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/willtest/assert"
)

const seedHex = "000102030405060708090a0b0c0d0e0f"

func TestKeygenFromSeed(t *testing.T) {
	dir, err := ioutil.TempDir("", "willcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	first := filepath.Join(dir, "first.key")
	second := filepath.Join(dir, "second.key")
	other := filepath.Join(dir, "other.key")

	assert.Nil(t, cmdKeygen(nil, nil, []string{"-key", first, "-seed", seedHex}))
	assert.Nil(t, cmdKeygen(nil, nil, []string{"-key", second, "-seed", seedHex}))
	assert.Nil(t, cmdKeygen(nil, nil, []string{"-key", other, "-seed", seedHex, "-path", "m/44'/234'/1'"}))

	a, err := ioutil.ReadFile(first)
	assert.Nil(t, err)
	b, err := ioutil.ReadFile(second)
	assert.Nil(t, err)
	c, err := ioutil.ReadFile(other)
	assert.Nil(t, err)

	assert.Equal(t, 64, len(a))
	assert.Equal(t, a, b)
	if bytes.Equal(a, c) {
		t.Fatal("different derivation paths must produce different keys")
	}
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	dir, err := ioutil.TempDir("", "willcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "priv.key")
	assert.Nil(t, cmdKeygen(nil, nil, []string{"-key", path}))
	before, err := ioutil.ReadFile(path)
	assert.Nil(t, err)

	err = cmdKeygen(nil, nil, []string{"-key", path})
	assert.IsErr(t, errors.ErrDuplicate, err)

	after, err := ioutil.ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, before, after)
}

func TestKeyaddr(t *testing.T) {
	dir, err := ioutil.TempDir("", "willcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "priv.key")
	assert.Nil(t, cmdKeygen(nil, nil, []string{"-key", path, "-seed", seedHex}))
	key, err := decodePrivateKey(path)
	assert.Nil(t, err)
	addr := key.PublicKey().Address()

	var hexOut bytes.Buffer
	assert.Nil(t, cmdKeyaddr(nil, &hexOut, []string{"-key", path}))
	assert.Equal(t, addr.String(), strings.TrimSpace(hexOut.String()))

	var bechOut bytes.Buffer
	assert.Nil(t, cmdKeyaddr(nil, &bechOut, []string{"-key", path, "-bech32"}))
	got, err := testament.ParseAddress("bech32:" + strings.TrimSpace(bechOut.String()))
	assert.Nil(t, err)
	assert.Equal(t, addr, got)
}

func TestDecodePrivateKeyInvalidLength(t *testing.T) {
	dir, err := ioutil.TempDir("", "willcli")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "short.key")
	assert.Nil(t, ioutil.WriteFile(path, []byte("too short"), 0600))
	_, err = decodePrivateKey(path)
	assert.IsErr(t, errors.ErrInput, err)
}
