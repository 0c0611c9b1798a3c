package testament

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/iov-one/testament/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParse(t *testing.T) {
	cond := NewCondition("sigs", "ed25519", []byte{0xCA, 0xFE})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sigs", ext)
	assert.Equal(t, "ed25519", typ)
	assert.Equal(t, []byte{0xCA, 0xFE}, data)
	assert.Equal(t, "sigs/ed25519/CAFE", cond.String())

	_, _, _, err = Condition("no-separators").Parse()
	assert.True(t, errors.ErrInput.Is(err))
	assert.Error(t, Condition("a/b/c").Validate())
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cond := NewCondition("will", "seq", []byte{0, 0, 0, 0, 0, 0, 0, 1})
	addr := cond.Address()
	b32, err := addr.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr Address
	}{
		"default hex": {
			json:     `"` + hex.EncodeToString(addr) + `"`,
			wantAddr: addr,
		},
		"condition": {
			json:     `"cond:will/seq/0000000000000001"`,
			wantAddr: addr,
		},
		"bech32": {
			json:     `"bech32:` + b32 + `"`,
			wantAddr: addr,
		},
		"empty": {
			json:     `""`,
			wantAddr: nil,
		},
		"too short": {
			json:    `"CAFE"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"base64:aGVsbG8="`,
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	addr := NewAddress([]byte("some data"))
	raw, err := json.Marshal(addr)
	require.NoError(t, err)

	var back Address
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, addr.Equals(back))
	assert.Len(t, back, AddressLength)
}
