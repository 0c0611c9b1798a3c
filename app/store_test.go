package app

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// clockQuery returns the block time seen by the query as a single
// big-endian unix timestamp.
type clockQuery struct{}

func (clockQuery) Query(ctx testament.Context, db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	now, err := testament.BlockTime(ctx)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(now.Unix()))
	return []testament.Model{testament.Pair([]byte("now"), raw)}, nil
}

// recordInit stores the options it was called with.
type recordInit struct {
	opts testament.Options
}

func (r *recordInit) FromGenesis(opts testament.Options, db testament.KVStore) error {
	r.opts = opts
	return db.Set([]byte("init"), []byte("done"))
}

func newTestStoreApp(t *testing.T) (*StoreApp, *recordInit) {
	t.Helper()
	qr := NewQueryRouter()
	qr.Register("/clock", clockQuery{})
	init := &recordInit{}
	s := NewStoreApp("willd", iavl.NewCommitStore("", "test"), qr, context.Background()).WithInit(init)
	return s, init
}

func queryTime(t *testing.T, s *StoreApp) int64 {
	t.Helper()
	res := s.Query(abci.RequestQuery{Path: "/clock"})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var values ResultSet
	require.NoError(t, proto.Unmarshal(res.Value, &values))
	require.Len(t, values.Results, 1)
	return int64(binary.BigEndian.Uint64(values.Results[0]))
}

func TestStoreAppLifecycle(t *testing.T) {
	s, init := newTestStoreApp(t)
	genesis := time.Unix(1500000000, 0)

	s.InitChain(abci.RequestInitChain{
		ChainId:       "will-test-chain",
		Time:          genesis,
		AppStateBytes: []byte(`{"will": []}`),
	})
	assert.Equal(t, "will-test-chain", s.GetChainID())
	assert.Contains(t, init.opts, "will")

	// Nothing committed yet, queries see the genesis time only after commit.
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: genesis.Add(time.Minute)}})
	s.EndBlock(abci.RequestEndBlock{})
	c1 := s.Commit()
	assert.NotEmpty(t, c1.Data)
	assert.Equal(t, genesis.Add(time.Minute).Unix(), queryTime(t, s))

	// A header going back in time is clamped to the previous block time.
	s.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2, Time: genesis}})
	now, err := testament.BlockTime(s.BlockContext())
	require.NoError(t, err)
	assert.Equal(t, genesis.Add(time.Minute).Unix(), now.Unix())
	h, ok := testament.GetHeight(s.BlockContext())
	assert.True(t, ok)
	assert.Equal(t, int64(2), h)
	assert.Equal(t, "will-test-chain", testament.GetChainID(s.BlockContext()))
	s.Commit()

	info := s.Info(abci.RequestInfo{})
	assert.Equal(t, int64(2), info.LastBlockHeight)
	assert.Equal(t, "willd", info.Data)

	raw, err := s.DeliverStore().Get([]byte("init"))
	require.NoError(t, err)
	assert.Equal(t, []byte("done"), raw)

	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "other-chain", AppStateBytes: []byte(`{}`)})
	}, "chain can be initialized once")
}

func TestStoreAppQueryErrors(t *testing.T) {
	s, _ := newTestStoreApp(t)

	res := s.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	// No block was processed so there is no time to report.
	res = s.Query(abci.RequestQuery{Path: "/clock"})
	assert.Equal(t, errors.ErrState.ABCICode(), res.Code)
}

func TestInitChainRequiresAppState(t *testing.T) {
	s, _ := newTestStoreApp(t)
	assert.Panics(t, func() {
		s.InitChain(abci.RequestInitChain{ChainId: "will-test-chain"})
	})
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path, wantPath, wantMod string
	}{
		"no mod":      {"/wills", "/wills", ""},
		"prefix":      {"/wills?prefix", "/wills", "prefix"},
		"index":       {"/wills/owner", "/wills/owner", ""},
		"empty mod":   {"/wills?", "/wills", ""},
		"two markers": {"/a?b?c", "/a", "b?c"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			p, m := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, p)
			assert.Equal(t, tc.wantMod, m)
		})
	}
}
