package main

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament/app"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/sigs"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// tmClient is the part of the tendermint RPC API used by this program.
type tmClient interface {
	ABCIQuery(path string, data cmn.HexBytes) (*ctypes.ResultABCIQuery, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
	Genesis() (*ctypes.ResultGenesis, error)
}

// newClient returns a client connected to the tendermint node at given
// address. Tests replace it.
var newClient = func(addr string) tmClient {
	return rpcclient.NewHTTP(addr, "/websocket")
}

const tmAddrUsage = "Tendermint node address. You can use WILLCLI_TM_ADDR environment variable to set it."

func defaultTmAddr() string {
	return env("WILLCLI_TM_ADDR", "http://localhost:26657")
}

// abciQuery runs a query and returns the keys and values of the result.
func abciQuery(c tmClient, path string, data []byte) ([][]byte, [][]byte, error) {
	res, err := c.ABCIQuery(path, data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot query")
	}
	resp := res.Response
	if resp.IsErr() {
		return nil, nil, errors.Wrapf(errors.ErrInput, "query failed with code %d: %s", resp.Code, resp.Log)
	}
	var keys, values app.ResultSet
	if err := proto.Unmarshal(resp.Key, &keys); err != nil {
		return nil, nil, errors.Wrap(err, "cannot decode keys")
	}
	if err := proto.Unmarshal(resp.Value, &values); err != nil {
		return nil, nil, errors.Wrap(err, "cannot decode values")
	}
	if len(keys.Results) != len(values.Results) {
		return nil, nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(keys.Results), len(values.Results))
	}
	return keys.Results, values.Results, nil
}

// chainID returns the chain ID of the network the client is connected to.
func chainID(c tmClient) (string, error) {
	res, err := c.Genesis()
	if err != nil {
		return "", errors.Wrap(err, "cannot fetch genesis")
	}
	if res.Genesis == nil || res.Genesis.ChainID == "" {
		return "", errors.Wrap(errors.ErrEmpty, "genesis without chain ID")
	}
	return res.Genesis.ChainID, nil
}

// nextNonce returns the sequence value that the next signature of the
// owner of given address must use.
func nextNonce(c tmClient, addr []byte) (int64, error) {
	_, values, err := abciQuery(c, "/auth", addr)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := proto.Unmarshal(values[0], &user); err != nil {
		return 0, errors.Wrap(err, "cannot decode user data")
	}
	return user.Sequence, nil
}
