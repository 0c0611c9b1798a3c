package willd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Sample configuration written by GenInitOptions.
const (
	defaultShareTotal         = 100
	defaultMaxExecutors       = 10
	defaultMinIntervalSeconds = 24 * 60 * 60
	initialWhole              = 123456789
)

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The same account owns the will
// configuration.
//
// Arguments are optional: [ticker] [address]
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "IOV"
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var addr testament.Address
	if len(args) > 1 {
		var err error
		if addr, err = testament.ParseAddress(args[1]); err != nil {
			return nil, err
		}
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		var keys string
		var err error
		addr, keys, err = GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
	}

	opts := fmt.Sprintf(`{
  "cash": [
    {
      "address": %q,
      "coins": [{"whole": %d, "ticker": %q}]
    }
  ],
  "conf": {
    "will": {
      "owner": %q,
      "share_total": %d,
      "max_executors": %d,
      "min_interval_seconds": %d,
      "cancel_policy": %d
    }
  },
  "will": []
}`, addr, initialWhole, ticker, addr,
		defaultShareTotal, defaultMaxExecutors, defaultMinIntervalSeconds, 2)
	return json.RawMessage(opts), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "will.db")
	}

	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	application, err := Application("willd", Stack(metrics), TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in the cli to use them
func GenerateCoinKey() (testament.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return addr, string(keys), nil
}
