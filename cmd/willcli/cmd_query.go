package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/cash"
	"github.com/iov-one/testament/x/sigs"
	"github.com/iov-one/testament/x/will"
)

// queries maps a query path to the model its values decode into.
var queries = map[string]func() proto.Message{
	"/auth":           func() proto.Message { return &sigs.UserData{} },
	"/allocations":    func() proto.Message { return &will.Allocation{} },
	"/custody":        func() proto.Message { return &cash.CustodyAccount{} },
	"/disbursements":  func() proto.Message { return &will.DisbursementRecord{} },
	"/wallets":        func() proto.Message { return &cash.Wallet{} },
	"/wills":          func() proto.Message { return &will.Will{} },
	"/wills/executor": func() proto.Message { return &will.Will{} },
	"/wills/owner":    func() proto.Message { return &will.Will{} },
	"/wills/status":   func() proto.Message { return &will.StatusReport{} },
}

func cmdQuery(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `
Execute a query against the application state and print the result as JSON.

The query data is given either as a hex value, a will ID or an address.
Supported paths are:
	%s
`, strings.Join(queryPaths(), "\n\t"))
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		pathFl    = fl.String("path", "", "Query path, for example /wills.")
		dataFl    = flHex(fl, "data", "", "Hex encoded query data.")
		willFl    = fl.Uint64("will", 0, "Will ID used as the query data.")
		addressFl = flAddress(fl, "address", "", "Address used as the query data.")
		prefixFl  = fl.Bool("prefix", false, "Query all entries with keys starting with the query data.")
	)
	fl.Parse(args)

	newModel, ok := queries[*pathFl]
	if !ok {
		return errors.Wrapf(errors.ErrInput, "unknown query path %q", *pathFl)
	}

	if *willFl != 0 && len(*addressFl) != 0 {
		return errors.Wrap(errors.ErrInput, "will and address cannot be used together")
	}

	var data []byte
	switch {
	case *willFl != 0:
		data = sequenceID(*willFl)
	case len(*addressFl) != 0:
		data = *addressFl
	default:
		data = *dataFl
	}

	path := *pathFl
	if *prefixFl {
		path += "?" + testament.PrefixQueryMod
	}
	keys, values, err := abciQuery(newClient(*tmAddrFl), path, data)
	if err != nil {
		return err
	}

	result := make([]queryResult, len(keys))
	for i := range keys {
		m := newModel()
		if err := proto.Unmarshal(values[i], m); err != nil {
			return errors.Wrapf(err, "cannot decode value %d", i)
		}
		result[i] = queryResult{Key: hex.EncodeToString(keys[i]), Value: m}
	}

	pretty, err := json.MarshalIndent(result, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot JSON serialize")
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

type queryResult struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func queryPaths() []string {
	paths := make([]string, 0, len(queries))
	for p := range queries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
