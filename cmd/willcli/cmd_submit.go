package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	willd "github.com/iov-one/testament/cmd/willd/app"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/will"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and submit it.

For certain transactions response is written out. If a batch transaction was
submitted, multiple responses can be printed out, one for each message
submitted as part of the batch.

Make sure to collect enough signatures before submitting the transaction.
`)
		fl.PrintDefaults()
	}
	tmAddrFl := fl.String("tm", defaultTmAddr(), tmAddrUsage)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return errors.Wrap(err, "cannot read transaction from input")
	}
	raw, err := proto.Marshal(tx)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	res, err := newClient(*tmAddrFl).BroadcastTxCommit(raw)
	if err != nil {
		return errors.Wrap(err, "cannot broadcast transaction")
	}
	if res.CheckTx.IsErr() {
		return errors.Wrapf(errors.ErrInput, "check failed with code %d: %s", res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.DeliverTx.IsErr() {
		return errors.Wrapf(errors.ErrInput, "deliver failed with code %d: %s", res.DeliverTx.Code, res.DeliverTx.Log)
	}

	responses, err := extractResponse(tx, res.DeliverTx.Data, formatters)
	if err != nil {
		return errors.Wrap(err, "cannot extract response")
	}
	for _, r := range responses {
		fmt.Fprintln(output, r)
	}
	return nil
}

// extractResponse parses given raw response data according to what is
// expected considering the submitted transaction. It returns a human
// readable representation of the response of every message that has a
// formatter registered.
func extractResponse(tx testament.Tx, respData []byte, fmts map[string]func([]byte) (string, error)) ([]string, error) {
	var (
		msgs          []testament.Msg
		responsesData [][]byte
	)
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot extract message from transaction")
	}
	if b, ok := msg.(*batch.ExecuteBatchMsg); ok {
		for i, env := range b.Messages {
			m, err := env.Open(willd.Msgs)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot open batch message %d", i)
			}
			msgs = append(msgs, m)
		}
		if responsesData, err = batch.DecodeData(respData); err != nil {
			return nil, errors.Wrap(err, "cannot decode batch response")
		}
		if len(responsesData) != len(msgs) {
			return nil, errors.Wrapf(errors.ErrState, "%d messages and %d responses", len(msgs), len(responsesData))
		}
	} else {
		msgs = []testament.Msg{msg}
		responsesData = [][]byte{respData}
	}

	var responses []string
	for i, msg := range msgs {
		format, ok := fmts[msg.Path()]
		if !ok {
			continue
		}
		pretty, err := format(responsesData[i])
		if err != nil {
			return nil, errors.Wrapf(err, "cannot format #%d result data %x", i, responsesData[i])
		}
		responses = append(responses, pretty)
	}
	return responses, nil
}

// formatters maps a message path to its response parser. Messages without
// a registered formatter have their response ignored.
var formatters = map[string]func([]byte) (string, error){
	will.CreateMsg{}.Path(): fmtSequence,
}

func fmtSequence(raw []byte) (string, error) {
	n, err := fromSequence(raw)
	if err != nil {
		return "", errors.Wrap(err, "cannot parse sequence")
	}
	return fmt.Sprint(n), nil
}
