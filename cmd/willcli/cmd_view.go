package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/testament"
	willd "github.com/iov-one/testament/cmd/willd/app"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/sigs"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Decode and display transaction summary. This command is helpful when receiving
a binary representation of a transaction. Before signing you should check what
kind of operation are you authorizing.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return errors.Wrap(err, "cannot read transaction")
	}
	v, err := viewOf(tx)
	if err != nil {
		return err
	}
	pretty, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return errors.Wrap(err, "cannot JSON serialize")
	}
	_, err = fmt.Fprintln(output, string(pretty))
	return err
}

type txView struct {
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
	Message    msgView              `json:"message"`
}

type msgView struct {
	Path     string        `json:"path"`
	Data     testament.Msg `json:"data"`
	Messages []msgView     `json:"messages,omitempty"`
}

func viewOf(tx *willd.Tx) (*txView, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot extract message")
	}
	v := &txView{
		Signatures: tx.Signatures,
		Message:    msgView{Path: msg.Path(), Data: msg},
	}
	if b, ok := msg.(*batch.ExecuteBatchMsg); ok {
		v.Message.Data = nil
		for i, env := range b.Messages {
			m, err := env.Open(willd.Msgs)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot open batch message %d", i)
			}
			v.Message.Messages = append(v.Message.Messages, msgView{Path: m.Path(), Data: m})
		}
	}
	return v, nil
}
