package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/batch"
)

func cmdAsBatch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read any number of transactions from the stdin and extract messages from them.
Create a single batch transaction containing all messages. All attributes of
the original transactions (ie signatures) are being dropped.

Messages of a batch are executed in order and either all of them succeed or
none is applied.
`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	var msgs []testament.Msg
	for {
		tx, _, err := readTx(input)
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		msg, err := tx.GetMsg()
		if err != nil {
			return errors.Wrap(err, "cannot extract message from the transaction")
		}
		if _, ok := msg.(*batch.ExecuteBatchMsg); ok {
			return errors.Wrap(errors.ErrInput, "batch cannot contain another batch")
		}
		msgs = append(msgs, msg)
	}

	msg, err := batch.NewExecuteBatchMsg(msgs...)
	if err != nil {
		return errors.Wrap(err, "cannot create batch")
	}
	return writeMsg(output, msg)
}
