package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/sigs"
)

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Sign given transaction. This is decoding a transaction data from standard
input, adds a signature and writes back to standard output signed transaction
content.

The chain ID and the nonce of the signer are fetched from the node unless
both are given.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		keyPathFl = fl.String("key", defaultKeyPath(), keyPathUsage)
		chainFl   = fl.String("chain", "", "Optional chain ID. Fetched from the node genesis when not given.")
		nonceFl   = fl.Int64("nonce", -1, "Optional nonce of the signer. Fetched from the node when negative.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return errors.Wrap(err, "cannot load private key")
	}

	tx, _, err := readTx(input)
	if err != nil {
		return errors.Wrap(err, "cannot read transaction")
	}

	chain, nonce := *chainFl, *nonceFl
	if chain == "" || nonce < 0 {
		c := newClient(*tmAddrFl)
		if chain == "" {
			if chain, err = chainID(c); err != nil {
				return err
			}
		}
		if nonce < 0 {
			if nonce, err = nextNonce(c, key.PublicKey().Address()); err != nil {
				return errors.Wrap(err, "cannot get the next sequence number")
			}
		}
	}

	sig, err := sigs.SignTx(key, tx, chain, nonce)
	if err != nil {
		return errors.Wrap(err, "cannot sign transaction")
	}
	tx.Signatures = append(tx.Signatures, sig)

	_, err = writeTx(output, tx)
	return err
}
