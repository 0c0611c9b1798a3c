package main

import (
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/errors"
	"golang.org/x/crypto/ed25519"
)

const keyPathUsage = "Path to the private key file. You can use WILLCLI_PRIV_KEY environment variable to set it."

func defaultKeyPath() string {
	return env("WILLCLI_PRIV_KEY", os.Getenv("HOME")+"/.willd.priv.key")
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Generate a new private key.

When successful a new file with binary content containing private key is
created. This command fails if the private key file already exists.

When a seed is given, the key is derived from it using given derivation path.
The same seed and path always produce the same key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), keyPathUsage)
		seedFl    = flHex(fl, "seed", "", "Optional hex encoded seed to derive the key from.")
		pathFl    = fl.String("path", crypto.DefaultDerivationPath, "Derivation path used together with a seed.")
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); !os.IsNotExist(err) {
		// Never overwrite an existing key. The user must delete it
		// manually first.
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists, delete this file and try again", *keyPathFl)
	}

	var key *crypto.PrivateKey
	if len(*seedFl) != 0 {
		k, err := crypto.DeriveEd25519(*seedFl, *pathFl)
		if err != nil {
			return errors.Wrap(err, "cannot derive key")
		}
		key = k
	} else {
		key = crypto.GenPrivKeyEd25519()
	}

	fd, err := os.OpenFile(*keyPathFl, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return errors.Wrap(err, "cannot create private key file")
	}
	defer fd.Close()

	if _, err := fd.Write(key.Ed25519); err != nil {
		return errors.Wrap(err, "cannot write private key")
	}
	if err := fd.Close(); err != nil {
		return errors.Wrap(err, "cannot close private key file")
	}
	return nil
}

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the address associated with your private key.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), keyPathUsage)
		bech32Fl  = fl.Bool("bech32", false, "Print the bech32 representation instead of hex.")
	)
	fl.Parse(args)

	key, err := decodePrivateKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	if !*bech32Fl {
		_, err = fmt.Fprintln(output, addr)
		return err
	}
	b, err := addr.Bech32()
	if err != nil {
		return errors.Wrap(err, "cannot encode address")
	}
	_, err = fmt.Fprintln(output, b)
	return err
}

func decodePrivateKey(path string) (*crypto.PrivateKey, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q file", path)
	}
	if len(data) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid private key length: %d", len(data))
	}
	return &crypto.PrivateKey{Ed25519: data}, nil
}
