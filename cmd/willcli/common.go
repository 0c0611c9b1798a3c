package main

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament/app"
	willd "github.com/iov-one/testament/cmd/willd/app"
	"github.com/iov-one/testament/errors"
)

// sequenceID returns a sequence value encoded as implemented in the orm
// package.
func sequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// fromSequence transforms given binary representation of a sequence value
// into a decimal form. It is the opposite of the sequenceID function.
func fromSequence(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// writeTx serialize the transaction using a protocol buffer. First bytes
// written contain the information how much space the transaction takes so
// that many transactions can be streamed through a single pipe.
func writeTx(w io.Writer, tx *willd.Tx) (int, error) {
	b, err := proto.Marshal(tx)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, err.Error())
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

// readTx reads a single transaction written by writeTx. io.EOF is returned
// when the input holds no more transactions.
func readTx(r io.Reader) (*willd.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, n, errors.Wrap(errors.ErrInput, "truncated transaction header")
		}
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	if msgSize > maxTxSize {
		return nil, txHeaderSize, errors.Wrapf(errors.ErrInput, "transaction of %d bytes is too big", msgSize)
	}
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, errors.Wrap(errors.ErrInput, "truncated transaction")
	}

	var tx willd.Tx
	if err := proto.Unmarshal(raw, &tx); err != nil {
		return nil, int(msgSize + txHeaderSize), errors.Wrap(errors.ErrInput, err.Error())
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

const (
	txHeaderSize = 4
	maxTxSize    = app.MaxTxSize
)

// env returns the value of an environment variable if provided (even if
// empty) or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}
