package app

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// MaxTxSize is the largest serialized transaction accepted by CheckTx and
// DeliverTx.
const MaxTxSize = 1 << 20

// BaseApp decodes transactions and passes them to the handler, on top of
// the storage and query functionality of StoreApp.
type BaseApp struct {
	*StoreApp
	decoder testament.TxDecoder
	handler testament.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application that decodes every transaction with
// decoder and processes it with handler. In debug mode error logs carry
// stack traces.
func NewBaseApp(store *StoreApp, decoder testament.TxDecoder, handler testament.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	ctx, tx, err := b.prepare("deliver_tx", txBytes)
	if err != nil {
		return testament.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return testament.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	ctx, tx, err := b.prepare("check_tx", txBytes)
	if err != nil {
		return testament.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return testament.CheckOrError(res, err, b.debug)
}

// prepare decodes the transaction and returns the block context extended
// with the call details for logging.
func (b BaseApp) prepare(call string, txBytes []byte) (testament.Context, testament.Tx, error) {
	if len(txBytes) > MaxTxSize {
		return nil, nil, errors.Wrapf(errors.ErrInput, "transaction of %d bytes, at most %d allowed", len(txBytes), MaxTxSize)
	}
	tx, err := b.decode(txBytes)
	if err != nil {
		return nil, nil, err
	}
	ctx := b.BlockContext()
	height, _ := testament.GetHeight(ctx)
	ctx = testament.WithLogInfo(ctx,
		"call", call,
		"height", height,
		"path", testament.GetPath(tx))
	return ctx, tx, nil
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(txBytes []byte) (tx testament.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
