package batch

import (
	"strings"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/common"
)

var cdc = amino.NewCodec()

// Decorator iterates through batch transaction messages and passes them
// down the stack.
type Decorator struct {
	dec testament.MsgDecoder
}

var _ testament.Decorator = Decorator{}

// NewDecorator returns a batch transaction decorator. The decoder turns
// the message envelopes back into messages.
func NewDecorator(dec testament.MsgDecoder) Decorator {
	return Decorator{dec: dec}
}

// BatchTx is the transaction passed down the stack for every message of a
// batch. Everything but the message comes from the original transaction.
type BatchTx struct {
	testament.Tx
	Msg testament.Msg
}

func (tx *BatchTx) GetMsg() (testament.Msg, error) {
	return tx.Msg, nil
}

func (d Decorator) messages(tx testament.Tx) ([]testament.Msg, bool, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, false, err
	}
	batch, ok := msg.(*ExecuteBatchMsg)
	if !ok {
		return nil, false, nil
	}
	if err := batch.Validate(); err != nil {
		return nil, true, errors.Wrap(err, "invalid batch")
	}
	msgs := make([]testament.Msg, len(batch.Messages))
	for i, env := range batch.Messages {
		if msgs[i], err = env.Open(d.dec); err != nil {
			return nil, true, errors.Wrapf(err, "batch message %d", i)
		}
	}
	return msgs, true, nil
}

// Check passes every message of a batch down the stack.
func (d Decorator) Check(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	msgs, isBatch, err := d.messages(tx)
	if err != nil {
		return nil, err
	}
	if !isBatch {
		return next.Check(ctx, store, tx)
	}

	checks := make([]*testament.CheckResult, len(msgs))
	for i, msg := range msgs {
		if checks[i], err = next.Check(ctx, store, &BatchTx{Tx: tx, Msg: msg}); err != nil {
			return nil, errors.Wrapf(err, "batch message %d", i)
		}
	}
	return combineChecks(checks), nil
}

// combineChecks encodes all data as a go-amino array and joins all logs
// with a new line.
func combineChecks(checks []*testament.CheckResult) *testament.CheckResult {
	datas := make([][]byte, len(checks))
	logs := make([]string, len(checks))
	for i, r := range checks {
		datas[i] = r.Data
		logs[i] = r.Log
	}
	return &testament.CheckResult{
		Data: cdc.MustMarshalBinaryBare(datas),
		Log:  strings.Join(logs, "\n"),
	}
}

// Deliver passes every message of a batch down the stack. Changes made by
// a message are visible to the following ones.
func (d Decorator) Deliver(ctx testament.Context, store testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	msgs, isBatch, err := d.messages(tx)
	if err != nil {
		return nil, err
	}
	if !isBatch {
		return next.Deliver(ctx, store, tx)
	}

	delivers := make([]*testament.DeliverResult, len(msgs))
	for i, msg := range msgs {
		if delivers[i], err = next.Deliver(ctx, store, &BatchTx{Tx: tx, Msg: msg}); err != nil {
			return nil, errors.Wrapf(err, "batch message %d", i)
		}
	}
	return combineDelivers(delivers), nil
}

func combineDelivers(delivers []*testament.DeliverResult) *testament.DeliverResult {
	datas := make([][]byte, len(delivers))
	logs := make([]string, len(delivers))
	var tags []common.KVPair
	for i, r := range delivers {
		datas[i] = r.Data
		logs[i] = r.Log
		tags = append(tags, r.Tags...)
	}
	return &testament.DeliverResult{
		Data: cdc.MustMarshalBinaryBare(datas),
		Log:  strings.Join(logs, "\n"),
		Tags: tags,
	}
}

// DecodeData returns the results data of all messages of a batch.
func DecodeData(raw []byte) ([][]byte, error) {
	var datas [][]byte
	if err := cdc.UnmarshalBinaryBare(raw, &datas); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return datas, nil
}
