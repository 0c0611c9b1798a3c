package batch

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

const (
	// PathExecuteBatchMsg is the routing path of ExecuteBatchMsg.
	PathExecuteBatchMsg = "batch/execute"

	// MaxBatchMessages is the maximum number of messages in a batch.
	MaxBatchMessages = 10
)

// ExecuteBatchMsg carries serialized messages executed in order.
type ExecuteBatchMsg struct {
	Messages []*testament.MsgEnvelope `protobuf:"bytes,1,rep,name=messages,proto3" json:"messages,omitempty"`
}

func (m *ExecuteBatchMsg) Reset()         { *m = ExecuteBatchMsg{} }
func (m *ExecuteBatchMsg) String() string { return proto.CompactTextString(m) }
func (*ExecuteBatchMsg) ProtoMessage()    {}

var _ testament.Msg = (*ExecuteBatchMsg)(nil)

func (*ExecuteBatchMsg) Path() string {
	return PathExecuteBatchMsg
}

// Validate checks the batch shape. Content of the messages is validated
// by their handlers, after decoding.
func (m *ExecuteBatchMsg) Validate() error {
	switch n := len(m.Messages); {
	case n == 0:
		return errors.Field("Messages", errors.ErrEmpty, "no messages")
	case n > MaxBatchMessages:
		return errors.Field("Messages", errors.ErrInput, "%d messages, at most %d allowed", n, MaxBatchMessages)
	}
	var errs error
	for i, env := range m.Messages {
		switch {
		case env == nil || env.Path == "":
			errs = errors.AppendField(errs, "Messages", errors.Wrapf(errors.ErrEmpty, "message %d", i))
		case env.Path == PathExecuteBatchMsg:
			errs = errors.AppendField(errs, "Messages", errors.Wrapf(errors.ErrInput, "message %d: nested batch", i))
		}
	}
	return errs
}

// NewExecuteBatchMsg seals all messages into a batch.
func NewExecuteBatchMsg(msgs ...testament.Msg) (*ExecuteBatchMsg, error) {
	batch := &ExecuteBatchMsg{Messages: make([]*testament.MsgEnvelope, len(msgs))}
	for i, m := range msgs {
		env, err := testament.Seal(m)
		if err != nil {
			return nil, errors.Wrapf(err, "message %d", i)
		}
		batch.Messages[i] = env
	}
	return batch, nil
}
