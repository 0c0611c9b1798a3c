package testament

import (
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament/errors"
)

var isPath = regexp.MustCompile(`^[a-z][a-z0-9_]*/[a-z][a-z0-9_]*$`).MatchString

// Msg is message for the application to take an action
// (make a state transition). It is just the request, and
// must be validated by the Handlers. All authentication
// information is in the wrapping Tx.
type Msg interface {
	proto.Message

	// Path returns the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to
	// them.
	//
	// Must be of the form <extension>/<action>
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one test does not pass and message is considered
	// invalid.
	Validate() error
}

// Tx represent the data sent from the user to the application.
// It includes the actual message, along with information needed
// to authenticate the sender (cryptographic signatures),
// and anything else needed to pass through middleware.
type Tx interface {
	proto.Message

	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (Tx, error)

// MsgDecoder builds a message instance out of its path and serialized
// form.
type MsgDecoder interface {
	DecodeMsg(path string, raw []byte) (Msg, error)
}

// MsgEnvelope carries a serialized message together with its path so that
// it can be decoded without knowing its type upfront.
type MsgEnvelope struct {
	Path string `protobuf:"bytes,1,opt,name=path,proto3" json:"path,omitempty"`
	Data []byte `protobuf:"bytes,2,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *MsgEnvelope) Reset()         { *m = MsgEnvelope{} }
func (m *MsgEnvelope) String() string { return proto.CompactTextString(m) }
func (*MsgEnvelope) ProtoMessage()    {}

// Seal serializes given message into an envelope.
func Seal(msg Msg) (*MsgEnvelope, error) {
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	if !isPath(msg.Path()) {
		return nil, errors.Wrapf(errors.ErrHuman, "invalid message path %q", msg.Path())
	}
	raw, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return &MsgEnvelope{Path: msg.Path(), Data: raw}, nil
}

// Open decodes the envelope content using given decoder.
func (m *MsgEnvelope) Open(dec MsgDecoder) (Msg, error) {
	if m == nil || m.Path == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "message envelope")
	}
	return dec.DecodeMsg(m.Path, m.Data)
}

// LoadMsg extracts the message represented by given transaction into
// given destination. Before returning message validation method is
// called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	// Reflection is needed to support any message type. Destination is
	// expected to be a pointer to a value of the same type as the
	// message.
	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	if !src.Type().AssignableTo(dest.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Elem().Set(src)
	return nil
}
