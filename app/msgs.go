package app

import (
	"fmt"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
)

// MsgRegistry maps message paths to their concrete types so that sealed
// messages can be opened again.
type MsgRegistry struct {
	types map[string]reflect.Type
}

var _ testament.MsgDecoder = (*MsgRegistry)(nil)

// NewMsgRegistry returns a registry knowing all given messages.
func NewMsgRegistry(msgs ...testament.Msg) *MsgRegistry {
	r := &MsgRegistry{types: make(map[string]reflect.Type, len(msgs))}
	for _, m := range msgs {
		r.Register(m)
	}
	return r
}

// Register adds the type of msg under its path. It panics when the path
// is already taken or msg is not a pointer.
func (r *MsgRegistry) Register(msg testament.Msg) {
	t := reflect.TypeOf(msg)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("message %T must be a pointer", msg))
	}
	path := msg.Path()
	if _, ok := r.types[path]; ok {
		panic(fmt.Sprintf("message path %q already registered", path))
	}
	r.types[path] = t.Elem()
}

// Paths returns all registered message paths.
func (r *MsgRegistry) Paths() []string {
	paths := make([]string, 0, len(r.types))
	for p := range r.types {
		paths = append(paths, p)
	}
	return paths
}

// DecodeMsg unmarshals raw into a new instance of the message registered
// for path.
func (r *MsgRegistry) DecodeMsg(path string, raw []byte) (testament.Msg, error) {
	t, ok := r.types[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "unknown message path %q", path)
	}
	msg := reflect.New(t).Interface().(testament.Msg)
	if err := proto.Unmarshal(raw, msg); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %q: %s", path, err)
	}
	return msg, nil
}
