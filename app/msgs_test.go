package app

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/willtest/assert"
)

func TestMsgRegistry(t *testing.T) {
	reg := NewMsgRegistry(&noteMsg{})

	env, err := testament.Seal(&noteMsg{Text: "hello", Parts: [][]byte{[]byte("a")}})
	assert.Nil(t, err)

	msg, err := env.Open(reg)
	assert.Nil(t, err)
	got, ok := msg.(*noteMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	assert.Equal(t, "hello", got.Text)
	assert.Equal(t, [][]byte{[]byte("a")}, got.Parts)

	_, err = reg.DecodeMsg("app/unknown", nil)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = reg.DecodeMsg("app/note", []byte{0xff, 0xff})
	assert.IsErr(t, errors.ErrMsg, err)

	assert.Panics(t, func() { reg.Register(&noteMsg{}) })
	assert.Panics(t, func() { reg.Register(valueMsg{}) })
	assert.Equal(t, []string{"app/note"}, reg.Paths())
}

type noteMsg struct {
	Text  string   `protobuf:"bytes,1,opt,name=text,proto3" json:"text,omitempty"`
	Parts [][]byte `protobuf:"bytes,2,rep,name=parts,proto3" json:"parts,omitempty"`
}

func (m *noteMsg) Reset()         { *m = noteMsg{} }
func (m *noteMsg) String() string { return proto.CompactTextString(m) }
func (*noteMsg) ProtoMessage()    {}
func (*noteMsg) Path() string     { return "app/note" }
func (*noteMsg) Validate() error  { return nil }

type valueMsg struct{}

func (valueMsg) Reset()          {}
func (valueMsg) String() string  { return "value" }
func (valueMsg) ProtoMessage()   {}
func (valueMsg) Path() string    { return "app/value" }
func (valueMsg) Validate() error { return nil }
