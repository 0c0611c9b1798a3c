package willtest

import (
	"github.com/iov-one/testament"
)

// Tx is a transaction that carries a single message.
type Tx struct {
	// Msg is returned by GetMsg.
	Msg testament.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ testament.Tx = (*Tx)(nil)

func (tx *Tx) Reset()         { *tx = Tx{} }
func (tx *Tx) String() string { return "willtest.Tx" }
func (*Tx) ProtoMessage()     {}

func (tx *Tx) GetMsg() (testament.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a message that can be routed to any path.
type Msg struct {
	// RoutePath is returned by Path and consumed by the router.
	RoutePath string
	// Err if set is returned by Validate.
	Err error
}

var _ testament.Msg = (*Msg)(nil)

func (m *Msg) Reset()         { *m = Msg{} }
func (m *Msg) String() string { return "willtest.Msg(" + m.RoutePath + ")" }
func (*Msg) ProtoMessage()    {}

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
