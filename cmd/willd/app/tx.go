package willd

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/sigs"
)

// Tx is the transaction format of the will application. It carries one
// sealed message and any number of signatures.
type Tx struct {
	Signatures []*sigs.StdSignature    `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Message    *testament.MsgEnvelope `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// make sure tx fulfills all interfaces
var _ testament.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx seals msg into a new unsigned transaction.
func NewTx(msg testament.Msg) (*Tx, error) {
	env, err := testament.Seal(msg)
	if err != nil {
		return nil, err
	}
	return &Tx{Message: env}, nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (testament.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}

// GetMsg opens the message envelope using all messages known to the
// application.
func (m *Tx) GetMsg() (testament.Msg, error) {
	return m.Message.Open(Msgs)
}

// GetSignatures returns the signatures of all signers.
func (m *Tx) GetSignatures() []*sigs.StdSignature {
	return m.Signatures
}

// GetSignBytes returns the bytes to sign...
func (m *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := m.Signatures
	m.Signatures = nil

	bz, err := proto.Marshal(m)

	// reset the signatures after calculating the bytes
	m.Signatures = signatures
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}
