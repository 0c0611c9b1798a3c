package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// Wallet holds the balance of a single address.
type Wallet struct {
	Coins coin.Coins `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins,omitempty"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

var _ orm.Model = (*Wallet)(nil)

// Validate requires a normalized, non negative set of coins.
func (w *Wallet) Validate() error {
	if err := w.Coins.Validate(); err != nil {
		return errors.Field("Coins", err, "invalid coins")
	}
	if !w.Coins.IsNonNegative() {
		return errors.Field("Coins", errors.ErrAmount, "negative balance")
	}
	return nil
}

// NewWalletBucket returns the bucket holding all wallets, keyed by
// address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}

// CustodyAccount marks an address as owned by an extension.
type CustodyAccount struct {
	Address   testament.Address `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Extension string            `protobuf:"bytes,2,opt,name=extension,proto3" json:"extension,omitempty"`
}

func (m *CustodyAccount) Reset()         { *m = CustodyAccount{} }
func (m *CustodyAccount) String() string { return proto.CompactTextString(m) }
func (*CustodyAccount) ProtoMessage()    {}

var _ orm.Model = (*CustodyAccount)(nil)

func (c *CustodyAccount) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Address", c.Address.Validate())
	if c.Extension == "" {
		errs = errors.AppendField(errs, "Extension", errors.ErrEmpty)
	}
	return errs
}

// NewCustodyBucket returns the bucket registering custody accounts,
// keyed by address.
func NewCustodyBucket() orm.ModelBucket {
	return orm.NewModelBucket("custody", &CustodyAccount{})
}

// Disbursement is the audit record of a single transfer out of a
// custody account.
type Disbursement struct {
	Source      testament.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source,omitempty"`
	Beneficiary testament.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Amount      coin.Coins        `protobuf:"bytes,3,rep,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Disbursement) Reset()         { *m = Disbursement{} }
func (m *Disbursement) String() string { return proto.CompactTextString(m) }
func (*Disbursement) ProtoMessage()    {}

func (d *Disbursement) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", d.Source.Validate())
	errs = errors.AppendField(errs, "Beneficiary", d.Beneficiary.Validate())
	errs = errors.AppendField(errs, "Amount", d.Amount.Validate())
	return errs
}
