package will

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/orm"
)

// Allocation is the share of a single beneficiary of a will.
type Allocation struct {
	WillID      []byte            `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Beneficiary testament.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Share       int64             `protobuf:"varint,3,opt,name=share,proto3" json:"share,omitempty"`
}

func (m *Allocation) Reset()         { *m = Allocation{} }
func (m *Allocation) String() string { return proto.CompactTextString(m) }
func (*Allocation) ProtoMessage()    {}

var _ orm.Model = (*Allocation)(nil)

func (a *Allocation) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WillID", validateID(a.WillID))
	errs = errors.AppendField(errs, "Beneficiary", a.Beneficiary.Validate())
	if a.Share <= 0 {
		errs = errors.AppendField(errs, "Share", errors.Wrap(errors.ErrInput, "share must be positive"))
	}
	return errs
}

// Registry keeps the beneficiaries of all wills. An entry is stored
// under the will ID followed by the beneficiary address, so a
// beneficiary can appear only once per will and the entries of a will
// are iterated in address order.
type Registry struct {
	bucket orm.ModelBucket
}

// NewRegistry returns the beneficiary registry.
func NewRegistry() *Registry {
	return &Registry{
		bucket: orm.NewModelBucket("allocation", &Allocation{}),
	}
}

func allocationKey(willID []byte, beneficiary testament.Address) []byte {
	k := make([]byte, 0, len(willID)+len(beneficiary))
	k = append(k, willID...)
	return append(k, beneficiary...)
}

// Set assigns a share to the beneficiary, replacing the previous one. A
// zero share removes the beneficiary. The sum of all shares of the will
// must not exceed the will share total. The custody account of the will
// cannot be a beneficiary.
func (r *Registry) Set(db testament.KVStore, willID []byte, shareTotal int64, beneficiary testament.Address, share int64) error {
	if share < 0 {
		return errors.Wrap(errors.ErrInput, "negative share")
	}
	if err := beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if beneficiary.Equals(CustodyAddress(willID)) {
		return errors.Wrap(errors.ErrInput, "custody account cannot be a beneficiary")
	}
	key := allocationKey(willID, beneficiary)

	if share == 0 {
		err := r.bucket.Delete(db, key)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}

	var others int64
	err := r.Allocations(db, willID).Each(func(a *Allocation) error {
		if !a.Beneficiary.Equals(beneficiary) {
			others += a.Share
		}
		return nil
	})
	if err != nil {
		return err
	}
	if share > shareTotal-others {
		return errors.Wrapf(ErrAllocationOverflow, "%d allocated, %d requested, total is %d", others, share, shareTotal)
	}

	_, err = r.bucket.Put(db, key, &Allocation{
		WillID:      willID,
		Beneficiary: beneficiary,
		Share:       share,
	})
	return err
}

// Remove deletes the beneficiary from the will. It fails with
// ErrNotFound if the beneficiary has no allocation.
func (r *Registry) Remove(db testament.KVStore, willID []byte, beneficiary testament.Address) error {
	if err := r.bucket.Delete(db, allocationKey(willID, beneficiary)); err != nil {
		return errors.Wrapf(err, "beneficiary %s", beneficiary)
	}
	return nil
}

// Allocations returns the allocations of a will. Nothing is read until
// the sequence is iterated.
func (r *Registry) Allocations(db testament.ReadOnlyKVStore, willID []byte) Allocations {
	return Allocations{db: db, bucket: r.bucket, willID: willID}
}

// Register exposes the registry for queries under "/allocations". Use
// the prefix query mod with a will ID to list its beneficiaries.
func (r *Registry) Register(qr testament.QueryRouter) {
	r.bucket.Register("allocations", qr)
}

// Allocations is a lazy, restartable sequence of the allocations of a
// single will. Every iteration reads the store again.
type Allocations struct {
	db     testament.ReadOnlyKVStore
	bucket orm.ModelBucket
	willID []byte
}

// Each calls fn for every allocation, in beneficiary address order. The
// iteration stops at the first error returned by fn, which is returned.
func (a Allocations) Each(fn func(*Allocation) error) error {
	it, err := a.bucket.PrefixScan(a.db, a.willID, false)
	if err != nil {
		return errors.Wrap(err, "allocations")
	}
	defer it.Release()

	for {
		var alloc Allocation
		switch _, err := it.LoadNext(&alloc); {
		case errors.ErrIteratorDone.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "allocations")
		}
		if err := fn(&alloc); err != nil {
			return err
		}
	}
}

// All loads all allocations into memory.
func (a Allocations) All() ([]*Allocation, error) {
	var res []*Allocation
	err := a.Each(func(alloc *Allocation) error {
		res = append(res, alloc)
		return nil
	})
	return res, err
}

// Sum returns the sum of all shares.
func (a Allocations) Sum() (int64, error) {
	var sum int64
	err := a.Each(func(alloc *Allocation) error {
		sum += alloc.Share
		return nil
	})
	return sum, err
}
