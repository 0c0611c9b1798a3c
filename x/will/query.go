package will

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/cash"
)

// StatusQuery answers the isTriggerable and status questions for a
// single will. The query data is the will ID. A will is triggerable
// when it is active and due, or already in the triggerable state.
type StatusQuery struct {
	wills *WillBucket
	ctrl  cash.Controller
}

var _ testament.QueryHandler = StatusQuery{}

func (q StatusQuery) Query(ctx testament.Context, db testament.ReadOnlyKVStore, mod string, data []byte) ([]testament.Model, error) {
	if mod != testament.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	report, err := Status(ctx, db, q.wills, q.ctrl, data)
	if err != nil {
		return nil, err
	}
	raw, err := proto.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return []testament.Model{testament.Pair(data, raw)}, nil
}

// Status builds the status report of a will as seen at the context block
// time.
func Status(ctx testament.Context, db testament.ReadOnlyKVStore, wills *WillBucket, ctrl cash.Controller, id []byte) (*StatusReport, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	var w Will
	if err := wills.One(db, id, &w); err != nil {
		return nil, errors.Wrapf(err, "will %X", id)
	}
	t, err := now(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := ctrl.Balance(db, w.Address)
	if err != nil {
		return nil, errors.Wrap(err, "custody balance")
	}
	return &StatusReport{
		Will:        &w,
		Triggerable: w.State == WillTriggerable || (w.State == WillActive && w.IsDue(t)),
		Approvals:   int32(len(w.Approvals)),
		Quorum:      w.Quorum,
		DueAt:       w.DueAt(),
		Balance:     balance,
	}, nil
}
