package will

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/coin"
	"github.com/iov-one/testament/errors"
)

const (
	pathCreate              = "will/create"
	pathCheckIn             = "will/checkin"
	pathSetAllocation       = "will/set_allocation"
	pathRemoveAllocation    = "will/remove_allocation"
	pathCheckTrigger        = "will/check_trigger"
	pathApprove             = "will/approve"
	pathReviveCheckIn       = "will/revive"
	pathExecute             = "will/execute"
	pathCancel              = "will/cancel"
	pathUpdateConfiguration = "will/update_configuration"
)

// CreateMsg creates a new will owned by Owner. Amount, if given, is
// moved from the owner wallet into the will custody account.
type CreateMsg struct {
	Owner           testament.Address   `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner,omitempty"`
	Executors       []testament.Address `protobuf:"bytes,2,rep,name=executors,proto3" json:"executors,omitempty"`
	Quorum          int32               `protobuf:"varint,3,opt,name=quorum,proto3" json:"quorum,omitempty"`
	IntervalSeconds int64               `protobuf:"varint,4,opt,name=interval_seconds,json=intervalSeconds,proto3" json:"interval_seconds,omitempty"`
	Amount          coin.Coins          `protobuf:"bytes,5,rep,name=amount,proto3" json:"amount,omitempty"`
}

func (m *CreateMsg) Reset()         { *m = CreateMsg{} }
func (m *CreateMsg) String() string { return proto.CompactTextString(m) }
func (*CreateMsg) ProtoMessage()    {}

var _ testament.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string { return pathCreate }

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Executors", validateExecutors(m.Executors))
	if _, err := ResolveQuorum(m.Quorum, len(m.Executors)); err != nil {
		errs = errors.AppendField(errs, "Quorum", err)
	}
	if m.IntervalSeconds <= 0 {
		errs = errors.AppendField(errs, "IntervalSeconds", errors.Wrap(ErrConstruction, "must be positive"))
	}
	if len(m.Amount) != 0 {
		if err := m.Amount.Validate(); err != nil {
			errs = errors.AppendField(errs, "Amount", err)
		} else if !m.Amount.IsPositive() {
			errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
		}
	}
	return errs
}

// CheckInMsg resets the will timer.
type CheckInMsg struct {
	WillID []byte `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
}

func (m *CheckInMsg) Reset()         { *m = CheckInMsg{} }
func (m *CheckInMsg) String() string { return proto.CompactTextString(m) }
func (*CheckInMsg) ProtoMessage()    {}

var _ testament.Msg = (*CheckInMsg)(nil)

func (CheckInMsg) Path() string { return pathCheckIn }
func (m CheckInMsg) Subject() []byte { return m.WillID }

func (m *CheckInMsg) Validate() error {
	return errors.AppendField(nil, "WillID", validateID(m.WillID))
}

// SetAllocationMsg assigns a share of the will to a beneficiary. A zero
// share removes the beneficiary.
type SetAllocationMsg struct {
	WillID      []byte            `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Beneficiary testament.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Share       int64             `protobuf:"varint,3,opt,name=share,proto3" json:"share,omitempty"`
}

func (m *SetAllocationMsg) Reset()         { *m = SetAllocationMsg{} }
func (m *SetAllocationMsg) String() string { return proto.CompactTextString(m) }
func (*SetAllocationMsg) ProtoMessage()    {}

var _ testament.Msg = (*SetAllocationMsg)(nil)

func (SetAllocationMsg) Path() string { return pathSetAllocation }
func (m SetAllocationMsg) Subject() []byte { return m.WillID }

func (m *SetAllocationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WillID", validateID(m.WillID))
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	if m.Share < 0 {
		errs = errors.AppendField(errs, "Share", errors.Wrap(errors.ErrInput, "negative share"))
	}
	return errs
}

// RemoveAllocationMsg removes a beneficiary from the will.
type RemoveAllocationMsg struct {
	WillID      []byte            `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Beneficiary testament.Address `protobuf:"bytes,2,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
}

func (m *RemoveAllocationMsg) Reset()         { *m = RemoveAllocationMsg{} }
func (m *RemoveAllocationMsg) String() string { return proto.CompactTextString(m) }
func (*RemoveAllocationMsg) ProtoMessage()    {}

var _ testament.Msg = (*RemoveAllocationMsg)(nil)

func (RemoveAllocationMsg) Path() string { return pathRemoveAllocation }
func (m RemoveAllocationMsg) Subject() []byte { return m.WillID }

func (m *RemoveAllocationMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WillID", validateID(m.WillID))
	errs = errors.AppendField(errs, "Beneficiary", m.Beneficiary.Validate())
	return errs
}

// CheckTriggerMsg moves a due will into the triggerable state. Anyone
// can send it.
type CheckTriggerMsg struct {
	WillID []byte `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
}

func (m *CheckTriggerMsg) Reset()         { *m = CheckTriggerMsg{} }
func (m *CheckTriggerMsg) String() string { return proto.CompactTextString(m) }
func (*CheckTriggerMsg) ProtoMessage()    {}

var _ testament.Msg = (*CheckTriggerMsg)(nil)

func (CheckTriggerMsg) Path() string { return pathCheckTrigger }
func (m CheckTriggerMsg) Subject() []byte { return m.WillID }

func (m *CheckTriggerMsg) Validate() error {
	return errors.AppendField(nil, "WillID", validateID(m.WillID))
}

// ApproveMsg is an executor approval of the will release. When Executor
// is empty, the main signer of the transaction is used.
type ApproveMsg struct {
	WillID   []byte            `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
	Executor testament.Address `protobuf:"bytes,2,opt,name=executor,proto3" json:"executor,omitempty"`
}

func (m *ApproveMsg) Reset()         { *m = ApproveMsg{} }
func (m *ApproveMsg) String() string { return proto.CompactTextString(m) }
func (*ApproveMsg) ProtoMessage()    {}

var _ testament.Msg = (*ApproveMsg)(nil)

func (ApproveMsg) Path() string { return pathApprove }
func (m ApproveMsg) Subject() []byte { return m.WillID }

func (m *ApproveMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "WillID", validateID(m.WillID))
	if m.Executor != nil {
		errs = errors.AppendField(errs, "Executor", m.Executor.Validate())
	}
	return errs
}

// ReviveCheckInMsg brings a triggerable will back to active. The owner
// proves being alive.
type ReviveCheckInMsg struct {
	WillID []byte `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
}

func (m *ReviveCheckInMsg) Reset()         { *m = ReviveCheckInMsg{} }
func (m *ReviveCheckInMsg) String() string { return proto.CompactTextString(m) }
func (*ReviveCheckInMsg) ProtoMessage()    {}

var _ testament.Msg = (*ReviveCheckInMsg)(nil)

func (ReviveCheckInMsg) Path() string { return pathReviveCheckIn }
func (m ReviveCheckInMsg) Subject() []byte { return m.WillID }

func (m *ReviveCheckInMsg) Validate() error {
	return errors.AppendField(nil, "WillID", validateID(m.WillID))
}

// ExecuteMsg disburses the will funds to the beneficiaries. Anyone can
// send it once the quorum is reached.
type ExecuteMsg struct {
	WillID []byte `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
}

func (m *ExecuteMsg) Reset()         { *m = ExecuteMsg{} }
func (m *ExecuteMsg) String() string { return proto.CompactTextString(m) }
func (*ExecuteMsg) ProtoMessage()    {}

var _ testament.Msg = (*ExecuteMsg)(nil)

func (ExecuteMsg) Path() string { return pathExecute }
func (m ExecuteMsg) Subject() []byte { return m.WillID }

func (m *ExecuteMsg) Validate() error {
	return errors.AppendField(nil, "WillID", validateID(m.WillID))
}

// CancelMsg irrevocably cancels the will and returns its funds to the
// owner.
type CancelMsg struct {
	WillID []byte `protobuf:"bytes,1,opt,name=will_id,json=willId,proto3" json:"will_id,omitempty"`
}

func (m *CancelMsg) Reset()         { *m = CancelMsg{} }
func (m *CancelMsg) String() string { return proto.CompactTextString(m) }
func (*CancelMsg) ProtoMessage()    {}

var _ testament.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string { return pathCancel }
func (m CancelMsg) Subject() []byte { return m.WillID }

func (m *CancelMsg) Validate() error {
	return errors.AppendField(nil, "WillID", validateID(m.WillID))
}

// UpdateConfigurationMsg patches the extension configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch,omitempty"`
}

func (m *UpdateConfigurationMsg) Reset()         { *m = UpdateConfigurationMsg{} }
func (m *UpdateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*UpdateConfigurationMsg) ProtoMessage()    {}

var _ testament.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return pathUpdateConfiguration }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "patch required")
	}
	return nil
}
