package cash

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r testament.Registry, auth x.Authenticator, ctrl Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, ctrl))
}

// RegisterQuery registers the wallets under "/wallets" and the custody
// accounts under "/custody".
func RegisterQuery(qr testament.QueryRouter) {
	NewWalletBucket().Register("wallets", qr)
	NewCustodyBucket().Register("custody", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth x.Authenticator
	ctrl Controller
}

var _ testament.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, ctrl Controller) SendHandler {
	return SendHandler{
		auth: auth,
		ctrl: ctrl,
	}
}

// Check verifies the message is well formed and authorized.
func (h SendHandler) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &testament.CheckResult{}, nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*testament.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	return &testament.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx testament.Context, db testament.KVStore, tx testament.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := testament.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	// Coins in custody can leave only through the extension owning the
	// account, regardless of who signed.
	switch custody, err := IsCustody(db, msg.Source); {
	case err != nil:
		return nil, err
	case custody:
		return nil, errors.Wrap(errors.ErrUnauthorized, "source is a custody account")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return &msg, nil
}
