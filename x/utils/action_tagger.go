package utils

import (
	"fmt"

	"github.com/iov-one/testament"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// ActionKey tags a delivered message with its path.
	ActionKey = "action"
	// SubjectKey tags a delivered message with the hex encoded ID of the
	// entity it acts on, for example the will ID.
	SubjectKey = "subject"
)

// Subjecter is implemented by messages that act on a single stored
// entity.
type Subjecter interface {
	Subject() []byte
}

// ActionTagger tags every successfully delivered message with its path
// and, when known, its subject, so clients can search the transactions
// of a single will. Place it after the batch decorator so each message
// of a batch is tagged.
type ActionTagger struct{}

var _ testament.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Checker) (*testament.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx testament.Context, db testament.KVStore, tx testament.Tx, next testament.Deliverer) (*testament.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())})
	if s, ok := msg.(Subjecter); ok && len(s.Subject()) != 0 {
		id := fmt.Sprintf("%X", s.Subject())
		res.Tags = append(res.Tags, common.KVPair{Key: []byte(SubjectKey), Value: []byte(id)})
	}
	return res, nil
}
