package willd

import (
	"github.com/iov-one/testament"
	"github.com/iov-one/testament/x/batch"
)

func batchMsg(msgs ...testament.Msg) (*batch.ExecuteBatchMsg, error) {
	return batch.NewExecuteBatchMsg(msgs...)
}
