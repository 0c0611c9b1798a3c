package will

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/store"
	"github.com/iov-one/testament/willtest"
	"github.com/iov-one/testament/willtest/assert"
	"github.com/iov-one/testament/x/cash"
)

func TestGenesis(t *testing.T) {
	admin := willtest.NewCondition().Address()
	owner := willtest.NewCondition().Address()
	ex := willtest.NewCondition().Address()
	ben := willtest.NewCondition().Address()

	const genesis = `{
		"conf": {
			"will": {
				"owner": %q,
				"share_total": 1000,
				"max_executors": 3,
				"min_interval_seconds": 60,
				"cancel_policy": 2
			}
		},
		"will": [
			{
				"owner": %q,
				"executors": [%q],
				"interval_seconds": 31536000,
				"last_check_in": "2019-06-01T10:00:00Z",
				"allocations": [{"beneficiary": %q, "share": 250}]
			}
		]
	}`
	var opts testament.Options
	raw := fmt.Sprintf(genesis, admin, owner, ex, ben)
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	conf, err := loadConfig(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), conf.ShareTotal)
	assert.Equal(t, CancelAllowed, conf.CancelPolicy)

	id := willtest.SequenceID(1)
	var w Will
	assert.Nil(t, NewWillBucket().One(db, id, &w))
	assert.Equal(t, owner, w.Owner)
	assert.Equal(t, int32(1), w.Quorum)
	assert.Equal(t, int64(1000), w.ShareTotal)
	assert.Equal(t, WillActive, w.State)

	custody, err := cash.IsCustody(db, CustodyAddress(id))
	assert.Nil(t, err)
	assert.Equal(t, true, custody)

	sum, err := NewRegistry().Allocations(db, id).Sum()
	assert.Nil(t, err)
	assert.Equal(t, int64(250), sum)
}

func TestGenesisRequiresConfiguration(t *testing.T) {
	err := Initializer{}.FromGenesis(testament.Options{}, store.MemStore())
	assert.IsErr(t, errors.ErrNotFound, err)
}
