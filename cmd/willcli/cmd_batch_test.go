package main

import (
	"bytes"
	"testing"

	willd "github.com/iov-one/testament/cmd/willd/app"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/willtest/assert"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/will"
)

func TestAsBatch(t *testing.T) {
	var input bytes.Buffer
	assert.Nil(t, cmdSetAllocation(nil, &input, []string{"-will", "1", "-beneficiary", execAHex, "-share", "60"}))
	assert.Nil(t, cmdSetAllocation(nil, &input, []string{"-will", "1", "-beneficiary", execBHex, "-share", "40"}))

	var output bytes.Buffer
	if err := cmdAsBatch(&input, &output, nil); err != nil {
		t.Fatalf("cannot create a batch: %s", err)
	}

	msg := readMsg(t, &output).(*batch.ExecuteBatchMsg)
	assert.Equal(t, 2, len(msg.Messages))

	tx, err := willd.NewTx(msg)
	assert.Nil(t, err)
	v, err := viewOf(tx)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(v.Message.Messages))
	first := v.Message.Messages[0].Data.(*will.SetAllocationMsg)
	assert.Equal(t, int64(60), first.Share)
	second := v.Message.Messages[1].Data.(*will.SetAllocationMsg)
	assert.Equal(t, int64(40), second.Share)
}

func TestAsBatchRejectsNestedBatch(t *testing.T) {
	var single bytes.Buffer
	assert.Nil(t, cmdCheckIn(nil, &single, []string{"-will", "1"}))
	var nested bytes.Buffer
	assert.Nil(t, cmdAsBatch(&single, &nested, nil))

	var output bytes.Buffer
	err := cmdAsBatch(&nested, &output, nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestAsBatchRequiresMessages(t *testing.T) {
	var output bytes.Buffer
	err := cmdAsBatch(&bytes.Buffer{}, &output, nil)
	assert.IsErr(t, errors.ErrEmpty, err)
}
