package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/testament"
	willd "github.com/iov-one/testament/cmd/willd/app"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/will"
)

// defaultInterval is one year.
const defaultInterval = 365 * 24 * 60 * 60

func cmdCreateWill(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction for a new will.

Executors are given as repeated -executor flags or a comma separated list.
When no quorum is given a majority of executors is required. Optional amount
is moved from the owner wallet into the will custody account.
`)
		fl.PrintDefaults()
	}
	var (
		ownerFl     = flAddress(fl, "owner", "", "Address of the will owner. Required.")
		executorsFl = flAddresses(fl, "executor", "Address of an executor. Can be used many times.")
		quorumFl    = fl.Int("quorum", 0, "Number of executor approvals required to execute the will. Zero means a majority.")
		intervalFl  = fl.Int64("interval", defaultInterval, "Check in interval in seconds.")
		amountFl    = flCoins(fl, "amount", "Amount deposited into the will, for example \"100 IOV\". Can be used many times.")
	)
	fl.Parse(args)

	amount, err := amountFl.Coins()
	if err != nil {
		return errors.Wrap(err, "invalid amount")
	}
	msg := &will.CreateMsg{
		Owner:           *ownerFl,
		Executors:       *executorsFl,
		Quorum:          int32(*quorumFl),
		IntervalSeconds: *intervalFl,
		Amount:          amount,
	}
	return writeMsg(output, msg)
}

func cmdCheckIn(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction resetting the timer of an active will. Must be signed
by the will owner.
`)
		fl.PrintDefaults()
	}
	willFl := fl.Uint64("will", 0, "ID of the will.")
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.CheckInMsg{WillID: id})
}

func cmdSetAllocation(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction assigning a share of the will to a beneficiary. A zero
share removes the beneficiary. Must be signed by the will owner.
`)
		fl.PrintDefaults()
	}
	var (
		willFl        = fl.Uint64("will", 0, "ID of the will.")
		beneficiaryFl = flAddress(fl, "beneficiary", "", "Address of the beneficiary.")
		shareFl       = fl.Int64("share", 0, "Share of the will funds.")
	)
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.SetAllocationMsg{
		WillID:      id,
		Beneficiary: *beneficiaryFl,
		Share:       *shareFl,
	})
}

func cmdRemoveAllocation(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction removing a beneficiary from the will. Must be signed by
the will owner.
`)
		fl.PrintDefaults()
	}
	var (
		willFl        = fl.Uint64("will", 0, "ID of the will.")
		beneficiaryFl = flAddress(fl, "beneficiary", "", "Address of the beneficiary.")
	)
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.RemoveAllocationMsg{
		WillID:      id,
		Beneficiary: *beneficiaryFl,
	})
}

func cmdCheckTrigger(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction moving a due will into the triggerable state. Anyone can
submit it and it does not need to be signed.
`)
		fl.PrintDefaults()
	}
	willFl := fl.Uint64("will", 0, "ID of the will.")
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.CheckTriggerMsg{WillID: id})
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction approving the release of a triggerable will. When no
executor is given, the first signer of the transaction is the approving
executor.
`)
		fl.PrintDefaults()
	}
	var (
		willFl     = fl.Uint64("will", 0, "ID of the will.")
		executorFl = flAddress(fl, "executor", "", "Optional address of the approving executor.")
	)
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	msg := &will.ApproveMsg{WillID: id}
	if len(*executorFl) != 0 {
		msg.Executor = *executorFl
	}
	return writeMsg(output, msg)
}

func cmdRevive(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction bringing a triggerable will back to active. All
approvals are dropped. Must be signed by the will owner.
`)
		fl.PrintDefaults()
	}
	willFl := fl.Uint64("will", 0, "ID of the will.")
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.ReviveCheckInMsg{WillID: id})
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction disbursing the funds of a will that collected enough
approvals. Anyone can submit it.
`)
		fl.PrintDefaults()
	}
	willFl := fl.Uint64("will", 0, "ID of the will.")
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.ExecuteMsg{WillID: id})
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction cancelling a will and returning its funds to the owner.
Must be signed by the will owner. Cancellation must be allowed by the
network configuration.
`)
		fl.PrintDefaults()
	}
	willFl := fl.Uint64("will", 0, "ID of the will.")
	fl.Parse(args)

	id, err := willID(*willFl)
	if err != nil {
		return err
	}

	return writeMsg(output, &will.CancelMsg{WillID: id})
}

// willID returns the binary ID of a will given on the command line.
func willID(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "will ID is required")
	}
	return sequenceID(n), nil
}

// writeMsg validates the message and writes an unsigned transaction
// carrying it.
func writeMsg(output io.Writer, msg testament.Msg) error {
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "given data produce an invalid message")
	}
	tx, err := willd.NewTx(msg)
	if err != nil {
		return errors.Wrap(err, "cannot create transaction")
	}
	_, err = writeTx(output, tx)
	return err
}

func cmdUpdateConfiguration(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction updating the will extension configuration. Only the
given values are changed. Must be signed by the configuration owner.
`)
		fl.PrintDefaults()
	}
	var (
		ownerFl        = flAddress(fl, "owner", "", "New configuration owner.")
		shareTotalFl   = fl.Int64("share-total", 0, "Total of all allocation shares of new wills.")
		maxExecutorsFl = fl.Int("max-executors", 0, "Maximum number of executors of a will.")
		minIntervalFl  = fl.Int64("min-interval", 0, "Minimum check in interval in seconds.")
		cancelFl       = fl.String("cancel", "", `Cancel policy, either "allowed" or "forbidden".`)
	)
	fl.Parse(args)

	patch := &will.Configuration{
		Owner:              *ownerFl,
		ShareTotal:         *shareTotalFl,
		MaxExecutors:       int32(*maxExecutorsFl),
		MinIntervalSeconds: *minIntervalFl,
	}
	switch *cancelFl {
	case "":
	case "allowed":
		patch.CancelPolicy = will.CancelAllowed
	case "forbidden":
		patch.CancelPolicy = will.CancelForbidden
	default:
		return errors.Wrapf(errors.ErrInput, "unknown cancel policy %q", *cancelFl)
	}
	return writeMsg(output, &will.UpdateConfigurationMsg{Patch: patch})
}
