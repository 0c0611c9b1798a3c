package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/testament/errors"
	"github.com/iov-one/testament/x/will"
)

func cmdStatus(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print a summary of a will as seen at the last committed block. The summary
says if the will can be triggered and how many approvals it collected.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl = fl.String("tm", defaultTmAddr(), tmAddrUsage)
		willFl   = fl.Uint64("will", 0, "ID of the will.")
	)
	fl.Parse(args)

	if *willFl == 0 {
		return errors.Wrap(errors.ErrEmpty, "will ID is required")
	}
	_, values, err := abciQuery(newClient(*tmAddrFl), "/wills/status", sequenceID(*willFl))
	if err != nil {
		return err
	}
	if len(values) != 1 {
		return errors.Wrapf(errors.ErrNotFound, "will %d", *willFl)
	}
	var report will.StatusReport
	if err := proto.Unmarshal(values[0], &report); err != nil {
		return errors.Wrap(err, "cannot decode status")
	}
	return writeStatus(output, *willFl, &report)
}

func writeStatus(output io.Writer, id uint64, r *will.StatusReport) error {
	w := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "will\t%d\n", id)
	fmt.Fprintf(w, "state\t%s\n", r.Will.State)
	fmt.Fprintf(w, "owner\t%s\n", r.Will.Owner)
	fmt.Fprintf(w, "custody\t%s\n", r.Will.Address)
	fmt.Fprintf(w, "due at\t%s\n", r.DueAt.Time().UTC().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "triggerable\t%t\n", r.Triggerable)
	fmt.Fprintf(w, "approvals\t%d/%d\n", r.Approvals, r.Quorum)
	if len(r.Balance) == 0 {
		fmt.Fprintf(w, "balance\t-\n")
	}
	for _, c := range r.Balance {
		fmt.Fprintf(w, "balance\t%s\n", c)
	}
	return w.Flush()
}
