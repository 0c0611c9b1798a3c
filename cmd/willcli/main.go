package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/testament"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program and the command name. It is responsible for parsing
// its own arguments. In a special case of an invalid argument a message to
// os.Stderr and os.Exit(2) call are allowed.
//
// A command function should provide a single functionality. Transactions
// are passed between commands using a unix pipe, for example:
//
//   $ willcli approve -will 3 \
//       | willcli sign -key executor.key \
//       | willcli submit
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"approve":           cmdApprove,
	"as-batch":          cmdAsBatch,
	"cancel":            cmdCancel,
	"check-trigger":     cmdCheckTrigger,
	"checkin":           cmdCheckIn,
	"create-will":       cmdCreateWill,
	"execute":           cmdExecute,
	"keyaddr":           cmdKeyaddr,
	"keygen":            cmdKeygen,
	"query":             cmdQuery,
	"remove-allocation": cmdRemoveAllocation,
	"revive":            cmdRevive,
	"send-tokens":       cmdSendTokens,
	"set-allocation":    cmdSetAllocation,
	"sign":              cmdSignTransaction,
	"status":            cmdStatus,
	"submit":            cmdSubmitTransaction,
	"update-config":     cmdUpdateConfiguration,
	"version":           cmdVersion,
	"view":              cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the will application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, testament.Version())
	return err
}
