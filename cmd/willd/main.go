package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/testament"
	willd "github.com/iov-one/testament/cmd/willd/app"
	"github.com/iov-one/testament/commands/server"
	"github.com/tendermint/tendermint/libs/cli/flags"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".willd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "will:info,abci-server:info,*:error", "log level filter")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("willd")
	fmt.Println("          Time locked multisig will custody node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("validate  Validate the app state of genesis files")
	fmt.Println("start     Run the abci server")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.willd")
  -log_level string
        log level filter (default "will:info,abci-server:info,*:error")`)
}

func main() {
	flag.Parse()
	logger, err := flags.ParseLogLevel(*varLogLevel,
		log.NewTMLogger(log.NewSyncWriter(os.Stdout)), "error")
	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		os.Exit(1)
	}
	logger = logger.With("module", "will")

	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(willd.GenInitOptions, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(willd.Initializers(), rest)
	case "start":
		err = server.StartCmd(willd.GenerateApp, logger, *varHome, rest)
	case "version":
		fmt.Println(testament.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
