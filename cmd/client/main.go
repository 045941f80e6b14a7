package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jrsteele09/go-auth-client/cli"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/logging"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			exitCode = cli.ExitError
		}
	}()

	config.LoadDotEnv()
	logging.Init(config.New())

	err := cli.NewRootCommand(os.Stdout).Execute()
	if err == nil {
		return cli.ExitOK
	}

	var exitErr *cli.ExitCodeError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	return cli.ExitError
}
