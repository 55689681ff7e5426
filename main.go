package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/monobilisim/tablog/common"
	"github.com/monobilisim/tablog/logs"
)

// TablogVersion is printed by --version.
var TablogVersion = "0.1"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	// A closed stdout then shows up as EPIPE from Write instead of killing
	// the process.
	signal.Ignore(syscall.SIGPIPE)

	common.InitZerolog(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes tablog with args and returns the process exit code. An
// interrupt delivered through ctx ends the run immediately with success.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := logs.NewLogsCmd(TablogVersion)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	expanded, err := logs.ExpandMultiValueArgs(args)
	if err != nil {
		return reportError(stderr, err)
	}
	rootCmd.SetArgs(expanded)

	done := make(chan error, 1)
	go func() {
		done <- rootCmd.ExecuteContext(ctx)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		log.Debug().
			Str("component", "main").
			Msg("Interrupted, exiting")
		return exitOK
	}

	if err != nil && ctx.Err() != nil {
		return exitOK
	}
	return reportError(stderr, err)
}

func reportError(stderr io.Writer, err error) int {
	if err == nil {
		return exitOK
	}

	var usageErr *logs.UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "tablog: error: %v\n", err)
		fmt.Fprintln(stderr, "Run 'tablog --help' for usage.")
		return exitUsage
	}

	fmt.Fprintf(stderr, "tablog: error: %v\n", err)
	return exitFailure
}
