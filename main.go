package main

import (
	"fmt"
	"os"
	"time"

	"github.com/arcuo/clockify-cli/internal/cli"
	"github.com/arcuo/clockify-cli/internal/config"
	clierrors "github.com/arcuo/clockify-cli/internal/errors"
	"github.com/arcuo/clockify-cli/internal/sentry"
	"github.com/arcuo/clockify-cli/internal/version"
)

// Set by goreleaser through -ldflags.
var (
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	version.SetBuildInfo(commit, date, builtBy)

	if err := sentry.Initialize(version.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer sentry.Flush(2 * time.Second)
	defer sentry.RecoverWithSentry()

	// Load the configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, clierrors.FormatSimple(clierrors.ConfigError(err)))
		return clierrors.ExitCodeConfig
	}

	if err := cli.Execute(cfg); err != nil {
		if !clierrors.IsReported(err) {
			fmt.Fprintln(os.Stderr, clierrors.FormatSimple(err))
		}
		if clierrors.ExitCodeFromError(err) == clierrors.ExitCodeRuntime {
			sentry.CaptureError(err, nil)
		}
		return clierrors.ExitCodeFromError(err)
	}
	return clierrors.ExitCodeSuccess
}
