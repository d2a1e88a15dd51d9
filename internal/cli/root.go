package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arcuo/clockify-cli/internal/config"
	"github.com/arcuo/clockify-cli/internal/output"
	"github.com/arcuo/clockify-cli/internal/sentry"
)

// skipSetup marks commands that work without a config file.
const skipSetup = "skip-setup"

// Execute runs the command tree. SIGINT cancels in-flight requests.
func Execute(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCommand(cfg, promptuiPrompter{}).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree around cfg.
func NewRootCommand(cfg *config.Config, prompter Prompter) *cobra.Command {
	return newRootCommand(&app{
		cfg:      cfg,
		prompter: prompter,
		mode:     output.DetectMode(),
	})
}

func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clockify",
		Short: "Clockify terminal app",
		Long: `Track time in Clockify from your terminal.

On first run you are asked for your API key, which you find at the bottom of
https://app.clockify.me/user/settings. Defaults for workspace and project are
kept in ~/.clockify.cfg.`,
		Example: `  # Start and finish a timer
  clockify start "Writing docs" -p Website
  clockify finish

  # Log 1h30m that just ended
  clockify entry 1:30 -d "Code review"

  # Show the last 10 entries
  clockify entries -i`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.init(cmd)
			sentry.AddBreadcrumb("command", cmd.CommandPath(), nil)

			if needsSetup(cmd) && !a.cfg.Exists() {
				return a.setup(cmd)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "Echo raw API payloads and debug traces")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Timeout for each API request (0 means none)")
	rootCmd.PersistentFlags().BoolVar(&a.legacyOffset, "legacy-offset", false,
		"Stamp every time with the UTC offset in effect now (legacy, off by an hour across DST changes)")

	rootCmd.AddCommand(
		newStartCommand(a),
		newFinishCommand(a),
		newEntryCommand(a),
		newInProgressCommand(a),
		newEntriesCommand(a),
		newRemoveEntryCommand(a),
		newUserCommand(a),
		newProjectsCommand(a),
		newWorkspacesCommand(a),
		newSetWorkspaceCommand(a),
		newSetProjectCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)

	return rootCmd
}

func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipSetup] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// setup records the API key and user profile on first run.
func (a *app) setup(cmd *cobra.Command) error {
	key := a.cfg.Key()
	if key == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "No configuration found at "+a.cfg.File())
		var err error
		key, err = a.prompter.Secret("Your API key (see bottom of user settings on the webpage)")
		if err != nil {
			return err
		}
	}

	svc, err := a.serviceWithKey(key)
	if err != nil {
		return err
	}

	user, err := svc.Setup(cmd.Context(), key)
	if err != nil {
		return err
	}

	a.log.Success(fmt.Sprintf("Welcome, %s. Configuration saved to %s", user.Name, a.cfg.File()))
	return nil
}
