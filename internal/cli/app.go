package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcuo/clockify-cli/internal/clockify"
	"github.com/arcuo/clockify-cli/internal/config"
	clierrors "github.com/arcuo/clockify-cli/internal/errors"
	"github.com/arcuo/clockify-cli/internal/formatter"
	"github.com/arcuo/clockify-cli/internal/output"
	"github.com/arcuo/clockify-cli/internal/pterm"
	"github.com/arcuo/clockify-cli/internal/sentry"
	"github.com/arcuo/clockify-cli/internal/timefmt"
	"github.com/arcuo/clockify-cli/internal/tracker"
)

// app is the state shared by the commands of one invocation.
type app struct {
	cfg      *config.Config
	prompter Prompter

	verbose      bool
	timeout      time.Duration
	legacyOffset bool

	mode  output.OutputMode
	log   *pterm.Logger
	clock func() time.Time

	svc *tracker.Service
	// active is the spinner of the running mutation, paused while prompting.
	active *output.Spinner
}

// init sets up logging for the invocation. It runs before any command.
func (a *app) init(cmd *cobra.Command) {
	if a.log != nil {
		return
	}

	pm := pterm.NewPTermManager(a.mode)
	if pm.IsDisabled() {
		color.NoColor = true
	}
	a.log = pm.Logger(a.verbose || a.cfg.Debug)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.Debugf("config file %s (exists: %v)", a.cfg.File(), a.cfg.Exists())
}

// service builds the tracker for the API key in effect.
func (a *app) service() (*tracker.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	return a.serviceWithKey(a.cfg.Key())
}

func (a *app) serviceWithKey(key string) (*tracker.Service, error) {
	client, err := clockify.New(key, a.cfg.BaseURL,
		clockify.WithTimeout(a.timeout),
		clockify.WithLogger(a.log),
		clockify.WithDebug(a.verbose || a.cfg.Debug),
	)
	if err != nil {
		return nil, err
	}

	f, err := timefmt.New(a.cfg.Timezone)
	if err != nil {
		a.log.Warningf("%v; using UTC", err)
		f = &timefmt.Formatter{Location: time.UTC, Clock: time.Now}
	}
	if a.clock != nil {
		f.Clock = a.clock
	}
	if a.legacyOffset {
		f.Mode = timefmt.OffsetNow
	}

	a.svc = tracker.New(client, a.cfg, f, a.ask, a.log)
	return a.svc, nil
}

// renderer writes listings to the command's stdout.
func (a *app) renderer(cmd *cobra.Command, format formatter.Format) *formatter.Renderer {
	r := formatter.NewRenderer(format, time.UTC, a.mode == output.OutputModeInteractive && !color.NoColor)
	r.Out = cmd.OutOrStdout()
	if a.svc != nil && a.svc.Formatter.Location != nil {
		r.Location = a.svc.Formatter.Location
	}
	if a.clock != nil {
		r.Now = a.clock
	}
	return r
}

// spinner shows progress on stderr unless verbose traces would interleave.
func (a *app) spinner(cmd *cobra.Command, message string) *output.Spinner {
	mode := a.mode
	if a.verbose {
		mode = output.OutputModeCI
	}
	s := output.NewSpinnerTo(cmd.ErrOrStderr(), message, mode)
	s.Start()
	return s
}

// ask hands the terminal to the prompter. A running spinner is stopped
// first, since it redraws the line promptui draws on.
func (a *app) ask(label string, choices []string) (string, error) {
	if s := a.active; s != nil && s.Running() {
		s.Stop()
		defer s.Start()
	}
	return a.prompter.Select(label, choices)
}

// echo prints a raw API payload in verbose mode.
func (a *app) echo(w io.Writer, v interface{}) error {
	if !a.verbose || v == nil {
		return nil
	}
	return formatter.WriteJSON(w, v)
}

// mutation runs a mutating call. A non-2xx answer is reported as
// "Failed: <status>" and not printed again by the entry point.
func (a *app) mutation(cmd *cobra.Command, message string, fn func(ctx context.Context) (string, error)) error {
	s := a.spinner(cmd, message)
	a.active = s
	defer func() { a.active = nil }()

	done, err := fn(cmd.Context())
	if err != nil {
		if status := clockify.StatusCode(err); status != 0 && !clierrors.IsType(err, clierrors.ErrorTypeAuth) {
			s.Fail(fmt.Sprintf("Failed: %d", status))
			a.log.Debugf("%v", err)
			sentry.AddBreadcrumb("api", fmt.Sprintf("%s failed with %d", cmd.Name(), status), nil)
			return clierrors.Reported(err)
		}
		s.Stop()
		return err
	}
	s.Success(done)
	return nil
}
