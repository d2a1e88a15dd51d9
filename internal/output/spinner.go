package output

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Spinner shows progress while waiting on the API. In CI mode it stays
// silent until Success or Fail.
type Spinner struct {
	spinner *spinner.Spinner
	mode    OutputMode
	message string
	writer  io.Writer
	running bool
}

// NewSpinnerTo creates a spinner with the given message writing to w.
func NewSpinnerTo(w io.Writer, message string, mode OutputMode) *Spinner {
	s := &Spinner{
		mode:    mode,
		message: message,
		writer:  w,
	}

	if mode == OutputModeInteractive {
		// CharSet 14 is dots
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.spinner.Suffix = " " + message
		_ = s.spinner.Color("blue", "bold")
	}

	return s
}

// Start starts the spinner
func (s *Spinner) Start() {
	s.running = true
	if s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop stops the spinner
func (s *Spinner) Stop() {
	s.running = false
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// Running reports whether Start was called without a matching Stop. It
// tracks CI mode too, where nothing is drawn.
func (s *Spinner) Running() bool {
	return s.running
}

// Success stops the spinner and shows a success message
func (s *Spinner) Success(message string) {
	s.Stop()
	fmt.Fprintf(s.writer, "%s %s\n", color.GreenString("✓"), message)
}

// Fail stops the spinner and shows a failure message
func (s *Spinner) Fail(message string) {
	s.Stop()
	fmt.Fprintf(s.writer, "%s %s\n", color.RedString("✗"), message)
}
