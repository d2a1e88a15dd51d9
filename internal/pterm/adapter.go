package pterm

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arcuo/clockify-cli/internal/output"
)

// PTermManager manages PTerm components with OutputMode awareness
type PTermManager struct {
	mode     output.OutputMode
	disabled bool
}

// NewPTermManager creates a new PTerm manager with appropriate configuration
func NewPTermManager(mode output.OutputMode) *PTermManager {
	pm := &PTermManager{mode: mode}

	// NO_COLOR and CLOCKIFY_PTERM_ENABLED=false both force plain output
	if os.Getenv("CLOCKIFY_PTERM_ENABLED") == "false" || os.Getenv("NO_COLOR") != "" {
		pterm.DisableColor()
		pterm.DisableStyling()
		pm.disabled = true
		return pm
	}

	if mode == output.OutputModeCI || !isatty.IsTerminal(os.Stderr.Fd()) {
		pterm.DisableColor()
		pterm.DisableStyling()
		pm.disabled = true
	}

	pm.applyTheme()
	return pm
}

func (pm *PTermManager) applyTheme() {
	pterm.Success = *pterm.Success.WithMessageStyle(pterm.NewStyle(pterm.FgLightGreen))
	pterm.Error = *pterm.Error.WithMessageStyle(pterm.NewStyle(pterm.FgLightRed))
	pterm.Info = *pterm.Info.WithMessageStyle(pterm.NewStyle(pterm.FgLightCyan))
	pterm.Warning = *pterm.Warning.WithMessageStyle(pterm.NewStyle(pterm.FgYellow))
	pterm.Debug = *pterm.Debug.WithMessageStyle(pterm.NewStyle(pterm.FgGray))
}

// Logger returns a logger bound to this manager's output mode.
func (pm *PTermManager) Logger(verbose bool) *Logger {
	return NewLogger(pm.disabled, verbose)
}

// IsDisabled returns whether PTerm is disabled
func (pm *PTermManager) IsDisabled() bool {
	return pm.disabled
}

// Mode returns the current output mode
func (pm *PTermManager) Mode() output.OutputMode {
	return pm.mode
}
