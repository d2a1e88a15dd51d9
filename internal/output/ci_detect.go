package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// OutputMode represents the output style
type OutputMode int

const (
	// OutputModeInteractive shows spinners and colors
	OutputModeInteractive OutputMode = iota
	// OutputModeCI shows plain text, no spinners
	OutputModeCI
)

var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"CLOCKIFY_CI_MODE",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"JENKINS_URL",
	"BUILDKITE",
	"TRAVIS",
	"TEAMCITY_VERSION",
	"BITBUCKET_PIPELINES",
	"DRONE",
}

// IsCI detects if the CLI is running in a CI environment
// Checks multiple common CI environment variables and TTY status
func IsCI() bool {
	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return true
		}
	}

	// Piped or redirected stdout
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// StdinIsTerminal reports whether prompts can use arrow-key selection.
func StdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// DetectMode picks the output mode for this process.
func DetectMode() OutputMode {
	if IsCI() {
		return OutputModeCI
	}
	return OutputModeInteractive
}
