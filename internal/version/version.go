package version

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"
)

var (
	// Version is the current version of the CLI
	// This will be overridden by ldflags during build
	Version = "dev"

	// These variables are set by goreleaser
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"

	// ReleasesURL is queried for the latest release.
	ReleasesURL = "https://api.github.com/repos/arcuo/clockify-cli/releases/latest"

	// Cache check results
	lastCheck     time.Time
	latestVersion string
	checkMutex    sync.Mutex
	checkInterval = 24 * time.Hour
)

// SetBuildInfo sets the build information
func SetBuildInfo(commitHash, buildDate, builder string) {
	commit = commitHash
	date = buildDate
	builtBy = builder
}

type githubRelease struct {
	TagName string `json:"tag_name"`
}

// GetVersion returns the full version string
func GetVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)",
		Version, commit, date, builtBy)
}

// compareVersions reports whether latest is newer than current. Development
// builds never report an update.
func compareVersions(current, latest string) (bool, error) {
	if current == "dev" || current == "" {
		return false, nil
	}

	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	lat, err := semver.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("invalid latest version %q: %w", latest, err)
	}
	return lat.GreaterThan(cur), nil
}

// CheckForUpdate checks if a new version is available
// Returns: latestVersion, hasUpdate, error
func CheckForUpdate(ctx context.Context) (string, bool, error) {
	checkMutex.Lock()
	defer checkMutex.Unlock()

	if Version == "dev" {
		return "", false, nil
	}

	// Use cached result if recent enough
	if time.Since(lastCheck) < checkInterval && latestVersion != "" {
		hasUpdate, err := compareVersions(Version, latestVersion)
		return latestVersion, hasUpdate, err
	}

	var release githubRelease
	resp, err := resty.New().
		SetTimeout(10*time.Second).
		R().
		SetContext(ctx).
		SetHeader("Accept", "application/vnd.github+json").
		SetResult(&release).
		Get(ReleasesURL)
	if err != nil {
		return "", false, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !resp.IsSuccess() {
		return "", false, fmt.Errorf("GitHub API returned status %d", resp.StatusCode())
	}

	lastCheck = time.Now()
	latestVersion = release.TagName

	hasUpdate, err := compareVersions(Version, latestVersion)
	return latestVersion, hasUpdate, err
}

// GetUpdateMessage returns a formatted message about available updates
func GetUpdateMessage(ctx context.Context) string {
	latest, hasUpdate, err := CheckForUpdate(ctx)
	if err != nil || !hasUpdate {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nUpdate available!\n")
	sb.WriteString(fmt.Sprintf("Current version: %s\n", Version))
	sb.WriteString(fmt.Sprintf("Latest version:  %s\n", latest))
	sb.WriteString("Run 'go install github.com/arcuo/clockify-cli@latest' to update\n")

	return sb.String()
}
