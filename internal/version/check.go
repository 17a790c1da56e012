// Package version handles update notices and the first-run welcome.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhabedank/ad-agent/internal/tui"
)

const (
	// GitHubRepo is the repository for version checks.
	GitHubRepo = "dhabedank/ad-agent"

	// CheckInterval is how often to check for updates.
	CheckInterval = 24 * time.Hour

	stateDirName = ".ad-agent"
)

// Release is the subset of a GitHub release we read.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult holds the result of a version check.
type CheckResult struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker looks up the latest release at most once per CheckInterval.
type Checker struct {
	APIBase  string // defaults to https://api.github.com
	StateDir string // defaults to ~/.ad-agent
	Client   *http.Client
}

// NewChecker returns a checker with production defaults.
func NewChecker() *Checker {
	return &Checker{
		APIBase:  "https://api.github.com",
		StateDir: StateDir(),
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// StateDir is where markers live.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, stateDirName)
}

// Check returns a result only when a newer release exists. Dev builds,
// recent checks and any network failure yield nil.
func (c *Checker) Check(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}

	marker := c.markerPath()
	if recentlyChecked(marker) {
		return nil
	}
	touch(marker)

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		return nil
	}

	if !isNewerVersion(strings.TrimPrefix(latest.TagName, "v"), strings.TrimPrefix(currentVersion, "v")) {
		return nil
	}
	return &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  latest.TagName,
		ReleaseURL:     latest.HTMLURL,
	}
}

func (c *Checker) fetchLatest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimSuffix(c.APIBase, "/"), GitHubRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

func (c *Checker) markerPath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, ".last-update-check")
}

// PrintUpdateNotice writes a notice when result is non-nil.
func PrintUpdateNotice(w io.Writer, result *CheckResult) {
	if result == nil {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s A new version of ad-agent is available: %s (you have %s)\n",
		tui.WarningStyle.Render("!"),
		tui.SuccessStyle.Render(result.LatestVersion),
		result.CurrentVersion,
	)
	fmt.Fprintf(w, "  Update: %s\n", tui.HelpStyle.Render("go install github.com/"+GitHubRepo+"@latest"))
	if result.ReleaseURL != "" {
		fmt.Fprintf(w, "  Notes:  %s\n", tui.HelpStyle.Render(result.ReleaseURL))
	}
	fmt.Fprintln(w)
}

func recentlyChecked(marker string) bool {
	if marker == "" {
		return true
	}
	info, err := os.Stat(marker)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < CheckInterval
}

func touch(path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); os.IsNotExist(err) {
		_ = os.WriteFile(path, []byte{}, 0644)
	}
}

// isNewerVersion compares dotted numeric versions part by part.
func isNewerVersion(latest, current string) bool {
	latestParts := strings.Split(latest, ".")
	currentParts := strings.Split(current, ".")

	for i := 0; i < len(latestParts) && i < len(currentParts); i++ {
		l := parseVersionPart(latestParts[i])
		c := parseVersionPart(currentParts[i])
		if l != c {
			return l > c
		}
	}
	return len(latestParts) > len(currentParts)
}

// parseVersionPart extracts a number from a version part (e.g., "1" from "1-beta").
func parseVersionPart(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}
