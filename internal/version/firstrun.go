package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhabedank/ad-agent/internal/tui"
)

// IsFirstRun reports whether neither configPath nor the initialized marker
// in stateDir exists.
func IsFirstRun(configPath, stateDir string) bool {
	if stateDir == "" {
		return false
	}
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return false
		}
	}
	_, err := os.Stat(filepath.Join(stateDir, ".initialized"))
	return os.IsNotExist(err)
}

// MarkInitialized creates the first-run marker.
func MarkInitialized(stateDir string) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(stateDir, ".initialized"), []byte{}, 0644)
}

// PrintFirstRunNotice writes the welcome text and marks the state dir.
func PrintFirstRunNotice(w io.Writer, stateDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to ad-agent!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Run %s to pick a provider and models\n", tui.ModelStyle.Render("ad-agent setup"))
	fmt.Fprintf(w, "    2. Export your key, e.g. %s\n", tui.ModelStyle.Render("GROQ_API_KEY=..."))
	fmt.Fprintf(w, "    3. Start a session: %s\n", tui.ModelStyle.Render("ad-agent run --data competitors.csv"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'ad-agent --help' for all commands"))
	fmt.Fprintln(w)

	MarkInitialized(stateDir)
}
