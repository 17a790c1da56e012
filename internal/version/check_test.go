package version

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name    string
		latest  string
		current string
		want    bool
	}{
		{"same version", "1.0.0", "1.0.0", false},
		{"patch newer", "1.0.1", "1.0.0", true},
		{"minor newer", "1.1.0", "1.0.0", true},
		{"major newer", "2.0.0", "1.0.0", true},
		{"current newer", "1.0.0", "1.0.1", false},
		{"v prefix handled", "0.4.1", "0.4.0", true},
		{"longer version newer", "1.0.0.1", "1.0.0", true},
		{"double digit", "1.10.0", "1.9.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isNewerVersion(tt.latest, tt.current)
			if got != tt.want {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v",
					tt.latest, tt.current, got, tt.want)
			}
		})
	}
}

func TestParseVersionPart(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1", 1},
		{"10", 10},
		{"0", 0},
		{"1-beta", 1},
		{"2-rc1", 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseVersionPart(tt.input)
			if got != tt.want {
				t.Errorf("parseVersionPart(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func releaseServer(t *testing.T, tag string, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		assert.Equal(t, "/repos/"+GitHubRepo+"/releases/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `","html_url":"https://example.test/r"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckerReportsNewerRelease(t *testing.T) {
	hits := 0
	srv := releaseServer(t, "v1.2.0", &hits)
	c := &Checker{APIBase: srv.URL, StateDir: t.TempDir(), Client: srv.Client()}

	result := c.Check(context.Background(), "1.1.0")
	require.NotNil(t, result)
	assert.Equal(t, "v1.2.0", result.LatestVersion)

	// The marker suppresses a second lookup within the interval.
	assert.Nil(t, c.Check(context.Background(), "1.1.0"))
	assert.Equal(t, 1, hits)
}

func TestCheckerSkips(t *testing.T) {
	hits := 0
	srv := releaseServer(t, "v1.0.0", &hits)
	c := &Checker{APIBase: srv.URL, StateDir: t.TempDir(), Client: srv.Client()}

	assert.Nil(t, c.Check(context.Background(), "dev"))
	assert.Equal(t, 0, hits)

	assert.Nil(t, c.Check(context.Background(), "v1.0.0"), "same version")
	assert.Equal(t, 1, hits)
}

func TestCheckerNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	c := &Checker{APIBase: srv.URL, StateDir: t.TempDir(), Client: srv.Client()}

	assert.Nil(t, c.Check(context.Background(), "1.0.0"))
}

func TestPrintUpdateNotice(t *testing.T) {
	var buf bytes.Buffer
	PrintUpdateNotice(&buf, nil)
	assert.Empty(t, buf.String())

	PrintUpdateNotice(&buf, &CheckResult{CurrentVersion: "1.0.0", LatestVersion: "v1.1.0"})
	assert.Contains(t, buf.String(), "v1.1.0")
	assert.Contains(t, buf.String(), "go install github.com/dhabedank/ad-agent@latest")
}

func TestFirstRun(t *testing.T) {
	dir := t.TempDir()
	stateDir := filepath.Join(dir, ".ad-agent")
	configPath := filepath.Join(dir, ".ad-agent.yaml")

	assert.True(t, IsFirstRun(configPath, stateDir))

	var buf bytes.Buffer
	PrintFirstRunNotice(&buf, stateDir)
	assert.Contains(t, buf.String(), "Welcome to ad-agent")
	assert.False(t, IsFirstRun(configPath, stateDir))

	other := filepath.Join(dir, "other")
	require.NoError(t, os.WriteFile(configPath, []byte("provider: groq\n"), 0644))
	assert.False(t, IsFirstRun(configPath, other), "existing config counts as initialized")
}
