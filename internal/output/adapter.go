// Package output writes session snapshots so a later run can resume from them.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dhabedank/ad-agent/internal/core"
)

// SnapshotVersion is bumped when the snapshot layout changes incompatibly.
const SnapshotVersion = 1

// Snapshot is a saved session.
type Snapshot struct {
	Version   int          `json:"version"`
	SessionID string       `json:"session_id"`
	CreatedAt time.Time    `json:"created_at"`
	Product   core.Product `json:"product"`
	State     core.State   `json:"state"`
}

// NewSnapshot captures s.
func NewSnapshot(s core.State, product core.Product) Snapshot {
	return Snapshot{
		Version:   SnapshotVersion,
		SessionID: s.SessionID,
		CreatedAt: time.Now().UTC(),
		Product:   product,
		State:     s,
	}
}

// Adapter is the interface all output adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Write renders the snapshot to w.
	Write(w io.Writer, snap Snapshot) error
}

// Config configures where output goes.
type Config struct {
	// Path to write to. Empty means stdout.
	Path string
}

// ForFormat returns the adapter for a --output value.
func ForFormat(format string) (Adapter, error) {
	switch format {
	case "", "text":
		return &TextAdapter{}, nil
	case "json":
		return &JSONAdapter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (expected text or json)", format)
}

// Emit writes snap through a to config.Path, or to stdout.
func Emit(a Adapter, snap Snapshot, config Config) error {
	if config.Path == "" {
		return a.Write(os.Stdout, snap)
	}

	f, err := os.Create(config.Path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", config.Path, err)
	}
	if err := a.Write(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", config.Path, err)
	}
	return f.Close()
}
