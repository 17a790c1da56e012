package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dhabedank/ad-agent/internal/core"
)

// JSONAdapter writes the snapshot as indented JSON. It is the format
// Load reads back.
type JSONAdapter struct{}

func (a *JSONAdapter) Name() string {
	return "json"
}

func (a *JSONAdapter) Write(w io.Writer, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Save writes snap as JSON to path.
func Save(path string, snap Snapshot) error {
	return Emit(&JSONAdapter{}, snap, Config{Path: path})
}

// Load reads a snapshot written by Save.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &core.InputValidationError{Field: "snapshot", Message: fmt.Sprintf("%s is not a valid snapshot: %v", path, err)}
	}
	if snap.Version != SnapshotVersion {
		return nil, &core.InputValidationError{
			Field:   "snapshot",
			Message: fmt.Sprintf("unsupported snapshot version %d (expected %d)", snap.Version, SnapshotVersion),
		}
	}
	if snap.State.RankedAds == nil {
		snap.State.RankedAds = []core.RankedAd{}
	}
	return &snap, nil
}
