package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/talgya/civic-industry/internal/config"
)

// OutputManager appends cycle records to cycles.csv under dir.
// A nil manager discards everything, so callers need not check whether
// telemetry is enabled.
type OutputManager struct {
	dir           string
	cycleFile     *os.File
	headerWritten bool
}

// NewOutputManager creates the output directory and cycles.csv.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "cycles.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating cycles.csv: %w", err)
	}
	return &OutputManager{dir: dir, cycleFile: f}, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the running configuration next to the records.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteCycle appends one planning pass worth of records.
func (om *OutputManager) WriteCycle(records []CycleRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.cycleFile); err != nil {
			return fmt.Errorf("writing cycles: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.cycleFile); err != nil {
		return fmt.Errorf("writing cycles: %w", err)
	}
	return nil
}

// Close closes the output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.cycleFile.Close()
}
