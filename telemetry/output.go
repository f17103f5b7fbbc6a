package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/bugfights/config"
)

// OutputManager handles structured fight output with CSV logging.
type OutputManager struct {
	dir          string
	fightsFile   *os.File
	perfFile      *os.File
	fightPerfFile *os.File
	bookmarkFile  *os.File

	// Track if headers have been written
	fightsHeaderWritten    bool
	perfHeaderWritten      bool
	fightPerfHeaderWritten bool
	bookmarkHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	// Open fights.csv
	f, err := os.Create(filepath.Join(dir, "fights.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating fights.csv: %w", err)
	}
	om.fightsFile = f

	// Open perf.csv
	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.fightsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	// Open fight_perf.csv
	f, err = os.Create(filepath.Join(dir, "fight_perf.csv"))
	if err != nil {
		om.fightsFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating fight_perf.csv: %w", err)
	}
	om.fightPerfFile = f

	// Open bookmarks.csv
	f, err = os.Create(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		om.fightsFile.Close()
		om.perfFile.Close()
		om.fightPerfFile.Close()
		return nil, fmt.Errorf("creating bookmarks.csv: %w", err)
	}
	om.bookmarkFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// writeRecords appends records to a CSV file, writing the header only once.
func writeRecords[T any](f *os.File, headerWritten *bool, records []T, what string) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return fmt.Errorf("writing %s: %w", what, err)
		}
		*headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, f); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	return nil
}

// WriteFight writes a fight stats record to fights.csv.
func (om *OutputManager) WriteFight(stats FightStats) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.fightsFile, &om.fightsHeaderWritten, []FightStats{stats}, "fight")
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, tick int) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.perfFile, &om.perfHeaderWritten, []PerfStatsCSV{stats.ToCSV(tick)}, "perf")
}

// WriteFightPerf writes one fight's timing totals to fight_perf.csv.
func (om *OutputManager) WriteFightPerf(fp FightPerf) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.fightPerfFile, &om.fightPerfHeaderWritten, []FightPerfCSV{fp.ToCSV()}, "fight perf")
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return writeRecords(om.bookmarkFile, &om.bookmarkHeaderWritten, []Bookmark{b}, "bookmark")
}

// WriteSnapshot saves v as indented JSON under snapshots/.
func (om *OutputManager) WriteSnapshot(name string, v any) error {
	if om == nil {
		return nil
	}

	dir := filepath.Join(om.dir, "snapshots")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", name, err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.fightsFile, om.perfFile, om.fightPerfFile, om.bookmarkFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
