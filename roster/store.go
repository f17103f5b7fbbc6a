package roster

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileVersion = 1

// rosterFile is the on-disk layout.
type rosterFile struct {
	Version int     `yaml:"version"`
	Bugs    []Entry `yaml:"bugs"`
}

// FileStore persists the roster as a YAML document.
type FileStore struct {
	Path string
}

// Load reads the roster file. A missing file is an empty roster.
func (s FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading roster file: %w", err)
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster file: %w", err)
	}
	if f.Version > fileVersion {
		return nil, fmt.Errorf("roster file version %d is newer than supported %d", f.Version, fileVersion)
	}
	return f.Bugs, nil
}

// Save writes the roster to a temp file and renames it over the old one.
func (s FileStore) Save(entries []Entry) error {
	data, err := yaml.Marshal(rosterFile{Version: fileVersion, Bugs: entries})
	if err != nil {
		return fmt.Errorf("marshaling roster: %w", err)
	}

	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating roster dir: %w", err)
		}
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing roster file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replacing roster file: %w", err)
	}
	return nil
}
