// Package config loads dcp settings from JSON files.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/njchilds90/dcp"
	"github.com/njchilds90/dcp/internal/lawspec"
)

// FileName is the name of the config file looked up in a .dcp directory.
const FileName = "config.json"

// File is the on-disk configuration.
type File struct {
	// Engine holds the numerical knobs. Zero fields keep their defaults.
	Engine dcp.Config `json:"engine"`

	// Law is the default law of motion for commands that are not given one.
	Law *lawspec.Spec `json:"law,omitempty"`
}

// Default returns the built-in configuration.
func Default() *File {
	return &File{Engine: dcp.DefaultConfig()}
}

// Load reads the config at path on top of the defaults.
// A missing file (or an empty path) yields the defaults.
func Load(path string) (*File, error) {
	raw, err := loadRaw(path)
	if err != nil {
		return nil, err
	}
	return Merge(Default(), raw), nil
}

// LoadNearest merges the global config in globalDir with the nearest
// .dcp/config.json found walking up from startDir. Either may be missing.
func LoadNearest(globalDir, startDir string) (*File, error) {
	global, err := loadRaw(filepath.Join(globalDir, FileName))
	if err != nil {
		return nil, err
	}
	local, err := loadRaw(FindConfig(startDir))
	if err != nil {
		return nil, err
	}
	return Merge(Merge(Default(), global), local), nil
}

// FindConfig walks upward from startDir to the nearest .dcp/config.json and
// returns its path, or "" when there is none.
func FindConfig(startDir string) string {
	dir := startDir
	for {
		path := filepath.Join(dir, ".dcp", FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadRaw returns a zero File (not the defaults) when path does not exist.
func loadRaw(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, err
	}
	f := &File{}
	if err := json.Unmarshal(data, f); err != nil {
		return nil, &dcp.Error{
			Code:    dcp.ErrInvalidArgument,
			Message: "decode config " + path,
			Err:     err,
		}
	}
	return f, nil
}

// Merge combines base and overlay; overlay wins field by field.
func Merge(base, overlay *File) *File {
	return &File{
		Engine: dcp.MergeConfig(base.Engine, overlay.Engine),
		Law:    lawspec.Merge(base.Law, overlay.Law),
	}
}
