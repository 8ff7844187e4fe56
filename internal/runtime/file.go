package runtime

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// pathsFile is the on-disk shape of the runtimes override file.
//
//	[paths]
//	node = "/opt/node22/bin/node"
type pathsFile struct {
	Paths map[string]string `toml:"paths"`
}

// LoadPathsFile reads runtime path overrides from a TOML file. A missing
// file is not an error; it yields an empty override set.
func LoadPathsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read runtimes file: %w", err)
	}

	var file pathsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse runtimes file: %w", err)
	}
	if file.Paths == nil {
		file.Paths = map[string]string{}
	}
	return file.Paths, nil
}

// SavePathsFile writes the override set back to disk so overrides set
// via the API survive a restart.
func SavePathsFile(path string, paths map[string]string) error {
	data, err := toml.Marshal(pathsFile{Paths: paths})
	if err != nil {
		return fmt.Errorf("failed to encode runtimes file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write runtimes file: %w", err)
	}
	return nil
}
