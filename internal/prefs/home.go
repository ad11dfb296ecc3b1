package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const homeFile = "home.json"

// Home is a saved player position.
type Home struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Store keeps small per-user preferences as JSON files in Dir.
type Store struct {
	Dir string
}

// Default returns a store under the user config directory.
func Default() (Store, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: filepath.Join(dir, "voxelcmd")}, nil
}

func (s Store) homePath() (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, homeFile), nil
}

func (s Store) SaveHome(h Home) error {
	path, err := s.homePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadHome returns ok=false when no home has been saved.
func (s Store) LoadHome() (Home, bool, error) {
	path, err := s.homePath()
	if err != nil {
		return Home{}, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Home{}, false, nil
		}
		return Home{}, false, err
	}
	var h Home
	if err := json.Unmarshal(data, &h); err != nil {
		return Home{}, false, err
	}
	return h, true, nil
}
