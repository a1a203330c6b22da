// internal/defs/loader.go
package defs

import (
	"encoding/json"
	"fmt"
	"os"

	"go-tower-defense-sim/pkg/logger"
)

// LoadTowerDefinitions reads a tower configuration file keyed by tower ID.
func LoadTowerDefinitions(path string) (map[string]TowerDefinition, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tower definitions file: %w", err)
	}

	var towerDefs []TowerDefinition
	if err := json.Unmarshal(file, &towerDefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tower definitions: %w", err)
	}

	lib := make(map[string]TowerDefinition, len(towerDefs))
	for _, def := range towerDefs {
		lib[def.ID] = def
	}

	logger.Log.WithField("path", path).Infof("Loaded %d tower definitions", len(lib))
	return lib, nil
}

// LoadMobDefinitions reads a mob configuration file keyed by mob ID.
func LoadMobDefinitions(path string) (map[string]MobDefinition, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mob definitions file: %w", err)
	}

	var mobDefs []MobDefinition
	if err := json.Unmarshal(file, &mobDefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mob definitions: %w", err)
	}

	lib := make(map[string]MobDefinition, len(mobDefs))
	for _, def := range mobDefs {
		lib[def.ID] = def
	}

	logger.Log.WithField("path", path).Infof("Loaded %d mob definitions", len(lib))
	return lib, nil
}

// LoadLibrary starts from the built-in catalogue and replaces the tower and/or
// mob tables with file contents when a path is given.
func LoadLibrary(towerPath, mobPath string) (*Library, error) {
	lib := DefaultLibrary()
	if towerPath != "" {
		towers, err := LoadTowerDefinitions(towerPath)
		if err != nil {
			return nil, err
		}
		lib.Towers = towers
	}
	if mobPath != "" {
		mobs, err := LoadMobDefinitions(mobPath)
		if err != nil {
			return nil, err
		}
		lib.Mobs = mobs
	}
	if err := lib.Validate(); err != nil {
		return nil, fmt.Errorf("invalid definitions: %w", err)
	}
	return lib, nil
}
