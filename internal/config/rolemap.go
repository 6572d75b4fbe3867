package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Saa1amand3r/cloud9-hackathon-backend/internal/normalize"
)

// LoadRoleMap reads a character to role table. The format follows the file
// extension: .toml, .yaml/.yml or .json. An empty path yields an empty map.
func LoadRoleMap(path string) (normalize.RoleMap, error) {
	roles := normalize.RoleMap{}
	if path == "" {
		return roles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role map: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &roles)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &roles)
	case ".json":
		err = json.Unmarshal(data, &roles)
	default:
		return nil, fmt.Errorf("unsupported role map format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode role map: %w", err)
	}
	return roles, nil
}

// ProvideRoleMap loads the role map named by the configuration.
func ProvideRoleMap(cfg *Config) (normalize.RoleMap, error) {
	return LoadRoleMap(cfg.RoleMapPath)
}
