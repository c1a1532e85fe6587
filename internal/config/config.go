// Package config provides configuration loading and path management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/paramedit/paramedit/pkg/types"
)

// Load loads configuration from multiple sources (priority order):
// 1. Global config (~/.config/paramedit/)
// 2. Project config (paramedit.{json,jsonc,yaml} in the working directory)
// 3. PARAMEDIT_CONFIG file
// 4. Environment variables
func Load(directory string) (*types.Config, error) {
	config := types.DefaultConfig()

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Global config
	globalPath := GetPaths().Config
	loadOnce(filepath.Join(globalPath, "paramedit.json"))
	loadOnce(filepath.Join(globalPath, "paramedit.jsonc"))
	loadOnce(filepath.Join(globalPath, "paramedit.yaml"))

	// 2. Project config
	if directory != "" {
		loadOnce(filepath.Join(directory, "paramedit.json"))
		loadOnce(filepath.Join(directory, "paramedit.jsonc"))
		loadOnce(filepath.Join(directory, "paramedit.yaml"))
	}

	// 3. PARAMEDIT_CONFIG file override
	if configPath := os.Getenv("PARAMEDIT_CONFIG"); configPath != "" {
		loadOnce(configPath)
	}

	// 4. Environment variables (highest priority)
	applyEnvOverrides(config)

	return config, nil
}

// loadConfigFile loads a single config file on top of config.
func loadConfigFile(path string, config *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	var fileConfig types.Config
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return err
		}
	} else {
		// Strip JSONC comments using tidwall/jsonc
		data = jsonc.ToJSON(data)
		if err := json.Unmarshal(data, &fileConfig); err != nil {
			return err
		}
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// mergeConfig overlays src onto dst, field by field.
func mergeConfig(dst, src *types.Config) {
	if src.Document != "" {
		dst.Document = src.Document
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Navigation != nil {
		dst.Navigation = src.Navigation
	}
	if len(src.Keys) > 0 {
		if dst.Keys == nil {
			dst.Keys = make(map[string]string)
		}
		for action, chord := range src.Keys {
			dst.Keys[action] = chord
		}
	}
	if src.Server != nil {
		if dst.Server == nil {
			dst.Server = &types.ServerConfig{}
		}
		if src.Server.Port != 0 {
			dst.Server.Port = src.Server.Port
		}
		dst.Server.EnableCORS = src.Server.EnableCORS
	}
	if src.Host != nil {
		if dst.Host == nil {
			dst.Host = &types.HostConfig{}
		}
		if src.Host.Kind != "" {
			dst.Host.Kind = src.Host.Kind
		}
		if src.Host.URL != "" {
			dst.Host.URL = src.Host.URL
		}
	}
}

// applyEnvOverrides applies PARAMEDIT_* environment variables.
func applyEnvOverrides(config *types.Config) {
	if doc := os.Getenv("PARAMEDIT_DOCUMENT"); doc != "" {
		config.Document = doc
	}
	if level := os.Getenv("PARAMEDIT_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if port := os.Getenv("PARAMEDIT_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			if config.Server == nil {
				config.Server = &types.ServerConfig{}
			}
			config.Server.Port = n
		}
	}
	if url := os.Getenv("PARAMEDIT_HOST_URL"); url != "" {
		if config.Host == nil {
			config.Host = &types.HostConfig{}
		}
		config.Host.Kind = "remote"
		config.Host.URL = url
	}
	if wrap := os.Getenv("PARAMEDIT_NAV_WRAP"); wrap != "" {
		if config.Navigation == nil {
			config.Navigation = &types.NavigationConfig{}
		}
		config.Navigation.Wrap = wrap == "1" || strings.EqualFold(wrap, "true")
	}
}
