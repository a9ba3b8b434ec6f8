// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads and saves the zephyr configuration file.
//
// The file lives in the platform config directory
// (e.g. ~/.config/zephyr/config.yaml on Linux) and stores connection
// defaults and capture tuning so they don't have to be repeated on every
// invocation. Flags always override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "zephyr"
	configFile = "config.yaml"
)

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigErr  error

	fileMutex sync.Mutex
)

// Config is the on-disk configuration
type Config struct {
	Version int           `yaml:"version"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Capture CaptureConfig `yaml:"capture"`
	Library LibraryConfig `yaml:"library"`
}

// BridgeConfig holds connection defaults for the IR bridge
type BridgeConfig struct {
	URL  string `yaml:"url,omitempty"`  // WebSocket URL (ws:// or wss://)
	Port string `yaml:"port,omitempty"` // serial port device
	Baud int    `yaml:"baud,omitempty"`
}

// CaptureConfig tunes the majority-vote capture accumulator
type CaptureConfig struct {
	MatchThreshold int    `yaml:"match_threshold"` // identical frames needed before accepting
	BufferSize     int    `yaml:"buffer_size"`     // recent frames kept for voting
	DebounceMs     int    `yaml:"debounce_ms"`     // repeat suppression window
	File           string `yaml:"file,omitempty"`  // JSON capture log path
}

// LibraryConfig locates the captured-code library database
type LibraryConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite database path
}

// NewConfig returns a config populated with defaults
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Bridge: BridgeConfig{
			Baud: 115200,
		},
		Capture: CaptureConfig{
			MatchThreshold: 10,
			BufferSize:     40,
			DebounceMs:     200,
		},
	}
}

// GetConfigDir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/zephyr or $HOME/.config/zephyr
//   - macOS: $HOME/.config/zephyr
//   - Windows: %LOCALAPPDATA%\zephyr
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".config", appName)

	default:
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load loads the configuration from disk. If the file doesn't exist, a
// default config is returned. Thread-safe; repeated calls return the same
// instance.
func Load() (*Config, error) {
	globalConfigOnce.Do(func() {
		globalConfig, globalConfigErr = loadFromDisk()
	})
	return globalConfig, globalConfigErr
}

func loadFromDisk() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return NewConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported config version: %d (expected 1)", cfg.Version)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills zero values left by a sparse config file
func applyDefaults(cfg *Config) {
	defaults := NewConfig()
	if cfg.Bridge.Baud == 0 {
		cfg.Bridge.Baud = defaults.Bridge.Baud
	}
	if cfg.Capture.MatchThreshold == 0 {
		cfg.Capture.MatchThreshold = defaults.Capture.MatchThreshold
	}
	if cfg.Capture.BufferSize == 0 {
		cfg.Capture.BufferSize = defaults.Capture.BufferSize
	}
	if cfg.Capture.DebounceMs == 0 {
		cfg.Capture.DebounceMs = defaults.Capture.DebounceMs
	}
}

// Save writes the configuration to disk with an atomic rename
func (c *Config) Save() error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Zephyr configuration file\n# Connection defaults and capture tuning for the zephyr CLI.\n\n")
	data = append(header, data...)

	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename config file: %w", err)
	}
	return nil
}
