package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the per-project settings directory
	DirName = ".sit"

	// FileName is the configuration file inside DirName
	FileName = "config.yaml"

	// HomeEnv overrides the settings directory
	HomeEnv = "SIT_HOME"
)

// GetHome returns the SIT settings directory
// Priority order:
//  1. SIT_HOME environment variable (if set)
//  2. .sit in the current working directory
func GetHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return filepath.Join(cwd, DirName), nil
}

// DefaultConfigPath returns the configuration file inside the settings directory
func DefaultConfigPath() (string, error) {
	home, err := GetHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}
