package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LandmarksConfig names the tracked body parts used by the analysis
type LandmarksConfig struct {
	// Center drives time in zone and distance travelled
	Center string `yaml:"center"`

	// Nose drives the distance to the point of interest
	Nose string `yaml:"nose"`
}

// NamingConfig describes how recording and video names are split
type NamingConfig struct {
	// SessionMarker separates the animal identity from the rest of a recording id
	SessionMarker string `yaml:"session_marker"`

	// SessionSeparator precedes the session label at the end of a recording id
	SessionSeparator string `yaml:"session_separator"`

	// VideoMarker truncates video names to recording ids
	VideoMarker string `yaml:"video_marker"`
}

// SessionsConfig names the two compared sessions
type SessionsConfig struct {
	Baseline string `yaml:"baseline"`
	Test     string `yaml:"test"`
}

// OutputConfig controls optional result columns
type OutputConfig struct {
	// IncludeRawDistance adds the un-normalized mean POI distance per session
	IncludeRawDistance bool `yaml:"include_raw_distance"`

	// IncludeConditions appends the experiment condition columns
	IncludeConditions bool `yaml:"include_conditions"`
}

// Config represents SIT analysis configuration options
type Config struct {
	// FPS is the video frame rate used to convert frames to seconds
	FPS float64 `yaml:"fps"`

	// PixelSize is the physical length of one pixel
	PixelSize float64 `yaml:"pixel_size"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	Landmarks LandmarksConfig `yaml:"landmarks"`
	Naming    NamingConfig    `yaml:"naming"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Output    OutputConfig    `yaml:"output"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		FPS:       30,
		PixelSize: 1.0,
		LogLevel:  "info",
		LogDir:    filepath.Join(DirName, "logs"),
		Landmarks: LandmarksConfig{
			Center: "Center",
			Nose:   "Nose",
		},
		Naming: NamingConfig{
			SessionMarker:    "_SIT",
			SessionSeparator: ".",
			VideoMarker:      "DLC",
		},
		Sessions: SessionsConfig{
			Baseline: "1",
			Test:     "2",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.FPS != 0 {
		cfg.FPS = fileCfg.FPS
	}
	if fileCfg.PixelSize != 0 {
		cfg.PixelSize = fileCfg.PixelSize
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.Landmarks.Center != "" {
		cfg.Landmarks.Center = fileCfg.Landmarks.Center
	}
	if fileCfg.Landmarks.Nose != "" {
		cfg.Landmarks.Nose = fileCfg.Landmarks.Nose
	}
	if fileCfg.Sessions.Baseline != "" {
		cfg.Sessions.Baseline = fileCfg.Sessions.Baseline
	}
	if fileCfg.Sessions.Test != "" {
		cfg.Sessions.Test = fileCfg.Sessions.Test
	}

	// Naming keys may be set to an empty string on purpose, so presence is
	// checked on the raw document
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if namingMap, ok := rawMap["naming"].(map[string]interface{}); ok {
			if _, exists := namingMap["session_marker"]; exists {
				cfg.Naming.SessionMarker = fileCfg.Naming.SessionMarker
			}
			if _, exists := namingMap["session_separator"]; exists {
				cfg.Naming.SessionSeparator = fileCfg.Naming.SessionSeparator
			}
			if _, exists := namingMap["video_marker"]; exists {
				cfg.Naming.VideoMarker = fileCfg.Naming.VideoMarker
			}
		}
	}

	cfg.Output = fileCfg.Output

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .sit/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DirName, FileName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(fps *float64, pixelSize *float64, logLevel *string, logDir *string) {
	if fps != nil {
		c.FPS = *fps
	}
	if pixelSize != nil {
		c.PixelSize = *pixelSize
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	// A non-positive frame rate falls back to the default at analysis time,
	// but an explicit negative value is a mistake
	if c.FPS < 0 {
		return fmt.Errorf("fps must be >= 0, got %v", c.FPS)
	}
	if c.PixelSize <= 0 {
		return fmt.Errorf("pixel_size must be > 0, got %v", c.PixelSize)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Landmarks.Center == "" {
		return fmt.Errorf("landmarks.center cannot be empty")
	}
	if c.Landmarks.Nose == "" {
		return fmt.Errorf("landmarks.nose cannot be empty")
	}
	if c.Sessions.Baseline == "" || c.Sessions.Test == "" {
		return fmt.Errorf("sessions.baseline and sessions.test cannot be empty")
	}
	if c.Sessions.Baseline == c.Sessions.Test {
		return fmt.Errorf("sessions.baseline and sessions.test must differ, both are %q", c.Sessions.Baseline)
	}

	return nil
}
