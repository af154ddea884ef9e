package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the feyn and feyn-server binaries.
type Config struct {
	// ServerAddress is the gRPC address of the diagram server.
	ServerAddress string `yaml:"server_addr"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Order is the default perturbation order to enumerate.
	Order int `yaml:"order"`
	// MaxLevel caps the ladder index of either side; zero means unbounded.
	MaxLevel int `yaml:"max_level"`
	// OutputDir receives rendered PNG files and the catalog.
	OutputDir string `yaml:"output_dir"`
	// Render controls PNG output.
	Render Render `yaml:"render"`
	// Evaluate holds the model used for numeric response scans.
	Evaluate Evaluate `yaml:"evaluate"`
}

// Render controls the size of rendered diagrams.
type Render struct {
	// Width of a rendered PNG in pixels.
	Width int `yaml:"width"`
	// Height of a rendered PNG in pixels.
	Height int `yaml:"height"`
}

// Evaluate describes the level scheme used for numeric evaluation.
type Evaluate struct {
	// Fundamental is the 0->1 transition frequency.
	Fundamental float64 `yaml:"fundamental"`
	// Anharmonicity lowers each higher rung: E_k = k*w0 - a*k*(k-1)/2.
	Anharmonicity float64 `yaml:"anharmonicity"`
	// Harmonic scales dipoles as sqrt(k+1) for the k->k+1 transition.
	Harmonic bool `yaml:"harmonic"`
	// Points is the number of grid points of a delay scan.
	Points int `yaml:"points"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "feyn-settings.yaml"

	// DefaultServerAddress is used when no server address is configured.
	DefaultServerAddress = "127.0.0.1:50061"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultOrder is the perturbation order enumerated when none is given.
	DefaultOrder = 3

	// MaxOrder bounds enumeration; the number of diagrams grows roughly as 4^n.
	MaxOrder = 9

	// DefaultWidth and DefaultHeight are the PNG dimensions in pixels.
	DefaultWidth  = 480
	DefaultHeight = 640

	// DefaultPoints is the default number of points on a delay scan.
	DefaultPoints = 64

	// DefaultFundamental is the default 0->1 transition frequency.
	DefaultFundamental = 1.0

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is the permission used for created output directories.
	DefaultDirPermissions = 0o750
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// ErrInvalidOrder is returned when the order is outside 1..MaxOrder.
	ErrInvalidOrder = errors.New("order out of range")
	// ErrInvalidMaxLevel is returned for a negative level cap.
	ErrInvalidMaxLevel = errors.New("max level must not be negative")
	// ErrInvalidRender is returned for non-positive or absurd image sizes.
	ErrInvalidRender = errors.New("invalid render size")
)

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := new(Config)

	// Validate only fills defaults on an empty config.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing file at the default
// location yields Default() instead of an error. An explicitly named file must exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, os.ErrNotExist) && (path == "" || path == DefaultConfigFilename) {
		return Default(), nil
	}

	return nil, err
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults for unset fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = DefaultServerAddress
	}

	if _, _, err := net.SplitHostPort(cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}

	if err := ValidateOrder(cfg.Order); err != nil {
		return err
	}

	if cfg.MaxLevel < 0 {
		return ErrInvalidMaxLevel
	}

	if cfg.Render.Width == 0 {
		cfg.Render.Width = DefaultWidth
	}

	if cfg.Render.Height == 0 {
		cfg.Render.Height = DefaultHeight
	}

	if cfg.Render.Width < 64 || cfg.Render.Height < 64 || cfg.Render.Width > 8192 || cfg.Render.Height > 8192 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidRender, cfg.Render.Width, cfg.Render.Height)
	}

	if cfg.Evaluate.Fundamental == 0 {
		cfg.Evaluate.Fundamental = DefaultFundamental
	}

	if cfg.Evaluate.Points <= 1 {
		cfg.Evaluate.Points = DefaultPoints
	}

	return nil
}

// ValidateOrder reports whether n is an order the generator accepts.
func ValidateOrder(n int) error {
	if n < 1 || n > MaxOrder {
		return fmt.Errorf("%w: %d not in 1..%d", ErrInvalidOrder, n, MaxOrder)
	}

	return nil
}
