package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// ExportFormats lists the artifact formats understood by the formatter.
var ExportFormats = []string{"json", "csv", "markdown", "txt"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Capture CaptureConfig `toml:"capture"`
	Export  ExportConfig  `toml:"export"`
	Browser BrowserConfig `toml:"browser"`
}

// CaptureConfig describes where songs live on the host page and which requests carry them.
type CaptureConfig struct {
	LibraryURL     string `toml:"library_url"`
	SongBaseURL    string `toml:"song_base_url"`
	SongPathMarker string `toml:"song_path_marker"`
	RowTestID      string `toml:"row_test_id"`
	FeedEndpoint   string `toml:"feed_endpoint"`
}

// ExportConfig contains artifact settings.
type ExportConfig struct {
	OutputDir      string `toml:"output_dir"`
	FilenamePrefix string `toml:"filename_prefix"`
	Format         string `toml:"format"`
	Pretty         bool   `toml:"pretty"`
}

// BrowserConfig contains Chrome launch and connection settings.
type BrowserConfig struct {
	DebuggerURL string `toml:"debugger_url"`
	Bin         string `toml:"bin"`
	Headless    bool   `toml:"headless"`
	UserMode    bool   `toml:"user_mode"`
}

// LoadConfig reads a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate reports the first setting that would make a capture session unusable.
func (c *Config) Validate() error {
	switch {
	case c.Capture.SongPathMarker == "":
		return fmt.Errorf("%w: capture.song_path_marker is empty", ErrInvalidConfig)
	case c.Capture.FeedEndpoint == "":
		return fmt.Errorf("%w: capture.feed_endpoint is empty", ErrInvalidConfig)
	case c.Capture.RowTestID == "":
		return fmt.Errorf("%w: capture.row_test_id is empty", ErrInvalidConfig)
	case c.Capture.SongBaseURL == "":
		return fmt.Errorf("%w: capture.song_base_url is empty", ErrInvalidConfig)
	case !slices.Contains(ExportFormats, c.Export.Format):
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Export.Format)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
