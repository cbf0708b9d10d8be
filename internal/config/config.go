package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/vbcrop/pkg/cropper"
	"github.com/menta2k/vbcrop/pkg/pyramid"
	"github.com/menta2k/vbcrop/pkg/types"
	"github.com/menta2k/vbcrop/pkg/viewport"
)

// Config holds the application configuration
type Config struct {
	Viewer  ViewerConfig             `json:"viewer" yaml:"viewer"`
	Display viewport.DisplaySettings `json:"display" yaml:"display"`
	Crop    cropper.Sizing           `json:"crop" yaml:"crop"`
	Input   InputConfig              `json:"input" yaml:"input"`
	Output  OutputConfig             `json:"output" yaml:"output"`
}

// ViewerConfig holds zoom and pyramid parameters
type ViewerConfig struct {
	ZoomFactor       float64 `json:"zoom_factor" yaml:"zoom_factor"`
	MinSize          int     `json:"min_size" yaml:"min_size"`
	PyramidThreshold int     `json:"pyramid_threshold" yaml:"pyramid_threshold"`
	Reduction        int     `json:"reduction" yaml:"reduction"`
}

// InputConfig holds configuration for opening images
type InputConfig struct {
	SupportedFormats []string `json:"supported_formats" yaml:"supported_formats"`
}

// OutputConfig holds configuration for saving crops
type OutputConfig struct {
	Format   string `json:"format" yaml:"format"`
	Quality  int    `json:"quality" yaml:"quality"`
	Lossless bool   `json:"lossless" yaml:"lossless"`
	// NameMarker locates the part of the opened file name used for the
	// suggested save name, e.g. "US" in "L4_US0042.png".
	NameMarker string `json:"name_marker" yaml:"name_marker"`
	NameSuffix string `json:"name_suffix" yaml:"name_suffix"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			ZoomFactor:       viewport.DefaultZoomFactor,
			MinSize:          viewport.DefaultMinSize,
			PyramidThreshold: pyramid.DefaultThreshold,
			Reduction:        pyramid.DefaultReduction,
		},
		Display: viewport.DefaultDisplay(),
		Crop:    cropper.DefaultSizing(),
		Input: InputConfig{
			SupportedFormats: []string{"jpg", "jpeg", "png"},
		},
		Output: OutputConfig{
			Format:     "jpg",
			Quality:    95,
			Lossless:   false,
			NameMarker: "US",
			NameSuffix: "-",
			OutputDir:  ".",
		},
	}
}

// ViewportOptions converts the viewer section to controller options
func (c *Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		ZoomFactor: c.Viewer.ZoomFactor,
		MinSize:    c.Viewer.MinSize,
		Pyramid: pyramid.Options{
			Threshold: c.Viewer.PyramidThreshold,
			Reduction: c.Viewer.Reduction,
		},
	}
}

// OutputOptions converts the output section to save options
func (c *Config) OutputOptions() types.OutputOptions {
	return types.OutputOptions{
		Format:   c.Output.Format,
		Quality:  c.Output.Quality,
		Lossless: c.Output.Lossless,
	}
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// Load loads configuration from a JSON or YAML file. Values missing from the
// file keep their defaults. A missing file yields the default configuration.
func Load(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save writes configuration to a JSON or YAML file, chosen by extension
func (c *Config) Save(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Viewer.ZoomFactor <= 1 {
		return fmt.Errorf("viewer.zoom_factor must be greater than 1")
	}

	if c.Viewer.MinSize < 1 {
		return fmt.Errorf("viewer.min_size must be positive")
	}

	if c.Viewer.PyramidThreshold < 1 {
		return fmt.Errorf("viewer.pyramid_threshold must be positive")
	}

	if c.Viewer.Reduction < 2 {
		return fmt.Errorf("viewer.reduction must be at least 2")
	}

	if c.Display.Contrast < 0 {
		return fmt.Errorf("display.contrast must not be negative")
	}

	if err := c.Crop.Validate(); err != nil {
		return fmt.Errorf("crop: %w", err)
	}

	if len(c.Input.SupportedFormats) == 0 {
		return fmt.Errorf("input.supported_formats cannot be empty")
	}

	switch strings.ToLower(c.Output.Format) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.format %q is not one of jpg, png, webp", c.Output.Format)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./vbcrop.yaml"
	}
	return filepath.Join(home, ".config", "vbcrop", "config.yaml")
}
