package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 384, cfg.Crop.Start)
	assert.Equal(t, 100, cfg.Crop.Min)
	assert.Equal(t, 512, cfg.Viewer.PyramidThreshold)
	assert.Equal(t, "US", cfg.Output.NameMarker)
	assert.True(t, cfg.Display.ShowOverlay)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbcrop.yaml")
	data := "crop:\n  start_dim: 256\ndisplay:\n  contrast: 1.5\noutput:\n  name_marker: MR\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Crop.Start)
	assert.Equal(t, 100, cfg.Crop.Min)
	assert.Equal(t, 1.5, cfg.Display.Contrast)
	assert.Equal(t, "MR", cfg.Output.NameMarker)
	assert.Equal(t, "-", cfg.Output.NameSuffix)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vbcrop.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"viewer":{"min_size":64}}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Viewer.MinSize)
	assert.Equal(t, 1.1, cfg.Viewer.ZoomFactor)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"c.yaml", "c.json"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		cfg := Default()
		cfg.Output.Quality = 80
		cfg.Crop.Step = 4

		require.NoError(t, cfg.Save(path))
		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, got, name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zoom factor", func(c *Config) { c.Viewer.ZoomFactor = 1 }},
		{"min size", func(c *Config) { c.Viewer.MinSize = 0 }},
		{"threshold", func(c *Config) { c.Viewer.PyramidThreshold = 0 }},
		{"reduction", func(c *Config) { c.Viewer.Reduction = 1 }},
		{"contrast", func(c *Config) { c.Display.Contrast = -1 }},
		{"crop", func(c *Config) { c.Crop.Min = 500 }},
		{"formats", func(c *Config) { c.Input.SupportedFormats = nil }},
		{"output format", func(c *Config) { c.Output.Format = "gif" }},
		{"quality", func(c *Config) { c.Output.Quality = 101 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestViewportOptions(t *testing.T) {
	cfg := Default()
	cfg.Viewer.Reduction = 3

	opts := cfg.ViewportOptions()
	assert.Equal(t, 3, opts.Pyramid.Reduction)
	assert.Equal(t, 30, opts.MinSize)
	assert.Equal(t, "jpg", cfg.OutputOptions().Format)
}
