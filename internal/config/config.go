// Package config loads the server settings from a YAML file, filling in
// defaults for anything unspecified.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/overlaykit/text-overlay-mcp/internal/overlay"
)

// Engine selection values.
const (
	EngineCommand = "command" // external tesseract binary
	EngineLibrary = "library" // linked libtesseract
)

// Config is the full runtime configuration.
type Config struct {
	// Engine selects how Tesseract is invoked, EngineCommand or
	// EngineLibrary.
	Engine string `yaml:"engine"`

	// TesseractPath overrides the binary looked up on PATH. Only used
	// with EngineCommand.
	TesseractPath string `yaml:"tesseract_path"`

	// Languages is the default language list for recognition, in
	// Tesseract's "+"-joined form.
	Languages string `yaml:"languages"`

	// Workers bounds concurrent extractions in batch requests. Zero means
	// one per CPU.
	Workers int `yaml:"workers"`

	// MaxShift bounds how far placement may move a box, in pixels. Zero
	// leaves the resolver effectively unbounded.
	MaxShift float64 `yaml:"max_shift"`

	// FontPath points at a TrueType or OpenType file used to measure
	// overlay text. Empty falls back to a width heuristic.
	FontPath string `yaml:"font_path"`

	// Style holds the overlay rendering colors and font settings.
	Style overlay.Style `yaml:"style"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine:    EngineCommand,
		Languages: "eng",
		Style:     overlay.DefaultStyle(),
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys are
// rejected so typos surface instead of silently falling back.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Engine {
	case EngineCommand, EngineLibrary:
	default:
		return fmt.Errorf("unknown engine %q, want %q or %q", c.Engine, EngineCommand, EngineLibrary)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Languages == "" {
		return fmt.Errorf("languages must not be empty")
	}
	return nil
}
