// Package config loads certgen.yml and applies environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/certgen/internal/ingest"
	"github.com/abhisek/certgen/internal/llm"
	"github.com/abhisek/certgen/internal/logging"
	"github.com/abhisek/certgen/internal/pipeline"
	"github.com/abhisek/certgen/internal/retrieval"
	"github.com/abhisek/certgen/internal/stage"
)

// DefaultPath is read when neither --config nor CERTGEN_CONFIG is set.
// It may be absent.
const DefaultPath = "certgen.yml"

// Config is the full application configuration.
type Config struct {
	// DB is the SQLite path. The --db flag and CERTGEN_DB take precedence.
	DB string `yaml:"db"`

	LLM       llm.Config        `yaml:"llm"`
	Stages    stage.Config      `yaml:"stages"`
	Pipeline  pipeline.Config   `yaml:"pipeline"`
	Retrieval retrieval.Options `yaml:"retrieval"`
	Ingest    ingest.Chunker    `yaml:"ingest"`
	Log       logging.Config    `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LLM:       llm.DefaultConfig(),
		Stages:    stage.DefaultConfig(),
		Pipeline:  pipeline.DefaultConfig(),
		Retrieval: retrieval.Options{Threshold: retrieval.DefaultThreshold},
		Ingest:    ingest.NewChunker(),
		Log:       logging.Config{Level: "info", Format: "console"},
	}
}

// Load reads the configuration file at path, then CERTGEN_CONFIG, then
// DefaultPath, and applies environment overrides. An explicitly named
// file must exist; a missing default file yields the defaults.
func Load(path string) (Config, error) {
	explicit := true
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CERTGEN_CONFIG"))
	}
	if path == "" {
		path, explicit = DefaultPath, false
	}

	cfg := Default()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %q: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg.LLM.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// decode overlays YAML onto cfg, rejecting unknown keys.
func decode(content []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if err := c.Ingest.Validate(); err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must be >= 0, got %d", c.Pipeline.Workers)
	}
	if c.Pipeline.Retry.MaxAttempts < 0 {
		return fmt.Errorf("pipeline.retry.max_attempts must be >= 0, got %d", c.Pipeline.Retry.MaxAttempts)
	}
	if c.Retrieval.Threshold < 0 || c.Retrieval.Threshold >= 1 {
		return fmt.Errorf("retrieval.threshold must be in [0, 1), got %v", c.Retrieval.Threshold)
	}
	if c.Stages.Timeout < 0 {
		return fmt.Errorf("stages.timeout must be >= 0, got %v", c.Stages.Timeout)
	}
	return nil
}

// ResolveLLM returns the LLM settings with a usable provider. When the
// configured provider lacks a key, standard API key variables such as
// ANTHROPIC_API_KEY are tried before giving up.
func (c Config) ResolveLLM() (llm.Config, error) {
	cfg := c.LLM
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	if !cfg.Discover() {
		return llm.Config{}, err
	}
	return cfg, cfg.Validate()
}
