// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baditaflorin/go_nlg_eval/internal/core/bleu"
	"github.com/baditaflorin/go_nlg_eval/internal/core/meteor"
	"github.com/baditaflorin/go_nlg_eval/internal/core/ter"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Defaults shared by the CLI and the config file.
const (
	DefaultNumRefs = 4
	DefaultMetrics = "bleu,meteor,ter"
	DefaultFormat  = "table"
)

// ErrInvalidConfig wraps schema violations.
var ErrInvalidConfig = errors.New("invalid configuration")

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Debug bool `yaml:"debug"`
	JSON  bool `yaml:"json"`
}

// Config is the evaluation configuration. Command-line flags override it.
type Config struct {
	NumRefs   int       `yaml:"num_refs"`
	Metrics   string    `yaml:"metrics"`
	Format    string    `yaml:"format"`
	ScorerURL string    `yaml:"scorer_url"`
	Synonyms  string    `yaml:"synonyms"`
	Log       LogConfig `yaml:"log"`
	// Options holds per-metric settings keyed by metric name.
	Options map[string]map[string]any `yaml:"options"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		NumRefs: DefaultNumRefs,
		Metrics: DefaultMetrics,
		Format:  DefaultFormat,
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the config schema and decodes it over the defaults.
func Parse(data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg := Default()
	if doc == nil {
		return cfg, nil
	}
	if errs := validate(doc); len(errs) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// BLEU returns the BLEU settings with file options applied over the defaults.
func (c Config) BLEU() (bleu.Config, error) {
	out := bleu.DefaultConfig()
	if err := c.decodeOptions(bleu.Name, &out); err != nil {
		return bleu.Config{}, err
	}
	return out, nil
}

// METEOR returns the METEOR settings with file options applied over the defaults.
func (c Config) METEOR() (meteor.Config, error) {
	out := meteor.DefaultConfig()
	if err := c.decodeOptions(meteor.Name, &out); err != nil {
		return meteor.Config{}, err
	}
	return out, nil
}

// TER returns the TER settings with file options applied over the defaults.
func (c Config) TER() (ter.Config, error) {
	out := ter.DefaultConfig()
	if err := c.decodeOptions(ter.Name, &out); err != nil {
		return ter.Config{}, err
	}
	return out, nil
}

func (c Config) decodeOptions(metric string, out any) error {
	params, ok := c.Options[metric]
	if !ok {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("decoding %s options: %w", metric, err)
	}
	return nil
}
