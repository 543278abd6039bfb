package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/deckforge/pkg/adapters/fs"
	"github.com/aretw0/deckforge/pkg/core"
)

// ConfigFileNames are the project files looked up in a lesson directory, in order.
var ConfigFileNames = []string{"deckforge.yaml", "deckforge.yml", "deckforge.toml"}

// Log formats accepted by the log_format setting.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultOutputDir is the output directory, relative to the lesson directory.
const DefaultOutputDir = "output"

// Config is the optional project file of a lesson directory.
// Zero values mean "not set".
type Config struct {
	Name      string `yaml:"name" toml:"name" validate:"omitempty,max=200"`
	Way       string `yaml:"way" toml:"way" validate:"omitempty,variant"`
	Pattern   string `yaml:"pattern" toml:"pattern" validate:"omitempty,glob"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
	Normalize *bool  `yaml:"normalize" toml:"normalize"`
	LogFile   *bool  `yaml:"log_file" toml:"log_file"`
	LogFormat string `yaml:"log_format" toml:"log_format" validate:"omitempty,oneof=auto text json"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("variant", func(fl validator.FieldLevel) bool {
		_, err := core.ParseVariant(fl.Field().String())
		return err == nil
	})
	_ = configValidate.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
}

// Validate checks field values.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: invalid value %q (%s)", strings.ToLower(fe.Field()), fmt.Sprint(fe.Value()), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Merge returns c with every field set in override replacing its own.
func (c Config) Merge(override Config) Config {
	if override.Name != "" {
		c.Name = override.Name
	}
	if override.Way != "" {
		c.Way = override.Way
	}
	if override.Pattern != "" {
		c.Pattern = override.Pattern
	}
	if override.OutputDir != "" {
		c.OutputDir = override.OutputDir
	}
	if override.Normalize != nil {
		c.Normalize = override.Normalize
	}
	if override.LogFile != nil {
		c.LogFile = override.LogFile
	}
	if override.LogFormat != "" {
		c.LogFormat = override.LogFormat
	}
	return c
}

// LoadConfig reads the first project file found in dir.
// It returns an empty Config and an empty path when there is none.
func LoadConfig(dir string) (Config, string, error) {
	var cfg Config
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		file, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, "", fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		switch filepath.Ext(name) {
		case ".toml":
			dec := toml.NewDecoder(file)
			dec.DisallowUnknownFields()
			err = dec.Decode(&cfg)
		default:
			dec := yaml.NewDecoder(file)
			dec.KnownFields(true)
			err = dec.Decode(&cfg)
			if errors.Is(err, io.EOF) {
				err = nil
			}
		}
		if err != nil {
			return cfg, path, fmt.Errorf("parse config %s: %w", name, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, path, fmt.Errorf("%s: %w", name, err)
		}
		return cfg, path, nil
	}
	return cfg, "", nil
}

// Settings is a fully resolved build configuration.
type Settings struct {
	Root      string       `json:"root"`
	Header    string       `json:"header"`
	Variant   core.Variant `json:"-"`
	Way       string       `json:"way"`
	Pattern   string       `json:"pattern"`
	OutputDir string       `json:"output_dir"`
	Normalize bool         `json:"normalize"`
	LogFile   bool         `json:"log_file"`
	LogFormat string       `json:"log_format"`
}

// Resolve fills defaults for root and validates the result.
func (c Config) Resolve(root string) (Settings, error) {
	if err := c.Validate(); err != nil {
		return Settings{}, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Settings{}, err
	}

	variant, err := core.ParseVariant(c.Way)
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		Root:      abs,
		Header:    strings.TrimSpace(c.Name),
		Variant:   variant,
		Way:       variant.String(),
		Pattern:   c.Pattern,
		OutputDir: c.OutputDir,
		Normalize: true,
		LogFile:   true,
		LogFormat: c.LogFormat,
	}
	if s.Header == "" {
		s.Header = DefaultHeader(abs)
	}
	if s.Pattern == "" {
		s.Pattern = fs.DefaultPattern
	}
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if !filepath.IsAbs(s.OutputDir) {
		s.OutputDir = filepath.Join(abs, s.OutputDir)
	}
	if c.Normalize != nil {
		s.Normalize = *c.Normalize
	}
	if c.LogFile != nil {
		s.LogFile = *c.LogFile
	}
	if s.LogFormat == "" {
		s.LogFormat = LogFormatAuto
	}
	return s, nil
}

// Options translates settings into service options. The output directory is
// excluded from lesson discovery when it lives under the root.
func (s Settings) Options() []Option {
	opts := []Option{
		WithPattern(s.Pattern),
		WithNormalization(s.Normalize),
	}
	if rel, err := filepath.Rel(s.Root, s.OutputDir); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		opts = append(opts, WithExclude(filepath.ToSlash(rel)))
	}
	return opts
}
