package config

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	XDGName = "notepad"

	// DefaultPath is where the config is looked up when no --config is given.
	DefaultPath = "~/.notepad.yaml"
)

var (
	// Default is the default configuration that is used, along with ~/.notepad.yaml
	Default = Config{
		AutosaveInterval: 5 * time.Minute,
		TrimOnSave:       true,
		DefaultExtension: ".txt",
		DateTimeFormat:   "2006-01-02 15:04:05",
		TabWidth:         4,
		OpenPatterns:     []string{"*.txt", "*.md", "*.markdown", "*.log", "*.yaml", "*.json"},
		Search: Search{
			URLPrefix: "https://www.bing.com/search?q=",
		},
		Theme: Theme{
			Background:     "#2E2E2E",
			Foreground:     "#D3D3D3",
			TextBackground: "#333333",
			TextForeground: "#FFFFFF",
			Highlight:      "#FFFF00",
			Selection:      "#5F87AF",
		},
	}
)

type Config struct {
	AutosaveInterval time.Duration `yaml:"autosaveInterval" validate:"min=0"`
	TrimOnSave       bool          `yaml:"trimOnSave" validate:""`
	DefaultExtension string        `yaml:"defaultExtension" validate:"omitempty,min=2"`
	DateTimeFormat   string        `yaml:"dateTimeFormat" validate:"required"`
	TabWidth         int           `yaml:"tabWidth" validate:"min=1,max=16"`
	OpenPatterns     []string      `yaml:"openPatterns" validate:"unique"`
	Search           Search        `yaml:"search" validate:"required"`
	Theme            Theme         `yaml:"theme" validate:"required"`
}

// Search configures "search selection on the web".
type Search struct {
	URLPrefix string `yaml:"urlPrefix" validate:"required,url"`
	// RawQuery disables percent encoding of the selected text.
	RawQuery bool `yaml:"rawQuery" validate:""`
}

// Theme colors, as #RRGGBB.
type Theme struct {
	Background     string `yaml:"background" validate:"required,hexcolor"`
	Foreground     string `yaml:"foreground" validate:"required,hexcolor"`
	TextBackground string `yaml:"textBackground" validate:"required,hexcolor"`
	TextForeground string `yaml:"textForeground" validate:"required,hexcolor"`
	Highlight      string `yaml:"highlight" validate:"required,hexcolor"`
	Selection      string `yaml:"selection" validate:"required,hexcolor"`
}

func NewFromReader(r io.Reader) (*Config, error) {
	c := Default
	c.OpenPatterns = append([]string(nil), Default.OpenPatterns...)

	bytes, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read Config: %w", err)
	}
	err = yaml.Unmarshal(bytes, &c)
	if err != nil {
		return nil, fmt.Errorf("unable to unmarshal Config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(*c)
	if err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	if c.DefaultExtension != "" && !strings.HasPrefix(c.DefaultExtension, ".") {
		return fmt.Errorf("config validation error: defaultExtension %q must start with a dot", c.DefaultExtension)
	}
	return nil
}

// Load reads the config at path. A missing file at the default location
// falls back to $XDG_CONFIG_HOME/notepad/config.yaml and then to Default;
// a missing file that was asked for explicitly is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(expandedPath)
	if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
		xdgPath, xerr := xdg.SearchConfigFile(XDGName + "/config.yaml")
		if xerr != nil {
			c := Default
			return &c, nil
		}
		f, err = os.Open(xdgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}
	defer f.Close()

	cfg, err := NewFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration %s: %w", path, err)
	}
	return cfg, nil
}
