// Package config holds the settings that tune how a registry classifies
// and binds arguments. Settings can be loaded from a YAML file.
package config

import (
	"os"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is looked up by LoadDefault in the user's home directory.
	DefaultFileName = "~/.argot.yaml"
)

var errEmptySeparator = cerrors.New("separator must not be empty")

// Config stores the parser settings.
type Config struct {
	// separator splitting one value into container elements, default ","
	ListSeparator string `yaml:"listSeparator"`
	// separator between key and value for map destinations, default "="
	KeyValueSeparator string `yaml:"keyValueSeparator"`
	// accept unambiguous prefixes of long keys
	Abbreviations bool `yaml:"abbreviations"`
	// reject duplicate values on unique containers instead of dropping them
	StrictUnique bool `yaml:"strictUnique"`
	// keys reserved for the usage request, default "h,help"
	HelpKeys string `yaml:"helpKeys"`
	// keys reserved for the version request, default "version"
	VersionKeys string `yaml:"versionKeys"`
	// colourise usage and error output
	Color bool `yaml:"color"`
	// trace evaluation with a development logger
	Debug bool `yaml:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ListSeparator:     ",",
		KeyValueSeparator: "=",
		Abbreviations:     true,
		HelpKeys:          "h,help",
		VersionKeys:       "version",
		Color:             true,
	}
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, cerrors.Wrap(err, "failed to decode config")
	}
	return c, c.Validate()
}

// Load reads the config file at path. A leading "~" is expanded; a missing
// file yields the defaults.
func Load(path string) (Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Default(), cerrors.Wrapf(err, "failed to expand config path %s", path)
	}

	bs, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), cerrors.Wrapf(err, "failed to read config %s", expanded)
	}
	return Parse(bs)
}

// LoadDefault loads DefaultFileName.
func LoadDefault() (Config, error) {
	return Load(DefaultFileName)
}

// Validate checks that the separators are usable.
func (c Config) Validate() error {
	if c.ListSeparator == "" {
		return cerrors.Wrap(errEmptySeparator, "listSeparator")
	}
	if c.KeyValueSeparator == "" {
		return cerrors.Wrap(errEmptySeparator, "keyValueSeparator")
	}
	if c.ListSeparator == c.KeyValueSeparator {
		return cerrors.Newf("listSeparator and keyValueSeparator are both %q", c.ListSeparator)
	}
	if strings.ContainsAny(c.HelpKeys+c.VersionKeys, " \t") {
		return cerrors.New("reserved keys must not contain whitespace")
	}
	return nil
}

// Logger returns a development logger when Debug is set, a no-op one otherwise.
func (c Config) Logger() *zap.Logger {
	if !c.Debug {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
