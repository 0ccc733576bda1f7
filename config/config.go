package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug              = "debug"
	ConfigLetterDistribution = "letter-distribution"
	ConfigDistributionPath   = "distribution-path"
	ConfigDealSize           = "deal-size"
	ConfigDumpDraw           = "dump-draw"
	ConfigGridRows           = "grid-rows"
	ConfigGridCols           = "grid-cols"
	ConfigGridMax            = "grid-max"
	ConfigSeed               = "seed"
	ConfigCPUProfile         = "cpu-profile"
)

// Config wraps a viper instance. Values come from (in order of precedence)
// command-line flags, ENNEAGRAMS_* environment variables, a config.yaml
// file in the user config directory, and finally the defaults below.
type Config struct {
	*viper.Viper
	rest []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigLetterDistribution, "english")
	v.SetDefault(ConfigDistributionPath, "./data/distributions")
	v.SetDefault(ConfigDealSize, 21)
	v.SetDefault(ConfigDumpDraw, 3)
	v.SetDefault(ConfigGridRows, 10)
	v.SetDefault(ConfigGridCols, 10)
	v.SetDefault(ConfigGridMax, 144)
	v.SetDefault(ConfigSeed, "")
	v.SetDefault(ConfigCPUProfile, "")
}

// DefaultConfig returns a config holding only the defaults. It never reads
// the environment or the filesystem, so it is what tests should use.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

// Load reads flags from args, then the environment, then the config file.
// Arguments that are not flags are kept and can be retrieved with Rest.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("enneagrams", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "turn on debug logging")
	fs.String(ConfigLetterDistribution, "english", "the letter distribution to play with")
	fs.String(ConfigDistributionPath, "./data/distributions", "directory holding letter distribution yaml files")
	fs.Int(ConfigDealSize, 21, "number of tiles dealt at the start of a game")
	fs.Int(ConfigDumpDraw, 3, "number of tiles drawn when dumping a tile")
	fs.Int(ConfigGridRows, 10, "initial number of grid rows")
	fs.Int(ConfigGridCols, 10, "initial number of grid columns")
	fs.Int(ConfigGridMax, 144, "maximum number of rows or columns")
	fs.String(ConfigSeed, "", "seed for a reproducible tile order")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	c.rest = fs.Args()

	c.SetEnvPrefix("enneagrams")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	cfgdir, err := os.UserConfigDir()
	if err == nil {
		c.AddConfigPath(filepath.Join(cfgdir, "enneagrams"))
	}
	c.SetConfigName("config")
	c.SetConfigType("yaml")
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Rest returns the positional arguments left over after flag parsing.
func (c *Config) Rest() []string {
	return c.rest
}

// AdjustRelativePaths makes the distribution path absolute relative to
// basepath, unless it is already absolute.
func (c *Config) AdjustRelativePaths(basepath string) {
	p := c.GetString(ConfigDistributionPath)
	if p == "" || filepath.IsAbs(p) {
		return
	}
	c.Set(ConfigDistributionPath, filepath.Join(basepath, p))
}

// SanitizedSettings returns the settings suitable for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
