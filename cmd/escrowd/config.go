package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// Config is the content of the escrowd configuration file.
type Config struct {
	// DBDir is the directory of the application database.
	DBDir string `toml:"db_dir"`
	// ChainID if set must match the chain id of the database.
	ChainID  string `toml:"chain_id"`
	LogLevel string `toml:"log_level"`
	// LogFile if set receives the logs instead of stderr. The file is
	// rotated.
	LogFile string `toml:"log_file"`
	// Debug exposes full error information in transaction results.
	Debug bool `toml:"debug"`
}

func defaultConfig() Config {
	return Config{
		DBDir:    filepath.Join(os.ExpandEnv("$HOME"), ".escrowd", "data"),
		LogLevel: "info",
	}
}

// LoadConfig reads the configuration file at given path. Missing values are
// set to their defaults. A missing file results in the default
// configuration.
func LoadConfig(path string) (*Config, error) {
	conf := defaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &conf, nil
	}
	meta, err := toml.DecodeFile(path, &conf)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode %s: %s", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return nil, errors.Wrapf(errors.ErrInput, "unknown configuration key %q", undecoded[0].String())
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	var errs error
	if c.DBDir == "" {
		errs = errors.AppendField(errs, "db_dir", errors.ErrEmpty)
	}
	if c.ChainID != "" && !loom.IsValidChainID(c.ChainID) {
		errs = errors.Append(errs, errors.Field("chain_id", errors.ErrInput, "invalid chain id %q", c.ChainID))
	}
	switch c.LogLevel {
	case "debug", "info", "error", "none":
	default:
		errs = errors.Append(errs, errors.Field("log_level", errors.ErrInput, "unknown level %q", c.LogLevel))
	}
	return errs
}

// configFlags registers the flags common to all commands using the
// application state.
type configFlags struct {
	path     *string
	dbDir    *string
	logLevel *string
	debug    *bool
}

func flConfig(fl *flag.FlagSet) *configFlags {
	return &configFlags{
		path: fl.String("config", env("ESCROWD_CONFIG", filepath.Join(os.ExpandEnv("$HOME"), ".escrowd", "config.toml")),
			"Path to the configuration file. You can use ESCROWD_CONFIG environment variable to set it."),
		dbDir:    fl.String("db", "", "Database directory. Overrides the configuration file."),
		logLevel: fl.String("log-level", "", "Log level (debug, info, error, none). Overrides the configuration file."),
		debug:    fl.Bool("debug", false, "Return full error information in transaction results."),
	}
}

// Load returns the configuration file content with flag overrides applied.
func (f *configFlags) Load() (*Config, error) {
	conf, err := LoadConfig(*f.path)
	if err != nil {
		return nil, err
	}
	if *f.dbDir != "" {
		conf.DBDir = *f.dbDir
	}
	if *f.logLevel != "" {
		conf.LogLevel = *f.logLevel
	}
	if *f.debug {
		conf.Debug = true
	}
	return conf, conf.Validate()
}
