package config

import (
	"os"
	"strings"

	"devdash/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval     = 5
	DefaultPingInterval = 10
	DefaultTimeout      = 5
	DefaultLogLevel     = "info"
	DefaultLogFile      = "devdash.log"
	DefaultHistoryDB    = "devdash-history.db"
	defaultConfigName   = "devdash"
)

// Config holds every runtime setting. Values come from the TOML config
// file, overridden by command line flags.
type Config struct {
	DeviceURL    string `mapstructure:"device_url"`
	Interval     int    `mapstructure:"interval"`
	PingInterval int    `mapstructure:"ping_interval"`
	Timeout      int    `mapstructure:"timeout"`
	LogLevel     string `mapstructure:"log_level"`
	LogFile      string `mapstructure:"log_file"`
	History      bool   `mapstructure:"history"`
	HistoryDB    string `mapstructure:"history_db"`
	NoUI         bool   `mapstructure:"no_ui"`
}

func validLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

// Load reads configuration from file and flags. The DEVDASH_CONFIG
// environment variable points at an explicit config file; otherwise
// /etc and the working directory are searched.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

// IsHelp reports whether Load failed only because --help was requested.
func IsHelp(err error) bool {
	return errors.Is(err, pflag.ErrHelp)
}

func load(args []string) (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("ping_interval", DefaultPingInterval)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("history", false)
	v.SetDefault("history_db", DefaultHistoryDB)
	v.SetDefault("no_ui", false)

	flags := pflag.NewFlagSet("devdash", pflag.ContinueOnError)
	flags.String("device-url", "", "Base URL of the device, e.g. http://192.168.7.2:5000")
	flags.Int("interval", DefaultInterval, "Status poll interval in seconds")
	flags.Int("ping-interval", DefaultPingInterval, "Internet reachability poll interval in seconds")
	flags.Int("timeout", DefaultTimeout, "Per-request timeout in seconds")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-file", DefaultLogFile, "Log file path (the UI owns the terminal)")
	flags.Bool("history", false, "Record received snapshots to a local database")
	flags.String("history-db", DefaultHistoryDB, "Path of the snapshot history database")
	flags.Bool("no-ui", false, "Headless mode: log snapshots instead of drawing the dashboard")
	if err := flags.Parse(args); err != nil {
		// pflag prints the usage text itself; --help is not a failure.
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if path := os.Getenv("DEVDASH_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Flags beat the config file, but only when actually set.
	flags.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		v.Set(key, f.Value.String())
	})

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.DeviceURL == "" {
		return errFactory.New(errors.ErrMissingDevice)
	}
	if c.Interval <= 0 || c.PingInterval <= 0 || c.Timeout <= 0 {
		return errFactory.New(errors.ErrInvalidInterval)
	}
	if !validLogLevel(c.LogLevel) {
		return errFactory.New(errors.ErrInvalidLogLevel)
	}
	if c.History && c.HistoryDB == "" {
		return errFactory.New(errors.ErrInvalidConfig)
	}

	return nil
}
