package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// DefaultMaxLineBytes bounds the size of a single input line.
const DefaultMaxLineBytes = 16 * 1024 * 1024

// Tablog is the optional tablog.yaml configuration. Every key can also be
// set through a TABLOG_<KEY> environment variable. Command line flags win
// over both.
type Tablog struct {
	Severity       []string
	Type           []string
	Strict         bool
	Raw            bool
	Color          string
	Where          string
	Max_line_bytes int
}

// ConfInit loads configName from the standard locations, or explicitPath
// when it is set, into config. A missing file in the standard locations is
// not an error; a missing explicit file is.
func ConfInit(configName string, explicitPath string, config interface{}) error {
	v := viper.New()

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath("/etc/mono")
		v.AddConfigPath(filepath.Join(userConfigDir(), configName))
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TABLOG")
	v.AutomaticEnv()

	v.SetDefault("severity", []string{})
	v.SetDefault("type", []string{})
	v.SetDefault("strict", false)
	v.SetDefault("raw", false)
	v.SetDefault("color", ColorAuto)
	v.SetDefault("where", "")
	v.SetDefault("max_line_bytes", DefaultMaxLineBytes)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitPath != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug().
			Str("component", "config").
			Str("name", configName).
			Msg("No config file found, using defaults")
	} else {
		log.Debug().
			Str("component", "config").
			Str("file", v.ConfigFileUsed()).
			Msg("Loaded config file")
	}

	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config file: %w", err)
	}
	return nil
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}
