package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var configFilePath = flag.String("config_file", "", "Path to the YAML configuration file.")

// loadConfigFile parses the YAML file at `path` and applies it to the flags.
func loadConfigFile(path string) error {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	conf := new(Config)
	if err := yaml.Unmarshal(configBytes, conf); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := setConfigFlags(conf); err != nil {
		return fmt.Errorf("failed to set flags from config file: %w", err)
	}
	return nil
}

// InitFlags parses the command line flags and then overlays the config file given by -config_file.
// It should be called after defining all flags and before using them. Failing to load the config file is logged and
// the flag values are kept as they are.
func InitFlags() {
	flag.Parse()

	if *configFilePath == "" {
		slog.Debug("Config file not specified. Skipping config initialization.")
		return
	}
	if err := loadConfigFile(*configFilePath); errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config file does not exist.", "path", *configFilePath, "error", err)
	} else if err != nil {
		slog.Error("Failed to load config file.", "path", *configFilePath, "error", err)
	}
}

// SetTestFlag sets a flag to a specific value for the duration of the test.
func SetTestFlag(t *testing.T, name, value string) {
	t.Helper()
	flagHolder := flag.Lookup(name)
	require.NotNil(t, flagHolder, "Flag %s not found", name)
	if flagHolder != nil { // Revert the flag value back to its original when the test is done.
		prevValue := flagHolder.Value.String()
		t.Cleanup(func() { require.NoError(t, flag.Set(name, prevValue)) })
	}
	require.NoError(t, flag.Set(name, value))
}
