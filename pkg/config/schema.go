// kvcache uses flags and a single optional config file for configuration.
// The config file is YAML; every leaf of the Config struct names the command line flag it sets through a `flag` tag.

package config

import (
	"flag"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Config is the schema of the YAML config file. Leaves are pointers so unset entries keep the flag defaults.
type Config struct {
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

type CacheConfig struct {
	Policy     *string `yaml:"policy" flag:"policy"`
	Capacity   *int    `yaml:"capacity" flag:"capacity"`
	ShardCount *int    `yaml:"shard_count" flag:"shard_count"`
}

type LogConfig struct {
	HandlerType *string `yaml:"handler_type" flag:"log_handler_type"`
	Level       *string `yaml:"level" flag:"log_level"`
}

// skippedConfigFlags is the list of command line flags that are not expected in the config file.
var skippedConfigFlags = []string{"print_version", "config_file"}

// collectFlags walks the config value and puts every set leaf into `flags` as flagName -> flagValue.
func collectFlags(flags map[ /*flagName*/ string] /*flagValue*/ string, v reflect.Value) error {
	t := v.Type()
	for fieldIdx := range t.NumField() {
		field, fieldValue := t.Field(fieldIdx), v.Field(fieldIdx)
		flagName, hasFlagName := field.Tag.Lookup("flag")
		// Recurse into nested sections that do not carry a flag name themselves.
		if field.Type.Kind() == reflect.Struct && !hasFlagName {
			if err := collectFlags(flags, fieldValue); err != nil {
				return err
			}
			continue
		}
		if !hasFlagName || flagName == "" {
			return fmt.Errorf("config field %s.%s has no flag name", t.Name(), field.Name)
		}
		if fieldValue.Kind() != reflect.Pointer {
			return fmt.Errorf("config field %s.%s must be a pointer", t.Name(), field.Name)
		}
		if fieldValue.IsNil() { // Not set in the config file.
			continue
		}
		if _, alreadyExists := flags[flagName]; alreadyExists {
			return fmt.Errorf("flag '%s' has multiple entries in config: '%s.%s'", flagName, t.Name(), field.Name)
		}
		flags[flagName] = fmt.Sprint(fieldValue.Elem().Interface())
	}
	return nil
}

// setConfigFlags sets all the filled entries of `conf` to the global flag variables.
func setConfigFlags(conf *Config) error {
	configuredFlags := make(map[ /*flagName*/ string] /*flagValue*/ string)
	if err := collectFlags(configuredFlags, reflect.ValueOf(conf).Elem()); err != nil {
		return fmt.Errorf("failed to collect flags: %w", err)
	}
	for flagName, flagValue := range configuredFlags {
		if setErr := flag.Set(flagName, flagValue); setErr != nil {
			return fmt.Errorf("failed to set flag %s: %w", flagName, setErr)
		}
	}
	return nil
}

// getDefinedFlags returns the set of flag names the config schema knows about.
func getDefinedFlags(t reflect.Type) (map[ /*flagName*/ string]struct{}, error) {
	flagSet := make(map[ /*flagName*/ string]struct{})
	var walkFields func(t reflect.Type) error
	walkFields = func(t reflect.Type) error {
		for fieldIdx := range t.NumField() {
			field := t.Field(fieldIdx)
			if flagName, ok := field.Tag.Lookup("flag"); ok && flagName != "" {
				if _, exists := flagSet[flagName]; exists {
					return fmt.Errorf("duplicate flag name '%s' in config: %s.%s", flagName, t.Name(), field.Name)
				}
				flagSet[flagName] = struct{}{}
				continue
			}
			if field.Type.Kind() == reflect.Struct {
				if err := walkFields(field.Type); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walkFields(t); err != nil {
		return nil, err
	}
	return flagSet, nil
}

// CollectUnregisteredFlags collects all flags that haven't been registered in the config schema.
// An error exists in the results corresponding to each unregistered flag.
func CollectUnregisteredFlags() []error {
	definedFlags, err := getDefinedFlags(reflect.TypeFor[Config]())
	if err != nil {
		return []error{err}
	}
	errs := make([]error, 0)
	flag.VisitAll(func(f *flag.Flag) {
		if strings.HasPrefix(f.Name, "test.") { // Skip test flags.
			return
		}
		if slices.Contains(skippedConfigFlags, f.Name) {
			return
		}
		if _, flagHasConfigEntry := definedFlags[f.Name]; !flagHasConfigEntry {
			errs = append(errs, fmt.Errorf("flag '%s' has not been defined in the config schema", f.Name))
		}
	})
	return errs
}
