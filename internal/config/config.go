// Package config fills the flat CLI options struct from a TOML file and the
// environment, and watches the file for logging changes at runtime.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/lichtwerk/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every `env` tag when reading the environment.
const EnvPrefix = "LICHTWERK_"

// binding ties one options field to its flag, TOML path and env key.
type binding struct {
	field reflect.Value
	flag  string
	toml  string
	env   string
}

func bindOptions(opts any) (bindings []binding, configPath string, err error) {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return nil, "", fmt.Errorf("options must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	for i := range t.NumField() {
		sf := t.Field(i)
		if sf.Name == "Config" && sf.Type.Kind() == reflect.String {
			configPath = v.Field(i).String()
			continue
		}
		if !v.Field(i).CanSet() {
			continue
		}
		bindings = append(bindings, binding{
			field: v.Field(i),
			flag:  fieldNameToFlag(sf.Name),
			toml:  sf.Tag.Get("toml"),
			env:   sf.Tag.Get("env"),
		})
	}
	return bindings, configPath, nil
}

// LoadConfig applies the config file and then the environment to opts, a
// pointer to a struct with `toml:"section.key"` and `env:"KEY"` tags.
// Fields whose flag was set on cmd's command line are left alone, giving
// CLI > env > file > defaults. A missing file is not an error; an
// unparsable file or a value of the wrong type is.
func LoadConfig(opts any, cmd *cobra.Command) error {
	bindings, configPath, err := bindOptions(opts)
	if err != nil {
		return err
	}

	changed := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changed[f.Name] = true
			}
		})
	}

	file, err := readTOML(configPath)
	if err != nil {
		return err
	}

	var errs []error
	for _, b := range bindings {
		if changed[b.flag] {
			continue
		}
		if b.toml != "" && file != nil {
			if value := getNestedValue(file, b.toml); value != nil {
				if err := setFieldValue(b.field, value); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", b.toml, err))
				}
			}
		}
		if b.env != "" {
			if value := os.Getenv(EnvPrefix + b.env); value != "" {
				if err := setFieldValueFromString(b.field, value); err != nil {
					errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, b.env, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func readTOML(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config %s: %w", path, err)
	}
	return out, nil
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "LoggingLevel" -> "logging-level", "StripLEDCount" -> "strip-led-count".
func fieldNameToFlag(fieldName string) string {
	runes := []rune(fieldName)
	var result []rune
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				result = append(result, '-')
			}
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	section, key, nested := strings.Cut(path, ".")
	if !nested {
		return data[path]
	}
	next, ok := data[section].(map[string]any)
	if !ok {
		return nil
	}
	return getNestedValue(next, key)
}

// setFieldValue stores a decoded TOML value into field.
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", value)
		}
		field.SetString(s)
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected a boolean, got %T", value)
		}
		field.SetBool(b)
	case reflect.Int:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("expected an integer, got %v", n)
			}
			field.SetInt(int64(n))
		default:
			return fmt.Errorf("expected an integer, got %T", value)
		}
	case reflect.Slice:
		arr, ok := value.([]any)
		if !ok || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("expected a list of strings, got %T", value)
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected a list of strings, found %T", item)
			}
			out = append(out, s)
		}
		field.Set(reflect.ValueOf(out))
	default:
		return fmt.Errorf("unsupported option type %s", field.Type())
	}
	return nil
}

// setFieldValueFromString parses an environment value into field. Lists
// are comma separated.
func setFieldValueFromString(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported option type %s", field.Type())
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported option type %s", field.Type())
	}
	return nil
}

// LoadLogging reads the [logging] table of a TOML config file. Keys other
// than level and format are per-module levels. A missing file yields the
// defaults; a malformed file is an error.
func LoadLogging(configPath string) (logging.Config, error) {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	file, err := readTOML(configPath)
	if err != nil || file == nil {
		return cfg, err
	}

	section, _ := file["logging"].(map[string]any)
	for key, raw := range section {
		value, ok := raw.(string)
		if !ok {
			continue
		}
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}
	return cfg, nil
}
