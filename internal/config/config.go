package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smazurov/procnode/internal/logging"
)

// envPrefix namespaces every environment override.
const envPrefix = "PROCNODE_"

// LoadConfig fills opts from a TOML file and environment variables.
// Precedence is CLI flags > env vars > file > struct defaults: a field
// whose flag was explicitly set on the command line is never touched.
// Field mapping comes from struct tags, `toml:"section.key"` for the
// file and `env:"KEY"` for the environment (prefixed with PROCNODE_).
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()

	locked := changedFlagSet(cmd)

	if err := applyFile(v, locked); err != nil {
		return err
	}
	applyEnv(v, locked)
	return nil
}

// changedFlagSet collects the names of flags the user set explicitly.
func changedFlagSet(cmd *cobra.Command) map[string]bool {
	locked := make(map[string]bool)
	if cmd == nil {
		return locked
	}
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			locked[f.Name] = true
		}
	})
	return locked
}

// applyFile reads the TOML file named by the struct's Config field and
// assigns tagged fields. A missing file is fine; a malformed one is not.
func applyFile(v reflect.Value, locked map[string]bool) error {
	configField := v.FieldByName("Config")
	if !configField.IsValid() || configField.Kind() != reflect.String {
		return nil
	}
	path := configField.String()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse TOML config: %w", err)
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if locked[flagNameFor(sf.Name)] {
			continue
		}
		key := sf.Tag.Get("toml")
		if key == "" {
			continue
		}
		if value := lookupTOMLPath(tree, key); value != nil {
			assignValue(v.Field(i), value)
		}
	}
	return nil
}

// applyEnv assigns tagged fields from PROCNODE_-prefixed variables.
func applyEnv(v reflect.Value, locked map[string]bool) {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if locked[flagNameFor(sf.Name)] {
			continue
		}
		key := sf.Tag.Get("env")
		if key == "" {
			continue
		}
		if raw := os.Getenv(envPrefix + key); raw != "" {
			assignString(v.Field(i), raw)
		}
	}
}

// flagNameFor derives the kebab-case flag name humacli generates for a
// field, "LoggingLevel" becomes "logging-level".
func flagNameFor(fieldName string) string {
	var b strings.Builder
	for i, r := range fieldName {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('-')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// lookupTOMLPath walks a parsed TOML tree along a dotted key path.
func lookupTOMLPath(tree map[string]any, path string) any {
	keys := strings.Split(path, ".")
	node := tree
	for _, key := range keys[:len(keys)-1] {
		child, ok := node[key].(map[string]any)
		if !ok {
			return nil
		}
		node = child
	}
	return node[keys[len(keys)-1]]
}

// assignValue stores a decoded TOML value into a struct field. Values
// of the wrong type are ignored rather than erroring, the field keeps
// its default.
func assignValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		// go-toml decodes integers as int64
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case int:
			field.SetInt(int64(n))
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		items, ok := value.([]any)
		if !ok {
			return
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == len(items) {
			field.Set(reflect.ValueOf(out))
		}
	}
}

// assignString stores an environment value into a struct field,
// parsing it per the field's kind. Slices split on commas.
func assignString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		parts := strings.Split(value, ",")
		out := make([]string, len(parts))
		for i, part := range parts {
			out[i] = strings.TrimSpace(part)
		}
		field.Set(reflect.ValueOf(out))
	}
}

// LoadLoggingConfig reads the [logging] table from a TOML config file.
// "level" and "format" are the global settings; every other key is a
// per-module level override. Missing or unreadable files yield the
// defaults.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	if configPath == "" {
		return cfg
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var file struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return cfg
	}

	for key, value := range file.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}
	return cfg
}
