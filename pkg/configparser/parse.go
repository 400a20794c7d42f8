package configparser

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

// LoadAndParseYaml loads a YAML file into the environment and then fills
// cfg from env vars using `env` and `default` struct tags. cfg must be a
// pointer to a struct. A missing file is not an error: the struct is
// still filled from the process environment and tag defaults.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil && err != ErrNoFilePath && !os.IsNotExist(err) {
		if _, statErr := os.Stat(filepath); statErr == nil {
			return err
		}
	}
	return ParseEnv(cfg)
}

// ParseEnv fills cfg from environment variables using `env` and
// `default` struct tags, recursing into nested structs.
func ParseEnv(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config must be a pointer to a struct, got %T", cfg)
	}
	return parseStruct(v.Elem())
}

func parseStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		// Recurse into nested structs that carry no env tag themselves.
		// time.Duration is an int64, not a struct, so it falls through.
		tag := t.Field(i).Tag
		envName := tag.Get("env")
		if envName == "" {
			if field.Kind() == reflect.Struct {
				if err := parseStruct(field); err != nil {
					return err
				}
			}
			continue
		}

		value := os.Getenv(envName)
		if value == "" {
			value = tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(field, value); err != nil {
			return fmt.Errorf("field %s (%s): %w", t.Field(i).Name, envName, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	// Durations first: their underlying kind is int64.
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", value, err)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", value, err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool %q: %w", value, err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
