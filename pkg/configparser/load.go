package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a flat-ish YAML file and exports its key-value
// pairs into the process environment. Sections nest by two-space
// indentation and join into the variable name with underscores, so
//
//	database:
//	  host: localhost
//
// becomes DATABASE_HOST. Values may use ${VAR:-default} substitution.
// Variables already present in the environment are never overwritten.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}
	defer file.Close()

	var sections []string
	prevIndent := 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		content := strings.TrimSpace(line)
		if content == "" || strings.HasPrefix(content, "#") {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " "))
		if indent < prevIndent {
			for i := 0; i < (prevIndent-indent)/2 && len(sections) > 0; i++ {
				sections = sections[:len(sections)-1]
			}
		}
		prevIndent = indent

		// "name:" with nothing after it opens a section.
		if strings.HasSuffix(content, ":") && !strings.Contains(content, ": ") {
			sections = append(sections, strings.TrimSuffix(content, ":"))
			continue
		}

		key, value, ok := strings.Cut(content, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if value == "" {
			continue
		}

		value = expandDefault(value)

		name := strings.ToUpper(strings.Join(append(sections[:len(sections):len(sections)], key), "_"))
		if os.Getenv(name) == "" {
			if err := os.Setenv(name, value); err != nil {
				return fmt.Errorf("could not set env var %s: %w", name, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}
	return nil
}

// expandDefault resolves the ${VAR:-default} form: the environment
// value when set and non-empty, the default otherwise. Anything else
// passes through unchanged.
func expandDefault(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	name, def, ok := strings.Cut(value[2:len(value)-1], ":-")
	if !ok {
		return value
	}
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}
