package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// Environment variable pattern: {{ env.VARIABLE_NAME }}
	envVarPattern = regexp.MustCompile(`\{\{\s*env\.(\w+)\s*\}\}`)
)

// SubstituteEnvVars replaces {{ env.VARIABLE_NAME }} placeholders with
// environment variable values. Called at load time so sensitive data is
// never baked into the config file itself. Only used for connection strings.
func SubstituteEnvVars(value string) (string, error) {
	result := value
	matches := envVarPattern.FindAllStringSubmatch(value, -1)
	seen := make(map[string]bool)

	for _, match := range matches {
		if len(match) < 2 {
			continue
		}
		envVarName := match[1]
		placeholder := match[0]

		if seen[placeholder] {
			continue
		}
		seen[placeholder] = true

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			return "", fmt.Errorf("environment variable '%s' not found (required at startup)", envVarName)
		}

		result = strings.ReplaceAll(result, placeholder, envValue)
	}

	return result, nil
}
