package tracer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents tracing configuration loaded from YAML.
type Config struct {
	// Enabled determines whether spans are exported to a collector
	Enabled bool `yaml:"enabled"`

	// ServiceName is the name of the service
	ServiceName string `yaml:"service_name"`

	// CollectorEndpoint is the endpoint of the OpenTelemetry collector
	CollectorEndpoint string `yaml:"collector_endpoint"`

	// SurroundCallsWithSubspan controls whether outbound calls are
	// surrounded with a client span. Unset means enabled.
	SurroundCallsWithSubspan *bool `yaml:"surround_calls_with_subspan,omitempty"`

	// Langfuse configures the optional Langfuse span recorder
	Langfuse LangfuseConfig `yaml:"langfuse"`
}

// SubspanEnabled reports the subspan option, defaulting to true when the
// config file leaves it unset.
func (c Config) SubspanEnabled() bool {
	if c.SurroundCallsWithSubspan == nil {
		return true
	}
	return *c.SurroundCallsWithSubspan
}

// LoadConfig loads tracing configuration from a YAML file.
func LoadConfig(filePath string) (Config, error) {
	// Validate file path
	if !isValidFilePath(filePath) {
		return Config{}, fmt.Errorf("invalid file path")
	}

	// Read file safely
	data, err := os.ReadFile(filePath) // #nosec G304 - Path is validated with isValidFilePath() before use
	if err != nil {
		return Config{}, fmt.Errorf("failed to read tracing config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal tracing config: %w", err)
	}

	return config, nil
}

// isValidFilePath checks if a file path is valid and safe
func isValidFilePath(filePath string) bool {
	// Check for empty path
	if filePath == "" {
		return false
	}

	// Clean and normalize the path
	cleanPath := filepath.Clean(filePath)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return false
	}

	// Keep reads away from kernel pseudo-filesystems
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return false
	}
	if strings.HasPrefix(absPath, "/proc") ||
		strings.HasPrefix(absPath, "/sys") ||
		strings.HasPrefix(absPath, "/dev") {
		return false
	}

	// Ensure the file exists and is a regular file
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
