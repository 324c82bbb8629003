// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	_ "github.com/evanmaskanazi/datinglanguage/core/audit" // setup better logging format
	"github.com/evanmaskanazi/datinglanguage/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"DATINGLANG_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"DATINGLANG_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"DATINGLANG_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"DATINGLANG_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
	} `yaml:"basic"`

	Backend struct {
		// BaseURL is the root of the reservation API that serves
		// bootstrap data, matches, and bookings.
		BaseURL string        `env:"DATINGLANG_BACKEND_URL,overwrite" yaml:"baseUrl"`
		Timeout time.Duration `env:"DATINGLANG_BACKEND_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"backend"`

	Cache struct {
		Enabled     bool          `env:"DATINGLANG_CACHE,overwrite" yaml:"enabled"`
		Size        int           `env:"DATINGLANG_CACHE_SIZE,overwrite" yaml:"cacheSize"`
		TTL         time.Duration `env:"DATINGLANG_CACHE_TTL,overwrite" yaml:"cacheTTL"`
		Compression bool          `env:"DATINGLANG_CACHE_COMPRESSION,overwrite" yaml:"compression"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"DATINGLANG_CACHE_CONTROL_MAX_AGE,overwrite" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"DATINGLANG_CACHE_CONTROL_STALE_WHILE_REVALIDATE,overwrite" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Limiter struct {
		Enabled           bool    `env:"DATINGLANG_LIMITER,overwrite" yaml:"enabled"`
		RequestsPerSecond float64 `env:"DATINGLANG_LIMITER_RPS,overwrite" yaml:"requestsPerSecond"`
		Burst             int     `env:"DATINGLANG_LIMITER_BURST,overwrite" yaml:"burst"`
	} `yaml:"limiter"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
		RepoURL           string `env:"DATINGLANG_REPO_URL,overwrite" yaml:"repoUrl"`
	} `yaml:"instance"`

	Development struct {
		InDevelopment bool `env:"DATINGLANG_DEV" yaml:"inDevelopment"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"DATINGLANG_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"DATINGLANG_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"DATINGLANG_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Localization struct {
		// DefaultLocale is used when neither a stored preference nor the
		// request says otherwise.
		DefaultLocale string `env:"DATINGLANG_DEFAULT_LOCALE,overwrite" yaml:"defaultLocale"`

		// StateFilepath is where the persisted language preference lives.
		StateFilepath string `env:"DATINGLANG_LOCALE_STATE_FILEPATH,overwrite" yaml:"stateFilepath"`

		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"DATINGLANG_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"localization"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Determine the config file path with the correct precedence:
	// 1. Command-line flag (-config)
	// 2. Environment variable (DATINGLANG_CONFIGFILE)
	// 3. Default path with fallback check
	if configFlagUserSet {
		configFilePath = parsedConfigFlagValue
	} else if envVar := os.Getenv("DATINGLANG_CONFIGFILE"); envVar != "" {
		configFilePath = envVar
	} else {
		configFilePath = parsedConfigFlagValue
		// Then, perform a fallback check for "./config.yml".
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			ymlPath := "./config.yml"
			if _, statErr := os.Stat(ymlPath); statErr == nil {
				configFilePath = ymlPath
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	// Heuristically check for containerized environment and warn if host is not a wildcard address.
	if isContainerized() && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a containerized environment but host is not a wildcard address (e.g., '0.0.0.0' or '::'). This may prevent the service from being accessible outside the container.")
	}

	return nil
}

var staticSkippedPathPrefixes = []string{"/img/", "/css/", "/js/"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a containerized environment.
//
// This is a heuristic and may not be 100% accurate.
func isContainerized() bool {
	// Check for a Kubernetes-injected environment variable.
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	// Check for existence of container-specific files.
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	if _, err := os.Stat("/.containerenv"); err == nil {
		return true
	}

	// Check the cgroup of the current process.
	// #nosec G304 -- We are checking for the existence and content of a well-known system file for heuristics.
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err == nil {
		content := string(cgroup)

		return strings.Contains(content, "docker") ||
			strings.Contains(content, "kubepods") ||
			strings.Contains(content, "containerd") ||
			strings.Contains(content, "lxc") ||
			strings.Contains(content, "crio") ||
			// systemd-nspawn containers
			strings.Contains(content, ".machine")
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
