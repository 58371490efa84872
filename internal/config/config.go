// Package config resolves console settings from the environment. The
// console is usually launched by tooling that already knows the target
// deployment, so everything arrives through GOLEM_* variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/golemcloud/golem-console/internal/log"
	"github.com/golemcloud/golem-console/internal/usage"
)

// ServerLocal targets a locally running cluster and requires no token.
const ServerLocal = "local"

// Config carries everything the console needs to start a session.
type Config struct {
	// Server is "local", "cloud", or an explicit URL.
	Server string

	// Token authenticates against any non-local server.
	Token string

	// Application is the deployed application the session works against.
	Application string

	// Environment is passed to every collaborator invocation.
	Environment string

	// CLIPath is the collaborator binary, resolved via PATH.
	CLIPath string

	// MetadataPath optionally overrides where the command tree JSON is
	// read from. Empty means the collaborator is asked for it.
	MetadataPath string

	LogPath  string
	LogLevel log.Level
}

// Load reads the configuration from the environment. The active environment
// is always required, and a non-local server additionally requires a token;
// everything else falls back to a default.
func Load() (*Config, error) {
	cfg := &Config{
		Server:       envOr("GOLEM_SERVER", ServerLocal),
		Token:        os.Getenv("GOLEM_TOKEN"),
		Application:  os.Getenv("GOLEM_APPLICATION"),
		Environment:  os.Getenv("GOLEM_ENVIRONMENT"),
		CLIPath:      envOr("GOLEM_CLI_PATH", "golem"),
		MetadataPath: os.Getenv("GOLEM_COMMAND_METADATA"),
		LogPath:      envOr("GOLEM_CONSOLE_LOG", defaultLogPath()),
		LogLevel:     log.ParseLevel(os.Getenv("GOLEM_CONSOLE_LOG_LEVEL")),
	}

	if cfg.Environment == "" {
		return nil, usage.MissingConfig("GOLEM_ENVIRONMENT")
	}
	if cfg.Server != ServerLocal && cfg.Token == "" {
		return nil, usage.MissingConfig("GOLEM_TOKEN")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultLogPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "golem-console", "console.log")
}
