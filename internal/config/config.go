// Package config resolves the CLI's runtime settings from the environment.
// A .env file, when present, is loaded by the root command before anything
// reads from here.
package config

import "os"

// Environment variables understood by the CLI.
const (
	EnvDBURI     = "DB_URI"
	EnvDBName    = "DB_NAME"
	EnvTenant    = "TENANT_ID"
	EnvActor     = "IMPORT_ACTOR"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
)

// Config carries the resolved settings. Command-line flags override these.
type Config struct {
	DBURI     string
	DBName    string
	Tenant    string
	Actor     string
	LogLevel  string
	LogFormat string
}

// FromEnv reads the configuration from the environment, falling back to
// local-development defaults.
func FromEnv() Config {
	return Config{
		DBURI:     getEnv(EnvDBURI, "mongodb://localhost:27017"),
		DBName:    getEnv(EnvDBName, "salescockpit"),
		Tenant:    os.Getenv(EnvTenant),
		Actor:     getEnv(EnvActor, "cli"),
		LogLevel:  getEnv(EnvLogLevel, "info"),
		LogFormat: getEnv(EnvLogFormat, "console"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
