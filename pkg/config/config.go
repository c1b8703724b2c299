// Package config provides configuration management for edureg.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database, ssl_mode
//   - Ingest: source_url, cache_dir, parent_rule, update_existing,
//     create_specialties, show_progress
//   - Metrics: textfile
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use EDUREG_ prefix with underscores for nesting:
//
//	EDUREG_DATABASE_DRIVER=postgres
//	EDUREG_DATABASE_HOST=localhost
//	EDUREG_INGEST_SOURCE_URL=https://example.org/data.zip
//	EDUREG_LOG_LEVEL=info
//	EDUREG_JOBS_NUMBER=8
package config

import (
	"path/filepath"
	"runtime"
)

// Config represents the complete edureg configuration.
type Config struct {
	// Database contains connection settings of the registry store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Ingest contains settings of the XML ingestion pipeline.
	Ingest IngestConfig `mapstructure:"ingest" yaml:"ingest"`

	// Metrics contains settings for exporting run metrics.
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of XML files parsed concurrently.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains connection parameters of the registry store.
type DatabaseConfig struct {
	// Driver selects the store backend.
	// Valid values: "sqlite", "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the sqlite database file. Empty means the default file
	// in the data directory.
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// IngestConfig contains settings of the certificate ingestion pipeline.
type IngestConfig struct {
	// SourceURL is the location of the published accreditation registry
	// (a zip archive with XML files or a single XML file).
	SourceURL string `mapstructure:"source_url" yaml:"source_url"`

	// CacheDir is the directory with XML files to ingest.
	// Empty means the 'xml' subdirectory of the cache directory.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	// ParentRule selects how branch organizations are linked to their head
	// organization during the second pass.
	// Valid values: "none", "head_id".
	ParentRule string `mapstructure:"parent_rule" yaml:"parent_rule"`

	// UpdateExisting refreshes descriptive fields of organizations that
	// already exist in the registry. When false existing rows are left
	// untouched.
	UpdateExisting bool `mapstructure:"update_existing" yaml:"update_existing"`

	// CreateSpecialties allows the second pass to create specialty groups
	// and specialties that are missing from the reference taxonomy.
	CreateSpecialties bool `mapstructure:"create_specialties" yaml:"create_specialties"`

	// ShowProgress shows progress bars on STDERR.
	ShowProgress bool `mapstructure:"show_progress" yaml:"show_progress"`
}

// MetricsConfig contains settings for run metrics.
type MetricsConfig struct {
	// Textfile is a path where Prometheus metrics of the last run are
	// written (node_exporter textfile collector format).
	// Empty string disables the export.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// Parent linkage rules.
const (
	ParentRuleNone   = "none"
	ParentRuleHeadID = "head_id"
)

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "edureg",
			SSLMode:  "disable",
		},
		Ingest: IngestConfig{
			ParentRule:   ParentRuleNone,
			ShowProgress: true,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}

// XMLDir returns the directory with XML files for ingestion.
func (c *Config) XMLDir() string {
	if c.Ingest.CacheDir != "" {
		return c.Ingest.CacheDir
	}
	return filepath.Join(CacheDir(c.HomeDir), "xml")
}

// SQLitePath returns the sqlite database file location.
func (c *Config) SQLitePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(DataDir(c.HomeDir), AppName+".db")
}
