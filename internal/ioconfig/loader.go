// Package ioconfig loads configuration from config.yaml and environment
// variables. This is an impure package that reads the file system and the
// process environment.
package ioconfig

import (
	"strings"

	"github.com/eduregistry/edureg/internal/iofs"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of all edureg environment variables.
const EnvPrefix = "EDUREG"

// Load reads config.yaml from the config directory of homeDir and applies
// EDUREG_* environment variables on top of it. Keys absent from the file
// keep values of config.New().
//
// The result is meant to be converted with ToOptions() and applied to a
// fresh config, so invalid values get rejected with warnings.
func Load(homeDir string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(homeDir)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	setDefaults(v)
	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func setDefaults(v *viper.Viper) {
	d := config.New()

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.database", d.Database.Database)
	v.SetDefault("database.ssl_mode", d.Database.SSLMode)

	v.SetDefault("ingest.source_url", d.Ingest.SourceURL)
	v.SetDefault("ingest.cache_dir", d.Ingest.CacheDir)
	v.SetDefault("ingest.parent_rule", d.Ingest.ParentRule)
	v.SetDefault("ingest.update_existing", d.Ingest.UpdateExisting)
	v.SetDefault("ingest.create_specialties", d.Ingest.CreateSpecialties)
	v.SetDefault("ingest.show_progress", d.Ingest.ShowProgress)

	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.destination", d.Log.Destination)

	v.SetDefault("jobs_number", d.JobsNumber)
}

// initEnvVars binds environment variables explicitly, so it is clear which
// variables are allowed. They match the fields included in
// config.ToOptions(), i.e. persistent configuration that can be stored in
// config.yaml.
func initEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range Keys() {
		env := EnvPrefix + "_" + strings.ToUpper(
			strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, env)
	}

	v.AutomaticEnv()
}

// Keys returns all configuration keys that can be set in config.yaml or
// by environment variables.
func Keys() []string {
	return []string{
		"database.driver",
		"database.path",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",
		"ingest.source_url",
		"ingest.cache_dir",
		"ingest.parent_rule",
		"ingest.update_existing",
		"ingest.create_specialties",
		"ingest.show_progress",
		"metrics.textfile",
		"log.format",
		"log.level",
		"log.destination",
		"jobs_number",
	}
}
