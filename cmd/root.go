/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/eduregistry/edureg/internal/ioconfig"
	"github.com/eduregistry/edureg/internal/iodb"
	"github.com/eduregistry/edureg/internal/iofs"
	"github.com/eduregistry/edureg/internal/iologger"
	app "github.com/eduregistry/edureg/pkg"
	"github.com/eduregistry/edureg/pkg/config"
	"github.com/eduregistry/edureg/pkg/db"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// cfg is the configuration of the current run. It is set by bootstrap
// and refined by command flags.
var cfg *config.Config

// getRootCmd returns the root command with all subcommands.
// A new instance is created on every call, so tests do not share flags.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "edureg",
		Short:   "edureg maintains the registry of accredited educational organizations",
		Long: `edureg ingests published state accreditation certificates (XML) into a
relational registry of educational organizations, their regions and
accredited programs.

Commands:
  - create:      create the registry schema
  - migrate:     update the schema, keeping data
  - fetch:       download source XML files into the cache directory
  - populate:    ingest XML files from the cache directory
  - update:      fetch and populate in one run
  - optimize:    reclaim space and refresh statistics
  - regions:     list and edit regions
  - orgs:        browse organizations
  - specialties: load and list the specialty taxonomy

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (EDUREG_*)
  3. Config file (~/.config/edureg/config.yaml)
  4. Built-in defaults

SQLite is used by default, set database.driver to 'postgres' to use
PostgreSQL.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "edureg version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for edureg")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getFetchCmd(),
		getPopulateCmd(),
		getUpdateCmd(),
		getOptimizeCmd(),
		getRegionsCmd(),
		getOrgsCmd(),
		getSpecialtiesCmd(),
	)

	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func bootstrap(_ *cobra.Command, _ []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var loaded *config.Config
	if loaded, err = ioconfig.Load(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(loaded.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// connect opens the configured store. With requireSchema the store must
// already have the registry tables.
func connect(ctx context.Context, requireSchema bool) (db.Operator, error) {
	op := iodb.NewOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "postgres" {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	} else {
		gn.Info("Opened database: <em>%s</em>", cfg.SQLitePath())
	}

	if !requireSchema {
		return op, nil
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		_ = op.Close()
		return nil, err
	}
	if !hasTables {
		_ = op.Close()
		return nil, iodb.EmptyDatabaseError()
	}
	return op, nil
}
