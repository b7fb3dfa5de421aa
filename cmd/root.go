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
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/internal/iofs"
	"github.com/gnames/gnlineage/internal/iologger"
	app "github.com/gnames/gnlineage/pkg"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	cfg       *config.Config
	logCloser io.Closer
)

// legacyKeys map top-level keys of older configurations to their
// current place.
var legacyKeys = map[string]string{
	"hostname":      "database.host",
	"port":          "database.port",
	"database_name": "database.database",
}

// getRootCmd returns the root command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gnlineage",
		Short:   "Local NCBI taxonomy mirror with lineage lookups",
		Long: `gnlineage keeps a local copy of the NCBI taxonomy and answers
lineage queries against it.

The mirror stores taxonomy nodes (ID, parent ID, scientific name) and
links from protein accessions to taxonomy nodes. It lives in PostgreSQL
or in a local SQLite file.

Typical workflow:
  gnlineage create
  gnlineage ingest all ~/ncbi/taxdump
  gnlineage lineage 9606
  gnlineage annotate -i proteins.fasta -o annotated.txt

Configuration: ~/.config/gnlineage/config.yaml
Environment variables use the GNLINEAGE_ prefix.`,
		PersistentPreRunE:  bootstrap,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
		SilenceErrors:      true,
		SilenceUsage:       true,
	}

	// Remove the automatic "gnlineage version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	// -V is consistent with other gn projects
	rootCmd.Flags().BoolP("version", "V", false, "version for gnlineage")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getIngestCmd(),
		getLineageCmd(),
		getAnnotateCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	logCloser, err = iologger.Init(config.LogDir(homeDir), cfg.Log, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"backend", cfg.Database.Backend,
	)
	return nil
}

func shutdown(_ *cobra.Command, _ []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func runRoot(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once.
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}
	applyLegacyKeys(v)

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// applyLegacyKeys makes old keys a fallback for the current ones, so
// an explicitly set current key still wins.
func applyLegacyKeys(v *viper.Viper) {
	for old, key := range legacyKeys {
		if v.IsSet(old) {
			v.SetDefault(key, v.Get(old))
		}
	}
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNLINEAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.backend", "GNLINEAGE_DATABASE_BACKEND")
	v.BindEnv("database.host", "GNLINEAGE_DATABASE_HOST")
	v.BindEnv("database.port", "GNLINEAGE_DATABASE_PORT")
	v.BindEnv("database.user", "GNLINEAGE_DATABASE_USER")
	v.BindEnv("database.password", "GNLINEAGE_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNLINEAGE_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNLINEAGE_DATABASE_SSL_MODE")
	v.BindEnv("database.sqlite_path", "GNLINEAGE_DATABASE_SQLITE_PATH")
	v.BindEnv("database.retry_attempts", "GNLINEAGE_DATABASE_RETRY_ATTEMPTS")
	v.BindEnv("database.retry_delay_ms", "GNLINEAGE_DATABASE_RETRY_DELAY_MS")

	// Import and lineage configuration
	v.BindEnv("import.batch_size", "GNLINEAGE_IMPORT_BATCH_SIZE")
	v.BindEnv("lineage.cache_size", "GNLINEAGE_LINEAGE_CACHE_SIZE")
	v.BindEnv("lineage.max_depth", "GNLINEAGE_LINEAGE_MAX_DEPTH")

	// Log configuration
	v.BindEnv("log.level", "GNLINEAGE_LOG_LEVEL")
	v.BindEnv("log.format", "GNLINEAGE_LOG_FORMAT")
	v.BindEnv("log.destination", "GNLINEAGE_LOG_DESTINATION")

	// Older top-level names
	v.BindEnv("hostname", "GNLINEAGE_HOSTNAME")
	v.BindEnv("port", "GNLINEAGE_PORT")
	v.BindEnv("database_name", "GNLINEAGE_DATABASE_NAME")

	v.AutomaticEnv()
}
