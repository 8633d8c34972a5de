package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cliConfig is resolved from flags, SETTINGSCTL_* variables and the optional
// config file, in that order of precedence.
type cliConfig struct {
	Store      string   `mapstructure:"store"`
	StorageKey string   `mapstructure:"storage_key"`
	FileFormat string   `mapstructure:"file_format"`
	Schema     []string `mapstructure:"schema"`
	Format     string   `mapstructure:"format"`
	LogLevel   string   `mapstructure:"log_level"`
}

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     cliConfig
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "settingsctl",
		Short: "Inspect and edit persisted settings",
		Long: `settingsctl loads collection definitions, opens a settings store and
runs one operation against it.

Stores are selected by URI:
  memory:          in-process, discarded on exit
  file:DIR         one document per key under DIR (see --file-format)
  badger:DIR       BadgerDB database in DIR ("badger:" alone is in-memory)
  sqlite:DSN       SQLite database file or URI`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.String("store", "memory:", "store URI")
	flags.String("storage-key", "settings", "key the settings document is stored under")
	flags.String("file-format", "json", "document format for file: stores (json, yaml, toml)")
	flags.StringSlice("schema", nil, "collection definition files (repeatable)")
	flags.StringP("format", "o", "json", "output format (json, yaml, toml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")

	for _, name := range []string{"store", "storage-key", "file-format", "schema", "format", "log-level"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	a.v.SetEnvPrefix("SETTINGSCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newGetCmd(a),
		newSetCmd(a),
		newDumpCmd(a),
		newSchemaCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	}
	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
