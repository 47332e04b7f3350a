// Package cmd contains the curio CLI commands.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tkaster/curio/internal/config"
	"github.com/tkaster/curio/internal/log"
	"github.com/tkaster/curio/internal/paths"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "curio",
	Short:   "A registry daemon for uniquely identified collectibles",
	Long: `curio runs a deterministic registry of digital collectibles with
mint, transfer, marketplace, and purchase operations exposed over HTTP.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/curio/config.yaml)")
	rootCmd.PersistentFlags().String("db", "",
		"path to the registry database file")
	rootCmd.PersistentFlags().Bool("debug", false,
		"enable debug logging")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	defaults := config.Default()
	viper.SetDefault("listen", defaults.Listen)
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("registry.maximum_owned", defaults.Registry.MaximumOwned)
	viper.SetDefault("processor.queue_capacity", defaults.Processor.QueueCapacity)
	viper.SetDefault("processor.dedup_window", defaults.Processor.DedupWindow)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .curio/config.yaml (current directory)
		// 2. ~/.config/curio/config.yaml (user config)
		if local := paths.ConfigFile(""); fileExists(local) {
			viper.SetConfigFile(local)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "curio"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Missing config files are fine, the defaults carry the daemon.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.ErrorErr(log.CatConfig, "failed to read config", err)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// initLogging configures the global logger from config and flags.
func initLogging(cmd *cobra.Command) func() {
	cleanup := func() {}
	if cfg.Log.File != "" {
		if c, err := log.Init(cfg.Log.File); err == nil {
			cleanup = c
		} else {
			log.InitStderr()
		}
	} else {
		log.InitStderr()
	}

	log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.SetMinLevel(log.LevelDebug)
	}
	return cleanup
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
