package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bkahlert/kommons-sub008/internal/config"
	"github.com/bkahlert/kommons-sub008/internal/log"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	logClose  func()
)

var rootCmd = &cobra.Command{
	Use:   "kommons",
	Short: "ANSI aware text tools and span rendering",
	Long: `kommons tokenizes, slices and wraps text containing ANSI escape sequences
and renders nested spans as column aligned terminal output.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logClose != nil {
			logClose()
			logClose = nil
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .kommons/config.yaml or ~/.config/kommons/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug log (also enabled by KOMMONS_DEBUG; path from KOMMONS_LOG)")
	rootCmd.PersistentFlags().String("renderer", "", "span renderer: block, one-line or compact")
	rootCmd.PersistentFlags().String("style", "", "block style: solid, dotted or none")
	rootCmd.PersistentFlags().IntP("width", "w", 0, "total output width (0 keeps the configured column widths)")
}

func bindFlags(v *viper.Viper) {
	_ = v.BindPFlag("render.renderer", rootCmd.PersistentFlags().Lookup("renderer"))
	_ = v.BindPFlag("render.style", rootCmd.PersistentFlags().Lookup("style"))
	_ = v.BindPFlag("render.width", rootCmd.PersistentFlags().Lookup("width"))
}

// initConfig loads the configuration into cfg. Environment variables
// prefixed with KOMMONS_ override file values, e.g. KOMMONS_RENDER_STYLE.
func initConfig() {
	setDefaults(viper.GetViper(), config.Defaults())
	bindFlags(viper.GetViper())
	viper.SetEnvPrefix("kommons")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .kommons/config.yaml (current directory)
		// 2. ~/.config/kommons/config.yaml (user config)
		if _, err := os.Stat(".kommons/config.yaml"); err == nil {
			viper.SetConfigFile(".kommons/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "kommons"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "warning: reading config: %v\n", err)
		}
	}

	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: decoding config: %v\n", err)
	}
}

func setDefaults(v *viper.Viper, defaults config.Config) {
	v.SetDefault("render.renderer", defaults.Render.Renderer)
	v.SetDefault("render.style", defaults.Render.Style)
	v.SetDefault("render.gap", defaults.Render.Gap)
	v.SetDefault("render.width", defaults.Render.Width)
	v.SetDefault("render.decoration_color", defaults.Render.DecorationColor)
	v.SetDefault("render.columns", defaults.Render.Columns)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)
}

// setup enables debug logging and validates the configuration.
func setup(cmd *cobra.Command, _ []string) error {
	if debugFlag || os.Getenv("KOMMONS_DEBUG") != "" {
		logPath := os.Getenv("KOMMONS_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logClose = cleanup
		log.Info(log.CatCmd, "kommons starting", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
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
