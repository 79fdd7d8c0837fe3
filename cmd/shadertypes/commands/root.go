package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HugoDaniel/shadertypes/internal/config"
	"github.com/HugoDaniel/shadertypes/internal/types"
	"github.com/HugoDaniel/shadertypes/internal/typetable"
)

// Global flags
var (
	configFile    string
	noConfig      bool
	verbose       bool
	noColor       bool
	format        string
	checkSymmetry bool
)

// settings holds the options resolved by the root command before any
// subcommand runs.
var settings = config.DefaultOptions()

var rootCmd = &cobra.Command{
	Use:   "shadertypes",
	Short: "shadertypes checks shader type compatibility and casts",
	Long: `shadertypes loads type tables describing structures, resources, aliases
and array types of a shader translation unit, and answers compatibility and
cast queries about them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Use specific config `file`")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "Ignore config files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().StringVar(&format, "format", config.FormatText, "Output format: text or json")
	rootCmd.PersistentFlags().BoolVar(&checkSymmetry, "check-symmetry", false, "Also check every query with swapped operands")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// setup loads the config file, applies CLI overrides and installs loggers.
func setup(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig(args)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	cli := config.MergeOptions{NoColor: noColor}
	if flags.Changed("verbose") {
		cli.Verbose = &verbose
	}
	if flags.Changed("check-symmetry") {
		cli.CheckSymmetry = &checkSymmetry
	}
	if flags.Changed("format") {
		cli.Format = &format
	}

	settings, err = cfg.Merge(cli)
	if err != nil {
		if configPath != "" {
			return fmt.Errorf("%s: %w", configPath, err)
		}
		return err
	}

	if !settings.Color {
		color.NoColor = true
	}

	logger, err := newLogger(settings.Verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	types.SetLogger(logger.Named("types"))
	typetable.SetLogger(logger.Named("typetable"))

	if configPath != "" {
		logger.Debug("using config", zap.String("path", configPath))
	}
	return nil
}

func loadConfig(args []string) (*config.Config, string, error) {
	if noConfig {
		return nil, "", nil
	}
	if configFile != "" {
		cfg, err := config.LoadFile(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("loading config file %s: %w", configFile, err)
		}
		return cfg, configFile, nil
	}

	// Search for config file
	startDir, _ := os.Getwd()
	if len(args) > 0 {
		startDir = filepath.Dir(args[0])
	}
	cfg, path, err := config.Load(startDir)
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}
	return cfg, path, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}
