package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scadasync/internal/config"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger   *zap.Logger
	appCfg   *config.AppConfig
	loadInfo config.LoadConfigInfo
)

var rootCmd = &cobra.Command{
	Use:   "scadasync",
	Short: "SCADA Signal Synchronizer",
	Long: `scadasync keeps the Description column of the SCADA_SIGNAL sheet in line with the
area sheets of the same workbook.

Each SCADA_SIGNAL row names an area sheet (DB) and a tag path <prefix>.<tag>.<variant>;
its description becomes the area description of <tag> followed by the formatted variant.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zcfg.DisableStacktrace = true
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if configPath != "" {
			appCfg, loadInfo, err = config.LoadConfigFrom(configPath)
		} else {
			appCfg, loadInfo, err = config.LoadConfigWithInfo()
		}
		if err != nil {
			logger.Warn("failed to load config, using defaults", zap.String("path", loadInfo.Path), zap.Error(err))
			appCfg = config.DefaultConfig()
		} else if loadInfo.FileFound {
			logger.Debug("config loaded", zap.String("path", loadInfo.Path))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: next to the executable)")

	rootCmd.AddCommand(syncCmd, labelCmd, serveCmd, runsCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
