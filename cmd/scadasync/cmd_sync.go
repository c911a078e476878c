package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scadasync/internal/config"
	"scadasync/internal/model"
	"scadasync/internal/store"
	"scadasync/internal/synchronizer"
)

var (
	syncOutDir       string
	syncOutName      string
	syncPrimarySheet string
	syncDryRun       bool
	syncOpenFolder   bool
	syncNoRecord     bool
)

var syncCmd = &cobra.Command{
	Use:   "sync <workbook.xlsx>",
	Short: "Synchronize SCADA_SIGNAL descriptions and write a new workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runCfg := model.RunConfig{
			SourcePath:       args[0],
			OutputDir:        syncOutDir,
			OutputName:       syncOutName,
			OutputSuffix:     appCfg.Sync.OutputSuffix,
			PrimarySheet:     appCfg.Sync.PrimarySheet,
			DryRun:           syncDryRun,
			OpenFolder:       appCfg.Sync.OpenFolder,
			MaxLoggedUpdates: appCfg.Sync.MaxLoggedUpdates,
		}
		if cmd.Flags().Changed("sheet") {
			runCfg.PrimarySheet = syncPrimarySheet
		}
		if cmd.Flags().Changed("open") {
			runCfg.OpenFolder = syncOpenFolder
		}

		var recorder synchronizer.RunRecorder
		if !syncNoRecord {
			if st, err := openRunStore(); err != nil {
				logger.Warn("run history disabled", zap.Error(err))
			} else {
				defer st.Close()
				recorder = st
			}
		}

		result, err := synchronizer.NewCoordinator(recorder).Run(runCfg, logProgress)
		if err != nil {
			return err
		}
		for _, sh := range result.Sheets {
			if sh.Skipped() {
				logger.Debug("sheet skipped", zap.String("sheet", sh.Sheet), zap.Strings("missing", sh.Missing))
			}
		}

		fmt.Println("Synchronization complete!")
		fmt.Printf("  Processed: %d rows\n", result.Processed)
		fmt.Printf("  Updated:   %d rows\n", result.Updated)
		if result.DryRun {
			fmt.Println("  Dry run:   no file written")
		} else {
			fmt.Printf("  Saved:     %s\n", result.OutputFile)
			fmt.Printf("  Location:  %s\n", result.OutputDir)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVarP(&syncOutDir, "out-dir", "o", "", "output directory (default: next to the source file)")
	syncCmd.Flags().StringVarP(&syncOutName, "name", "n", "", "output file name without extension (default: <source>_synchronized)")
	syncCmd.Flags().StringVar(&syncPrimarySheet, "sheet", model.PrimarySheetName, "name of the signal sheet")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report updates without writing the output file")
	syncCmd.Flags().BoolVar(&syncOpenFolder, "open", false, "open the output folder when done")
	syncCmd.Flags().BoolVar(&syncNoRecord, "no-record", false, "do not record the run in the run history")
}

// logProgress 把同步进度写入日志
func logProgress(e synchronizer.ProgressEvent) {
	switch e.Type {
	case synchronizer.EventError:
		logger.Error(e.Message)
	case synchronizer.EventWarning:
		logger.Warn(e.Message)
	case synchronizer.EventUpdate, synchronizer.EventSheet:
		logger.Info(e.Message, zap.String("event", e.Type))
	default:
		logger.Info(e.Message)
	}
}

func openRunStore() (*store.Store, error) {
	if _, err := config.EnsureDataDir(appCfg); err != nil {
		return nil, err
	}
	return store.New(config.GetDataPath(appCfg, "", config.DatabaseFile))
}
