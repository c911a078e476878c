package synchronizer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"scadasync/internal/model"
	"scadasync/internal/util"
	"scadasync/internal/workbook"
)

const (
	// DefaultOutputSuffix 默认输出文件名后缀
	DefaultOutputSuffix = "_synchronized"
	// DefaultMaxLoggedUpdates 进度日志默认展示的更新条数
	DefaultMaxLoggedUpdates = 10

	outputExt = ".xlsx"
)

// RunRecorder 同步记录持久化（可选）
type RunRecorder interface {
	CreateRun(run *model.SyncRun) error
	CompleteRun(id string, result *model.SyncResult, runErr error) error
}

// Coordinator 同步协调器：读取工作簿 -> 建立描述索引 -> 计算更新 -> 写出新文件
type Coordinator struct {
	recorder   RunRecorder
	openFolder func(dir string) error
}

// NewCoordinator 创建协调器，recorder 可为 nil
func NewCoordinator(recorder RunRecorder) *Coordinator {
	return &Coordinator{
		recorder:   recorder,
		openFolder: util.OpenFolder,
	}
}

// Synchronize 在已加载的数据源上执行 Step 1（索引）与 Step 2（对比），不做任何写入
func Synchronize(src workbook.Source, primarySheet string, maxLogged int, progress func(ProgressEvent)) (model.DescriptionIndex, model.ReconcileResult, error) {
	if primarySheet == "" {
		primarySheet = model.PrimarySheetName
	}

	reportProgress(progress, EventInfo, "Step 1: Reading descriptions from area sheets...", nil)
	idx, err := BuildIndex(src, primarySheet, progress)
	if err != nil {
		return idx, model.ReconcileResult{}, err
	}

	reportProgress(progress, EventInfo, fmt.Sprintf("Step 2: Synchronizing %s sheet...", primarySheet), nil)
	if !src.HasSheet(primarySheet) {
		return idx, model.ReconcileResult{}, &SchemaError{Sheet: primarySheet, SheetMissing: true}
	}

	table, err := src.Table(primarySheet)
	if err != nil {
		return idx, model.ReconcileResult{}, err
	}

	result, err := Reconcile(table, idx)
	if err != nil {
		return idx, result, err
	}

	for i, u := range result.Updates {
		if i >= maxLogged {
			break
		}
		reportProgress(progress, EventUpdate, fmt.Sprintf("  %s.%s.%s", u.DB, u.BaseTag, u.Variant), u)
	}
	reportProgress(progress, EventInfo, fmt.Sprintf("Updated: %d rows", result.Updated), map[string]int{
		"processed": result.Processed,
		"updated":   result.Updated,
	})

	return idx, result, nil
}

// Run 执行一次完整同步
func (c *Coordinator) Run(cfg model.RunConfig, progress func(ProgressEvent)) (*model.SyncResult, error) {
	if strings.TrimSpace(cfg.SourcePath) == "" {
		return nil, ErrMissingInput
	}

	startTime := time.Now()
	outputPath := OutputPath(cfg)

	runID := ""
	if c.recorder != nil {
		run := &model.SyncRun{
			ID:         uuid.New().String(),
			SourceFile: filepath.Base(cfg.SourcePath),
			OutputFile: filepath.Base(outputPath),
			Status:     model.RunStatusProcessing,
			DryRun:     cfg.DryRun,
			CreatedAt:  startTime,
		}
		if err := c.recorder.CreateRun(run); err != nil {
			reportProgress(progress, EventWarning, fmt.Sprintf("failed to record run: %v", err), nil)
		} else {
			runID = run.ID
		}
	}

	result, err := c.run(cfg, outputPath, progress)
	if result != nil {
		result.Duration = time.Since(startTime)
	}

	if runID != "" {
		if recErr := c.recorder.CompleteRun(runID, result, err); recErr != nil {
			reportProgress(progress, EventWarning, fmt.Sprintf("failed to record run: %v", recErr), nil)
		}
	}

	if err != nil {
		reportProgress(progress, EventError, fmt.Sprintf("ERROR: %v", err), nil)
		return nil, err
	}
	return result, nil
}

func (c *Coordinator) run(cfg model.RunConfig, outputPath string, progress func(ProgressEvent)) (*model.SyncResult, error) {
	primary := cfg.PrimarySheet
	if primary == "" {
		primary = model.PrimarySheetName
	}
	maxLogged := cfg.MaxLoggedUpdates
	if maxLogged <= 0 {
		maxLogged = DefaultMaxLoggedUpdates
	}

	reportProgress(progress, EventStart, fmt.Sprintf("Starting %s Synchronization...", primary), map[string]string{
		"filename": filepath.Base(cfg.SourcePath),
	})

	wb, err := workbook.Open(cfg.SourcePath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	idx, reconciled, err := Synchronize(wb, primary, maxLogged, progress)
	if err != nil {
		return nil, err
	}

	result := &model.SyncResult{
		Processed:  reconciled.Processed,
		Updated:    reconciled.Updated,
		TagsLoaded: idx.Len(),
		OutputFile: filepath.Base(outputPath),
		OutputDir:  filepath.Dir(outputPath),
		OutputPath: outputPath,
		DryRun:     cfg.DryRun,
		Updates:    reconciled.Updates,
		Sheets:     idx.Sheets(),
	}

	if cfg.DryRun {
		reportProgress(progress, EventDone, "Dry run: no file written", result)
		return result, nil
	}

	reportProgress(progress, EventInfo, "Saving file...", nil)
	if err := wb.ApplyUpdates(primary, reconciled.Column, reconciled.Updates); err != nil {
		return nil, err
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return nil, err
	}

	reportProgress(progress, EventDone, fmt.Sprintf("SUCCESS! File synchronized: %s", result.OutputFile), result)

	if cfg.OpenFolder && c.openFolder != nil {
		if err := c.openFolder(result.OutputDir); err != nil {
			reportProgress(progress, EventWarning, fmt.Sprintf("failed to open folder: %v", err), nil)
		}
	}

	return result, nil
}

// OutputPath 输出文件路径：目录默认与源文件相同，文件名默认为 源文件名+后缀，扩展名固定 .xlsx
func OutputPath(cfg model.RunConfig) string {
	dir := cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(cfg.SourcePath)
	}

	name := strings.TrimSpace(cfg.OutputName)
	if name == "" {
		suffix := cfg.OutputSuffix
		if suffix == "" {
			suffix = DefaultOutputSuffix
		}
		name = fileStem(cfg.SourcePath) + suffix
	} else {
		name = fileStem(name)
	}

	return filepath.Join(dir, name+outputExt)
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
