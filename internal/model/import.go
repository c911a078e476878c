package model

import "time"

// RunConfig 单次同步的运行参数，每次调用构建一次，之后只读
type RunConfig struct {
	SourcePath       string // 源工作簿路径
	OutputDir        string // 输出目录
	OutputName       string // 输出文件名（不含扩展名），空则为 源文件名+OutputSuffix
	OutputSuffix     string // 默认输出文件名后缀
	PrimarySheet     string // 目标表名，空则使用 SCADA_SIGNAL
	DryRun           bool   // 只计算不写文件
	OpenFolder       bool   // 完成后打开输出目录
	MaxLoggedUpdates int    // 进度日志中展示的更新条数上限
}

// SignalUpdate 一条待写回的描述更新（Row 为工作表中的 1-based 行号）
type SignalUpdate struct {
	Row     int    `json:"row"`
	Path    string `json:"path"`
	DB      string `json:"db"`
	BaseTag string `json:"baseTag"`
	Variant string `json:"variant"`
	Old     string `json:"old"`
	New     string `json:"new"`
}

// ReconcileResult 同步计算结果
type ReconcileResult struct {
	Processed int            `json:"processed"`
	Updated   int            `json:"updated"`
	Updates   []SignalUpdate `json:"updates"`
	Column    int            `json:"-"` // Description 列号
}

// SyncResult 一次完整同步的结果（完成通知内容）
type SyncResult struct {
	Processed  int            `json:"processed"`
	Updated    int            `json:"updated"`
	TagsLoaded int            `json:"tagsLoaded"`
	OutputFile string         `json:"outputFile"` // 输出文件名
	OutputDir  string         `json:"outputDir"`  // 输出目录
	OutputPath string         `json:"outputPath"` // 完整路径
	DryRun     bool           `json:"dryRun"`
	Updates    []SignalUpdate `json:"updates"`
	Sheets     []SheetSummary `json:"sheets"`
	Duration   time.Duration  `json:"duration"`
}

// RunStatus 同步记录状态
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusSucceeded  RunStatus = "succeeded"
	RunStatusFailed     RunStatus = "failed"
)

// SyncRun 持久化的同步记录
type SyncRun struct {
	ID           string     `json:"id"`
	SourceFile   string     `json:"sourceFile"`
	OutputFile   string     `json:"outputFile"`
	Status       RunStatus  `json:"status"`
	Processed    int        `json:"processed"`
	Updated      int        `json:"updated"`
	TagsLoaded   int        `json:"tagsLoaded"`
	DryRun       bool       `json:"dryRun"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
