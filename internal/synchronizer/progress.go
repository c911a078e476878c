package synchronizer

import "time"

// 进度事件类型
const (
	EventStart   = "start"
	EventInfo    = "info"
	EventSheet   = "sheet"
	EventUpdate  = "update"
	EventWarning = "warning"
	EventDone    = "done"
	EventError   = "error"
)

// ProgressEvent 同步进度事件（CLI 日志 / HTTP 返回）
type ProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func reportProgress(progress func(ProgressEvent), typ, message string, data interface{}) {
	if progress == nil {
		return
	}
	progress(ProgressEvent{
		Type:      typ,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}
