package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scadasync/internal/model"
	"scadasync/internal/synchronizer"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	PrimarySheet string         `json:"primarySheet"`
	TotalRuns    int            `json:"totalRuns"`
	LastRun      *model.SyncRun `json:"lastRun,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{PrimarySheet: h.primarySheet()}

	total, err := h.store.CountRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp.TotalRuns = total

	if total > 0 {
		runs, err := h.store.ListRuns(1)
		if err == nil && len(runs) > 0 {
			resp.LastRun = runs[0]
		}
	}

	c.JSON(http.StatusOK, resp)
}

// LabelItem 后缀格式化结果
type LabelItem struct {
	Token      string `json:"token"`
	Label      string `json:"label"`
	IsDataType bool   `json:"isDataType"`
}

// FormatLabel 预览变量后缀的显示文本
// GET /api/label?token=HiAlarm&token=AI
func (h *Handler) FormatLabel(c *gin.Context) {
	tokens := c.QueryArray("token")
	if len(tokens) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	items := make([]LabelItem, 0, len(tokens))
	for _, t := range tokens {
		items = append(items, LabelItem{
			Token:      t,
			Label:      synchronizer.FormatSignalLabel(t),
			IsDataType: synchronizer.IsDataTypeToken(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) primarySheet() string {
	if h.sync.PrimarySheet != "" {
		return h.sync.PrimarySheet
	}
	return model.PrimarySheetName
}
