package v1

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scadasync/internal/model"
	"scadasync/internal/synchronizer"
)

const downloadTTL = 30 * time.Minute

// SyncResponse 同步响应
type SyncResponse struct {
	Result        *model.SyncResult            `json:"result,omitempty"`
	Events        []synchronizer.ProgressEvent `json:"events"`
	DownloadToken string                       `json:"downloadToken,omitempty"`
	Error         string                       `json:"error,omitempty"`
}

// Sync 上传工作簿并同步 SCADA_SIGNAL 描述
// POST /api/sync  (multipart: file, outputName, dryRun)
func (h *Handler) Sync(c *gin.Context) {
	uploaded, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, SyncResponse{
			Events: []synchronizer.ProgressEvent{},
			Error:  synchronizer.ErrMissingInput.Error(),
		})
		return
	}

	filename := filepath.Base(uploaded.Filename)
	uploadPath := filepath.Join(h.dataDir, "uploads", fmt.Sprintf("%s_%s", uuid.New().String(), filename))
	if err := os.MkdirAll(filepath.Dir(uploadPath), 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory"})
		return
	}
	if err := c.SaveUploadedFile(uploaded, uploadPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}
	defer os.Remove(uploadPath)

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	outputName := strings.TrimSpace(c.PostForm("outputName"))
	if outputName == "" {
		outputName = stem + h.outputSuffix()
	}
	dryRun := c.DefaultPostForm("dryRun", "false") == "true"

	// 输出放在按 run 隔离的目录，保证文件名与用户指定一致
	outputDir := filepath.Join(h.dataDir, "exports", uuid.New().String())
	if !dryRun {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare export directory"})
			return
		}
	}

	events := []synchronizer.ProgressEvent{}
	coordinator := synchronizer.NewCoordinator(h.store)
	result, err := coordinator.Run(model.RunConfig{
		SourcePath:       uploadPath,
		OutputDir:        outputDir,
		OutputName:       outputName,
		PrimarySheet:     h.sync.PrimarySheet,
		DryRun:           dryRun,
		MaxLoggedUpdates: h.sync.MaxLoggedUpdates,
	}, func(e synchronizer.ProgressEvent) {
		events = append(events, e)
	})
	if err != nil {
		_ = os.RemoveAll(outputDir)
		h.logger.Warn("sync failed", zap.String("file", filename), zap.Error(err))
		c.JSON(statusForError(err), SyncResponse{Events: events, Error: err.Error()})
		return
	}

	h.logger.Info("sync finished",
		zap.String("file", filename),
		zap.Int("processed", result.Processed),
		zap.Int("updated", result.Updated),
		zap.Bool("dryRun", result.DryRun),
	)

	resp := SyncResponse{Result: result, Events: events}
	if !result.DryRun {
		resp.DownloadToken = h.downloads.put(result.OutputPath, result.OutputFile, downloadTTL)
	}
	// 不向客户端暴露服务器路径
	result.OutputPath = ""
	result.OutputDir = ""
	c.JSON(http.StatusOK, resp)
}

// DownloadOutput 下载同步结果；下载后令牌失效，导出目录删除
// GET /api/sync/download/:token
func (h *Handler) DownloadOutput(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "download expired or not found"})
		return
	}
	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		removeOutput(item.filePath)
		c.JSON(http.StatusNotFound, gin.H{"error": "output file not found"})
		return
	}

	c.FileAttachment(item.filePath, item.fileName)

	h.downloads.delete(token)
	removeOutput(item.filePath)
}

func (h *Handler) outputSuffix() string {
	if h.sync.OutputSuffix != "" {
		return h.sync.OutputSuffix
	}
	return synchronizer.DefaultOutputSuffix
}

func statusForError(err error) int {
	var schemaErr *synchronizer.SchemaError
	switch {
	case errors.Is(err, synchronizer.ErrMissingInput):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
