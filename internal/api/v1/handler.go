package v1

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scadasync/internal/config"
	"scadasync/internal/store"
)

// Handler V1 API 处理器
type Handler struct {
	store     *store.Store
	sync      config.SyncConfig
	dataDir   string
	downloads *downloadStore
	logger    *zap.Logger
}

// NewHandler 创建 V1 API 处理器；dataDir 下的 uploads/exports 用于暂存上传与输出文件
func NewHandler(store *store.Store, syncCfg config.SyncConfig, dataDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:     store,
		sync:      syncCfg,
		dataDir:   dataDir,
		downloads: newDownloadStore(),
		logger:    logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.GET("/label", h.FormatLabel)

	// 同步
	router.POST("/sync", h.Sync)
	router.GET("/sync/download/:token", h.DownloadOutput)

	// 同步记录
	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id", h.GetRun)
	router.DELETE("/runs/:id", h.DeleteRun)
}
