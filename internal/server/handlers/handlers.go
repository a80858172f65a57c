package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mankita13/clockify-report-app/internal/config"
	"github.com/Mankita13/clockify-report-app/internal/exporter"
	"github.com/Mankita13/clockify-report-app/internal/model"
	"github.com/Mankita13/clockify-report-app/internal/store"
)

const (
	appName    = "clockify-report"
	appVersion = "1.0.0"

	downloadTTL = time.Hour
)

// Handlers API处理器
type Handlers struct {
	store     *store.Store
	report    config.ReportConfig
	downloads *downloadStore
}

// NewHandlers 创建处理器
func NewHandlers(store *store.Store, report config.ReportConfig) *Handlers {
	return &Handlers{
		store:     store,
		report:    report,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handlers) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.Status)
	router.GET("/config", h.GetConfig)

	// 报表生成与下载
	router.POST("/generate", h.Generate)
	router.GET("/download/:token", h.Download)

	// 生成历史
	router.GET("/runs", h.ListRuns)
}

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// Status 获取服务状态
func (h *Handlers) Status(c *gin.Context) {
	success(c, gin.H{
		"name":    appName,
		"version": appVersion,
	})
}

// GetConfig 获取页面预填配置
func (h *Handlers) GetConfig(c *gin.Context) {
	success(c, gin.H{
		"defaultRoot": h.report.DefaultRoot,
		"saveCopy":    h.report.SaveCopy,
	})
}

// Generate 扫描根目录并生成汇总工作簿
//
// 先校验根目录有效，再执行聚合；生成的字节放入下载缓存，
// 勾选 saveCopy 时额外写入根目录，写入失败只作为警告返回。
func (h *Handlers) Generate(c *gin.Context) {
	var req struct {
		Root     string `json:"root"`
		SaveCopy bool   `json:"saveCopy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, 1001, "参数错误")
		return
	}

	info, err := os.Stat(req.Root)
	if err != nil || !info.IsDir() {
		errorResponse(c, 1002, "无效的目录路径，请填写包含项目子文件夹的完整路径")
		return
	}

	result, err := exporter.Build(req.Root)
	if err != nil {
		errorResponse(c, 3001, fmt.Sprintf("生成失败: %v", err))
		return
	}

	token := h.downloads.put(result.Filename, result.Bytes, downloadTTL)

	var savedPath, saveError string
	if req.SaveCopy {
		savedPath = filepath.Join(req.Root, result.Filename)
		if err := os.WriteFile(savedPath, result.Bytes, 0644); err != nil {
			saveError = fmt.Sprintf("无法保存到目录: %v", err)
			savedPath = ""
		}
	}

	// 历史记录尽力而为，失败不影响本次生成
	if h.store != nil {
		if _, err := h.store.InsertRun(result.Filename, req.Root, result.Summaries); err != nil {
			log.Printf("记录生成历史失败: %v", err)
		}
	}

	// 展示用汇总按项目名排序
	summaries := make([]model.ProjectSummary, len(result.Summaries))
	copy(summaries, result.Summaries)
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Project < summaries[j].Project
	})

	success(c, gin.H{
		"downloadUrl": fmt.Sprintf("/api/download/%s", token),
		"filename":    result.Filename,
		"summaries":   summaries,
		"logs":        result.Log.Lines(),
		"savedPath":   savedPath,
		"saveError":   saveError,
		"expiresAt":   time.Now().Add(downloadTTL).Format(time.RFC3339),
	})
}

// Download 下载已生成的工作簿
func (h *Handlers) Download(c *gin.Context) {
	token := c.Param("token")

	d, ok := h.downloads.get(token)
	if !ok {
		c.String(http.StatusNotFound, "文件不存在或已过期")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", d.filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", d.data)
}

// ListRuns 查询最近的生成历史
func (h *Handlers) ListRuns(c *gin.Context) {
	if h.store == nil {
		errorResponse(c, 5001, "历史记录不可用")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		errorResponse(c, 5002, fmt.Sprintf("查询历史失败: %v", err))
		return
	}
	success(c, runs)
}
