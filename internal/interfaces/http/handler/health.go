// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sow-ai-api/internal/config"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.cfg != nil {
		resp.Version = h.cfg.App.Version
	}
	c.JSON(http.StatusOK, resp)
}

// Ready 就绪检查接口。
// 服务无后端存储，就绪性只取决于 LLM 配置是否可用；
// 缺失时服务仍可用（模板降级），标记为 degraded 而非不可用。
// @Summary 就绪检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]*readinessCheck{
		"llm": {Status: "ok"},
	}

	if h.cfg == nil || len(h.cfg.LLM.Providers) == 0 {
		checks["llm"].Status = "degraded"
		checks["llm"].Error = "no llm provider configured, generation falls back to templates"
	} else if p, ok := h.cfg.LLM.Providers[h.cfg.LLM.DefaultProvider]; !ok || p.APIKey == "" {
		checks["llm"].Status = "degraded"
		checks["llm"].Error = "default llm provider missing or has no api key"
	}

	c.JSON(http.StatusOK, readinessResponse{
		Status: "ok",
		Checks: checks,
	})
}

// Live 存活检查接口
// @Summary 存活检查
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
