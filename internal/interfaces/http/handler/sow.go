// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"sow-ai-api/internal/application/sow"
	"sow-ai-api/internal/interfaces/http/dto"
	"sow-ai-api/pkg/logger"
)

// identityHeader 调用方身份头，用于限流白名单匹配
const identityHeader = "X-User-Email"

// SOWHandler SOW 生成相关处理器
type SOWHandler struct {
	generator *sow.Generator
}

// NewSOWHandler 创建 SOW 处理器
func NewSOWHandler(generator *sow.Generator) *SOWHandler {
	return &SOWHandler{generator: generator}
}

// Generate 生成完整 SOW
// @Summary 生成完整 SOW
// @Description 一次调用生成全部 19 个章节；AI 不可用时降级为模板
// @Tags SOW
// @Accept json
// @Produce json
// @Success 200 {object} dto.GenerateSOWResponse
// @Router /v1/sow/generate [post]
func (h *SOWHandler) Generate(c *gin.Context) {
	var req dto.GenerateSOWRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	bundle := req.Context.ToContextBundle()
	result, err := h.generator.Generate(
		c.Request.Context(),
		c.GetHeader(identityHeader),
		req.ToGenerationRequest(),
		bundle,
	)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	dto.Success(c, dto.GenerateSOWResponse{
		Sections:    dto.ToSectionDTOs(result.Sections),
		Suggestions: result.Suggestions,
		AIAvailable: result.AIAvailable,
		Note:        result.Note,
	})
}

// RegenerateSection 重生成单个章节
// @Summary 重生成单个章节
// @Description 基于既有章节上下文重生成指定章节；失败时回退到模板
// @Tags SOW
// @Accept json
// @Produce json
// @Success 200 {object} dto.RegenerateSectionResponse
// @Router /v1/sow/sections/regenerate [post]
func (h *SOWHandler) RegenerateSection(c *gin.Context) {
	var req dto.RegenerateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	target, ok := sow.SectionByTitle(req.SectionTitle)
	if !ok {
		dto.NotFound(c, "unknown section title: "+req.SectionTitle)
		return
	}

	genReq := &sow.GenerationRequest{
		ProjectTitle: req.ProjectTitle,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	result, err := h.generator.RegenerateSection(
		c.Request.Context(),
		c.GetHeader(identityHeader),
		target,
		genReq,
		req.Context.ToContextBundle(),
		dto.ToGeneratedSections(req.ExistingSections),
	)
	if err != nil {
		dto.FromAppError(c, err)
		return
	}

	logger.Debug(c.Request.Context(), "sow section regenerated",
		"section", result.Title,
		"ai_available", result.AIAvailable,
	)
	dto.Success(c, dto.RegenerateSectionResponse{
		SectionTitle: result.Title,
		Content:      result.Content,
		AIAvailable:  result.AIAvailable,
	})
}

// LimitStatus 查询限流状态
// @Summary 查询限流状态
// @Description 返回当前配额使用与冷却状态，查询不消耗配额
// @Tags SOW
// @Produce json
// @Router /v1/sow/limit [get]
func (h *SOWHandler) LimitStatus(c *gin.Context) {
	dto.Success(c, h.generator.LimitStatus())
}

// Templates 返回全部章节模板
// @Summary 返回全部章节模板
// @Description 19 个规范章节的默认模板，按顺序返回
// @Tags SOW
// @Produce json
// @Router /v1/sow/templates [get]
func (h *SOWHandler) Templates(c *gin.Context) {
	templates := sow.Templates()
	out := make([]dto.SectionTemplateDTO, 0, len(templates))
	for _, t := range templates {
		out = append(out, dto.SectionTemplateDTO{
			Title:        t.Title,
			Order:        t.Order,
			Template:     t.Template,
			Customizable: t.Customizable,
		})
	}
	dto.Success(c, out)
}
