package sow

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"sow-ai-api/internal/application/quota"
	apperrors "sow-ai-api/pkg/errors"
	"sow-ai-api/pkg/logger"
	"sow-ai-api/pkg/metrics"
	"sow-ai-api/pkg/tracer"
)

// CompletionFunc 外部文本补全能力：发送提示词，返回自由文本或错误。
// 由调用方注入，编排器不关心底层提供商。
type CompletionFunc func(ctx context.Context, prompt string) (string, error)

// outcomeKind LLM 路径的内部结局
type outcomeKind int

const (
	outcomeLLMSucceeded outcomeKind = iota
	outcomeLLMFailed
	outcomeParseInsufficient
)

// outcome LLM 调用与解析的中间结果，由 reduce 统一折算为最终 GenerationResult
type outcome struct {
	kind        outcomeKind
	sections    []GeneratedSection
	suggestions []string
	reason      string
}

// Generator SOW 合成编排器。
// 校验 -> 限流 -> 编译提示词 -> 调用补全 -> 解析/降级，
// 外部服务失败永远不会作为错误透出，调用方总能拿到完整文档。
type Generator struct {
	limiter  *quota.GenerationLimiter
	compiler *PromptCompiler
	parser   *ResponseParser
	fallback *FallbackGenerator
	complete CompletionFunc
}

// NewGenerator 创建编排器
func NewGenerator(
	limiter *quota.GenerationLimiter,
	compiler *PromptCompiler,
	parser *ResponseParser,
	fallback *FallbackGenerator,
	complete CompletionFunc,
) *Generator {
	return &Generator{
		limiter:  limiter,
		compiler: compiler,
		parser:   parser,
		fallback: fallback,
		complete: complete,
	}
}

// Generate 执行一次完整的 SOW 合成。
// 返回错误仅限两类：请求校验失败、限流拒绝；
// 其余失败模式全部在内部吸收为降级结果（AIAvailable=false + 说明）。
func (g *Generator) Generate(ctx context.Context, identity string, req *GenerationRequest, bundle *ContextBundle) (*GenerationResult, error) {
	ctx, span := tracer.Start(ctx, "sow.generate")
	defer span.End()

	req.Normalize()

	// 校验在消耗配额之前
	if err := req.Validate(bundle); err != nil {
		return nil, err
	}

	// 限流：拒绝是正常的可重试结果，携带等待时间
	decision := g.limiter.Check(identity)
	if !decision.Allowed {
		metrics.QuotaDeniedTotal.Inc()
		logger.Info(ctx, "sow generation denied by quota",
			"identity", identity,
			"retry_after_seconds", int(decision.RetryAfter.Seconds()),
		)
		return nil, apperrors.New(apperrors.CodeQuotaExceeded, decision.Message)
	}

	start := time.Now()
	out := g.invokeLLM(ctx, req, bundle)
	result := g.reduce(out, req, bundle)

	source := "template"
	status := "fallback"
	if result.AIAvailable {
		source = "ai"
		status = "success"
	}
	metrics.SOWGenerationTotal.WithLabelValues(source, status).Inc()
	metrics.SOWGenerationDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.String("sow.source", source),
		attribute.Int("sow.sections", len(result.Sections)),
	)
	logger.Info(ctx, "sow generation finished",
		"source", source,
		"sections", len(result.Sections),
		"suggestions", len(result.Suggestions),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

// invokeLLM 调用补全能力并解析，产出内部结局。
// 补全调用在限流锁之外执行，慢调用不会阻塞其他调用方的配额检查。
func (g *Generator) invokeLLM(ctx context.Context, req *GenerationRequest, bundle *ContextBundle) outcome {
	if g.complete == nil {
		return outcome{kind: outcomeLLMFailed, reason: "completion capability is not configured"}
	}

	prompt := g.compiler.Compile(req, bundle)

	ctx, span := tracer.Start(ctx, "sow.llm_call")
	defer span.End()

	raw, err := g.complete(ctx, prompt)
	if err != nil {
		logger.Warn(ctx, "sow llm call failed, falling back to templates", "error", err.Error())
		return outcome{kind: outcomeLLMFailed, reason: err.Error()}
	}
	if strings.TrimSpace(raw) == "" {
		logger.Warn(ctx, "sow llm returned empty response, falling back to templates")
		return outcome{kind: outcomeLLMFailed, reason: "empty response"}
	}

	sections, suggestions, recovered := g.parser.ParseWithStats(raw, req, bundle)
	metrics.SOWSectionsRecovered.Observe(float64(recovered))
	span.SetAttributes(attribute.Int("sow.sections_recovered", recovered))

	if recovered < g.parser.minSections {
		logger.Warn(ctx, "sow response yielded too few sections, discarded",
			"recovered", recovered,
			"min_sections", g.parser.minSections,
		)
		return outcome{kind: outcomeParseInsufficient, sections: sections}
	}
	return outcome{kind: outcomeLLMSucceeded, sections: sections, suggestions: suggestions}
}

// reduce 将内部结局折算为最终结果，降级策略集中在这一处
func (g *Generator) reduce(out outcome, req *GenerationRequest, bundle *ContextBundle) *GenerationResult {
	switch out.kind {
	case outcomeLLMSucceeded:
		return &GenerationResult{
			Sections:    out.sections,
			Suggestions: out.suggestions,
			AIAvailable: true,
			Note:        "SOW generated using AI. Please review and customize as needed.",
		}
	case outcomeParseInsufficient:
		// 解析器已整体回退为模板输出
		return &GenerationResult{
			Sections:    out.sections,
			Suggestions: []string{},
			AIAvailable: false,
			Note:        "AI response could not be parsed. Generated using templates. You can manually edit all sections.",
		}
	default:
		return &GenerationResult{
			Sections:    g.fallback.Full(req, bundle),
			Suggestions: []string{},
			AIAvailable: false,
			Note:        "OpenAI API is not available (" + out.reason + "). Generated using templates. You can manually edit all sections.",
		}
	}
}

// SectionResult 单章节重生成结果
type SectionResult struct {
	Title       string `json:"section_title"`
	Content     string `json:"content"`
	AIAvailable bool   `json:"ai_available"`
}

// RegenerateSection 重生成单个章节。
// 同样受限流约束；补全失败或正文为空时回退到该章节的模板。
func (g *Generator) RegenerateSection(ctx context.Context, identity string, target SectionID, req *GenerationRequest, bundle *ContextBundle, existing []GeneratedSection) (*SectionResult, error) {
	ctx, span := tracer.Start(ctx, "sow.regenerate_section")
	defer span.End()

	if !target.Valid() {
		return nil, apperrors.New(apperrors.CodeSectionNotFound, "unknown section title")
	}

	decision := g.limiter.Check(identity)
	if !decision.Allowed {
		metrics.QuotaDeniedTotal.Inc()
		return nil, apperrors.New(apperrors.CodeQuotaExceeded, decision.Message)
	}

	tpl, _ := TemplateFor(target)

	if g.complete == nil {
		return &SectionResult{Title: target.Title(), Content: tpl.Template, AIAvailable: false}, nil
	}

	prompt := g.compiler.CompileSection(target, req, bundle, existing)
	raw, err := g.complete(ctx, prompt)
	if err != nil {
		logger.Warn(ctx, "sow section regeneration failed, falling back to template",
			"section", target.Title(),
			"error", err.Error(),
		)
		return &SectionResult{Title: target.Title(), Content: tpl.Template, AIAvailable: false}, nil
	}

	content := ParseSectionContent(raw)
	if content == "" {
		return &SectionResult{Title: target.Title(), Content: tpl.Template, AIAvailable: false}, nil
	}
	return &SectionResult{Title: target.Title(), Content: content, AIAvailable: true}, nil
}

// LimitStatus 返回限流器状态快照，供前端展示
func (g *Generator) LimitStatus() quota.Status {
	return g.limiter.GetStatus()
}
