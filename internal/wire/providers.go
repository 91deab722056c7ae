// Package wire 提供依赖注入配置
package wire

import (
	"sow-ai-api/internal/application/quota"
	"sow-ai-api/internal/application/sow"
	"sow-ai-api/internal/config"
	"sow-ai-api/internal/infrastructure/llm"
)

// ProvideGenerationLimiter 提供生成配额限流器
func ProvideGenerationLimiter(cfg *config.Config) *quota.GenerationLimiter {
	return quota.NewGenerationLimiter(
		cfg.SOW.Limiter.MaxUses,
		cfg.SOW.Limiter.Cooldown,
		cfg.SOW.Limiter.BypassIdentities,
	)
}

// ProvidePromptCompiler 提供提示词编译器
func ProvidePromptCompiler(cfg *config.Config) *sow.PromptCompiler {
	return sow.NewPromptCompiler(
		cfg.SOW.Prompt.FirstPaymentPercent,
		cfg.SOW.Prompt.MaxRecentNotes,
	)
}

// ProvideResponseParser 提供响应解析器
func ProvideResponseParser(cfg *config.Config, fallback *sow.FallbackGenerator) *sow.ResponseParser {
	return sow.NewResponseParser(cfg.SOW.Parser.MinSections, fallback)
}

// ProvideCompletionFunc 提供注入编排器的补全能力
func ProvideCompletionFunc(completer *llm.Completer) sow.CompletionFunc {
	return completer.Func()
}
