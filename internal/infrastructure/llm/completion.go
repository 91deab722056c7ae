package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"sow-ai-api/internal/application/sow"
	"sow-ai-api/internal/config"
	"sow-ai-api/pkg/metrics"
)

// systemPrompt SOW 生成的系统提示词
const systemPrompt = "You are an expert at writing professional Statements of Work (SOW) for software development projects. " +
	"Generate comprehensive, legally-sound SOW content based on the provided context."

// Completer 将 Eino ChatModel 适配为编排器所需的补全能力
type Completer struct {
	factory  *EinoFactory
	provider string
	model    string
}

// NewCompleter 创建补全适配器，使用配置中的默认提供商
func NewCompleter(factory *EinoFactory, cfg *config.Config) *Completer {
	provider := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[provider]; ok {
		modelName = p.Model
	}
	return &Completer{
		factory:  factory,
		provider: provider,
		model:    modelName,
	}
}

// Complete 发送提示词并返回模型的自由文本回复。
// 满足 sow.CompletionFunc 签名，上层通过方法值注入。
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	chatModel, err := c.factory.Get(ctx, c.provider)
	if err != nil {
		return "", err
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(prompt),
	}

	start := time.Now()
	out, err := chatModel.Generate(ctx, msgs)
	metrics.LLMCallDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", fmt.Errorf("llm generate failed: %w", err)
	}
	if out == nil {
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", fmt.Errorf("empty llm response")
	}

	metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	return out.Content, nil
}

// Func 返回可注入编排器的补全函数
func (c *Completer) Func() sow.CompletionFunc {
	return c.Complete
}
