//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"sow-ai-api/internal/application/sow"
	"sow-ai-api/internal/config"
	"sow-ai-api/internal/infrastructure/llm"
	"sow-ai-api/internal/interfaces/http/handler"
	"sow-ai-api/internal/interfaces/http/router"
)

// AppSet 应用提供者集合
var AppSet = wire.NewSet(
	llm.NewEinoFactory,
	llm.NewCompleter,
	ProvideGenerationLimiter,
	ProvidePromptCompiler,
	ProvideResponseParser,
	ProvideCompletionFunc,
	sow.NewFallbackGenerator,
	sow.NewGenerator,
	handler.NewSOWHandler,
	router.New,
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(AppSet)
	return nil, nil, nil
}
