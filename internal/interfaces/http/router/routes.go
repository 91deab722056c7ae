// Package router 提供 HTTP 路由配置
package router

import (
	"sow-ai-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	sowHandler *handler.SOWHandler,
) {
	// SOW 生成
	sow := v1.Group("/sow")
	{
		sow.POST("/generate", sowHandler.Generate)
		sow.GET("/limit", sowHandler.LimitStatus)
		sow.GET("/templates", sowHandler.Templates)
		sow.POST("/sections/regenerate", sowHandler.RegenerateSection)
	}
}
