package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sow-ai-api/internal/application/quota"
	"sow-ai-api/internal/application/sow"
	"sow-ai-api/internal/interfaces/http/dto"
)

// perfectLLMResponse 按输出契约构造完整的 19 章节回复
func perfectLLMResponse() string {
	var b strings.Builder
	for i, title := range sow.CanonicalTitles() {
		b.WriteString("SECTION: " + title + "\n")
		b.WriteString(fmt.Sprintf("CONTENT: Generated content %d.\n\n", i+1))
	}
	b.WriteString("SUGGESTIONS:\nAdd a staging environment.\n")
	return b.String()
}

func newTestRouter(complete sow.CompletionFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	fallback := sow.NewFallbackGenerator()
	generator := sow.NewGenerator(
		quota.NewGenerationLimiter(3, 300*time.Second, []string{"admin@example.com"}),
		sow.NewPromptCompiler(20, 3),
		sow.NewResponseParser(5, fallback),
		fallback,
		complete,
	)
	h := NewSOWHandler(generator)

	engine := gin.New()
	v1 := engine.Group("/v1")
	group := v1.Group("/sow")
	group.POST("/generate", h.Generate)
	group.GET("/limit", h.LimitStatus)
	group.GET("/templates", h.Templates)
	group.POST("/sections/regenerate", h.RegenerateSection)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Email", "user@example.com")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func generateBody() map[string]any {
	return map[string]any{
		"client_id":      42,
		"project_title":  "Customer Portal Rebuild",
		"pricing_type":   "milestones",
		"num_milestones": 4,
		"budget":         50000,
		"start_date":     "2025-01-01",
		"end_date":       "2025-03-01",
		"context": map[string]any{
			"name":       "Jane Smith",
			"company":    "Acme Corp",
			"tech_stack": []string{"React", "Go"},
		},
	}
}

func TestSOWHandler_Generate(t *testing.T) {
	engine := newTestRouter(func(ctx context.Context, prompt string) (string, error) {
		return perfectLLMResponse(), nil
	})

	w := doJSON(t, engine, http.MethodPost, "/v1/sow/generate", generateBody())
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.GenerateSOWResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Code)
	assert.True(t, resp.Data.AIAvailable)
	require.Len(t, resp.Data.Sections, sow.SectionCount)
	assert.Equal(t, "1. Executive Summary / Purpose", resp.Data.Sections[0].Title)
	assert.Equal(t, []string{"Add a staging environment."}, resp.Data.Suggestions)
}

func TestSOWHandler_Generate_MissingTitle(t *testing.T) {
	engine := newTestRouter(nil)

	body := generateBody()
	delete(body, "project_title")
	w := doJSON(t, engine, http.MethodPost, "/v1/sow/generate", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSOWHandler_Generate_ValidationError(t *testing.T) {
	engine := newTestRouter(nil)

	body := generateBody()
	body["num_milestones"] = 0
	w := doJSON(t, engine, http.MethodPost, "/v1/sow/generate", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "4002", resp.Error.ErrorCode)
}

func TestSOWHandler_Generate_QuotaExceeded(t *testing.T) {
	engine := newTestRouter(func(ctx context.Context, prompt string) (string, error) {
		return perfectLLMResponse(), nil
	})

	for i := 0; i < 3; i++ {
		w := doJSON(t, engine, http.MethodPost, "/v1/sow/generate", generateBody())
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, engine, http.MethodPost, "/v1/sow/generate", generateBody())
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "Rate limit exceeded")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "4004", resp.Error.ErrorCode)
}

func TestSOWHandler_Generate_BypassIdentity(t *testing.T) {
	engine := newTestRouter(func(ctx context.Context, prompt string) (string, error) {
		return perfectLLMResponse(), nil
	})

	for i := 0; i < 5; i++ {
		raw, err := json.Marshal(generateBody())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/sow/generate", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Email", "admin@example.com")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "bypass identity must never be throttled")
	}
}

func TestSOWHandler_Generate_FallbackOnLLMFailure(t *testing.T) {
	engine := newTestRouter(func(ctx context.Context, prompt string) (string, error) {
		return "", fmt.Errorf("connection refused")
	})

	w := doJSON(t, engine, http.MethodPost, "/v1/sow/generate", generateBody())
	require.Equal(t, http.StatusOK, w.Code, "llm failure must still produce a full document")

	var resp dto.Response[dto.GenerateSOWResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.AIAvailable)
	require.Len(t, resp.Data.Sections, sow.SectionCount)
	assert.Contains(t, resp.Data.Note, "Generated using templates")
	// 客户名来自请求上下文，替换进降级模板
	assert.Contains(t, resp.Data.Sections[0].Content, "Jane Smith")
}

func TestSOWHandler_LimitStatus(t *testing.T) {
	engine := newTestRouter(func(ctx context.Context, prompt string) (string, error) {
		return perfectLLMResponse(), nil
	})

	w := doJSON(t, engine, http.MethodGet, "/v1/sow/limit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[quota.Status]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Data.RequestsUsed)
	assert.Equal(t, 3, resp.Data.RequestsRemaining)
	assert.True(t, resp.Data.CanUse)

	// 查询不消耗配额
	for i := 0; i < 5; i++ {
		doJSON(t, engine, http.MethodGet, "/v1/sow/limit", nil)
	}
	w = doJSON(t, engine, http.MethodGet, "/v1/sow/limit", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Data.RequestsRemaining)
}

func TestSOWHandler_Templates(t *testing.T) {
	engine := newTestRouter(nil)

	w := doJSON(t, engine, http.MethodGet, "/v1/sow/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[[]dto.SectionTemplateDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, sow.SectionCount)
	assert.Equal(t, "1. Executive Summary / Purpose", resp.Data[0].Title)
	assert.Equal(t, 19, resp.Data[18].Order)
}

func TestSOWHandler_RegenerateSection(t *testing.T) {
	engine := newTestRouter(func(ctx context.Context, prompt string) (string, error) {
		return "SECTION: 4. Deliverables\nCONTENT: Fresh deliverables content.", nil
	})

	body := map[string]any{
		"section_title": "4. Deliverables",
		"project_title": "Customer Portal Rebuild",
	}
	w := doJSON(t, engine, http.MethodPost, "/v1/sow/sections/regenerate", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response[dto.RegenerateSectionResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "4. Deliverables", resp.Data.SectionTitle)
	assert.Equal(t, "Fresh deliverables content.", resp.Data.Content)
	assert.True(t, resp.Data.AIAvailable)
}

func TestSOWHandler_RegenerateSection_UnknownTitle(t *testing.T) {
	engine := newTestRouter(nil)

	body := map[string]any{
		"section_title": "20. Nonexistent Section",
		"project_title": "X",
	}
	w := doJSON(t, engine, http.MethodPost, "/v1/sow/sections/regenerate", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
