package sow

import (
	"strings"

	apperrors "sow-ai-api/pkg/errors"
)

// PricingType 定价模式
type PricingType string

// 支持的定价模式
const (
	PricingMilestones PricingType = "milestones"
	PricingHourly     PricingType = "hourly"
)

// GenerationRequest 描述一次 SOW 合成请求，构造后不再变更
type GenerationRequest struct {
	ClientID           int64
	ProjectTitle       string
	ProjectDescription string
	Budget             float64
	StartDate          string // YYYY-MM-DD
	EndDate            string // YYYY-MM-DD
	PricingType        PricingType
	NumMilestones      int     // PricingMilestones 时必填且 > 0
	HourlyRate         float64 // PricingHourly 时必填且 > 0
}

// ContractSummary 历史合同摘要
type ContractSummary struct {
	Title  string
	Type   string
	Status string
}

// ContextBundle 提示词可引用的客户/项目上下文快照，核心流程只读不写
type ContextBundle struct {
	ClientName      string
	Company         string
	Email           string
	Address         string
	Description     string
	TechStack       []string
	Contracts       []ContractSummary
	RecentNotes     []string
	HourlyRate      float64
	LastMeetingNote string
	Timeline        string
	ContractStatus  string
	ContractType    string
	ContractDueDate string
}

// GeneratedSection 一个已生成的章节，创建后不再变更
type GeneratedSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// GenerationResult 编排器输出。
// 不变量：Sections 恒为 19 个，Order 为 1..19 连续且无重复。
type GenerationResult struct {
	Sections    []GeneratedSection `json:"sections"`
	Suggestions []string           `json:"suggestions"`
	AIAvailable bool               `json:"ai_available"`
	Note        string             `json:"note"`
}

// Normalize 规范化请求字段（定价模式小写、标题去空白）
func (r *GenerationRequest) Normalize() {
	r.ProjectTitle = strings.TrimSpace(r.ProjectTitle)
	r.ProjectDescription = strings.TrimSpace(r.ProjectDescription)
	if r.PricingType == "" {
		r.PricingType = PricingMilestones
	}
	r.PricingType = PricingType(strings.ToLower(string(r.PricingType)))
}

// Validate 校验请求；定价模式的必填参数缺失或非正时返回校验错误。
// 校验在消耗配额之前进行。时薪缺失时允许回退到上下文中的客户时薪。
func (r *GenerationRequest) Validate(bundle *ContextBundle) error {
	if r.ProjectTitle == "" {
		return apperrors.New(apperrors.CodeValidationFailed, "project_title is required")
	}
	switch r.PricingType {
	case PricingMilestones:
		if r.NumMilestones <= 0 {
			return apperrors.New(apperrors.CodeValidationFailed,
				"num_milestones is required and must be > 0 for milestone-based pricing")
		}
	case PricingHourly:
		if r.EffectiveHourlyRate(bundle) <= 0 {
			return apperrors.New(apperrors.CodeValidationFailed,
				"hourly_rate is required and must be > 0 for hourly pricing")
		}
	default:
		return apperrors.New(apperrors.CodeValidationFailed,
			"pricing_type must be 'milestones' or 'hourly'")
	}
	return nil
}

// EffectiveHourlyRate 请求未携带时回退到上下文中的客户时薪
func (r *GenerationRequest) EffectiveHourlyRate(bundle *ContextBundle) float64 {
	if r.HourlyRate > 0 {
		return r.HourlyRate
	}
	if bundle != nil && bundle.HourlyRate > 0 {
		return bundle.HourlyRate
	}
	return 0
}
