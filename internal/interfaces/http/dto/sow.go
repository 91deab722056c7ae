package dto

import "sow-ai-api/internal/application/sow"

// ContractSummaryDTO 历史合同摘要
type ContractSummaryDTO struct {
	Title  string `json:"title"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ClientContextDTO 调用方组装的客户/项目上下文
type ClientContextDTO struct {
	Name            string               `json:"name"`
	Company         string               `json:"company"`
	Email           string               `json:"email"`
	Address         string               `json:"address"`
	Description     string               `json:"description"`
	TechStack       []string             `json:"tech_stack"`
	Contracts       []ContractSummaryDTO `json:"contracts"`
	RecentNotes     []string             `json:"recent_notes"`
	HourlyRate      float64              `json:"hourly_rate,omitempty"`
	LastMeetingNote string               `json:"notes_from_last_meeting,omitempty"`
	Timeline        string               `json:"timeline,omitempty"`
	ContractStatus  string               `json:"contract_status,omitempty"`
	ContractType    string               `json:"contract_type,omitempty"`
	ContractDueDate string               `json:"contract_due_date,omitempty"`
}

// GenerateSOWRequest AI 生成 SOW 请求
type GenerateSOWRequest struct {
	ClientID           int64             `json:"client_id" binding:"required"`
	ProjectTitle       string            `json:"project_title" binding:"required"`
	ProjectDescription string            `json:"project_description"`
	Budget             float64           `json:"budget"`
	StartDate          string            `json:"start_date"`
	EndDate            string            `json:"end_date"`
	PricingType        string            `json:"pricing_type"`
	NumMilestones      int               `json:"num_milestones"`
	HourlyRate         float64           `json:"hourly_rate"`
	Context            *ClientContextDTO `json:"context"`
}

// SectionDTO 生成的章节
type SectionDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

// GenerateSOWResponse AI 生成 SOW 响应
type GenerateSOWResponse struct {
	Sections    []SectionDTO `json:"sections"`
	Suggestions []string     `json:"suggestions"`
	AIAvailable bool         `json:"ai_available"`
	Note        string       `json:"note"`
}

// RegenerateSectionRequest 单章节重生成请求
type RegenerateSectionRequest struct {
	SectionTitle     string            `json:"section_title" binding:"required"`
	ProjectTitle     string            `json:"project_title" binding:"required"`
	StartDate        string            `json:"start_date"`
	EndDate          string            `json:"end_date"`
	Context          *ClientContextDTO `json:"context"`
	ExistingSections []SectionDTO      `json:"existing_sections"`
}

// RegenerateSectionResponse 单章节重生成响应
type RegenerateSectionResponse struct {
	SectionTitle string `json:"section_title"`
	Content      string `json:"content"`
	AIAvailable  bool   `json:"ai_available"`
}

// SectionTemplateDTO 章节模板
type SectionTemplateDTO struct {
	Title        string `json:"title"`
	Order        int    `json:"order"`
	Template     string `json:"template"`
	Customizable bool   `json:"customizable"`
}

// ToGenerationRequest 转换为应用层请求
func (r *GenerateSOWRequest) ToGenerationRequest() *sow.GenerationRequest {
	return &sow.GenerationRequest{
		ClientID:           r.ClientID,
		ProjectTitle:       r.ProjectTitle,
		ProjectDescription: r.ProjectDescription,
		Budget:             r.Budget,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		PricingType:        sow.PricingType(r.PricingType),
		NumMilestones:      r.NumMilestones,
		HourlyRate:         r.HourlyRate,
	}
}

// ToContextBundle 转换为应用层上下文快照
func (d *ClientContextDTO) ToContextBundle() *sow.ContextBundle {
	if d == nil {
		return &sow.ContextBundle{}
	}
	contracts := make([]sow.ContractSummary, 0, len(d.Contracts))
	for _, c := range d.Contracts {
		contracts = append(contracts, sow.ContractSummary{
			Title:  c.Title,
			Type:   c.Type,
			Status: c.Status,
		})
	}
	return &sow.ContextBundle{
		ClientName:      d.Name,
		Company:         d.Company,
		Email:           d.Email,
		Address:         d.Address,
		Description:     d.Description,
		TechStack:       d.TechStack,
		Contracts:       contracts,
		RecentNotes:     d.RecentNotes,
		HourlyRate:      d.HourlyRate,
		LastMeetingNote: d.LastMeetingNote,
		Timeline:        d.Timeline,
		ContractStatus:  d.ContractStatus,
		ContractType:    d.ContractType,
		ContractDueDate: d.ContractDueDate,
	}
}

// ToSectionDTOs 转换章节列表
func ToSectionDTOs(sections []sow.GeneratedSection) []SectionDTO {
	out := make([]SectionDTO, 0, len(sections))
	for _, s := range sections {
		out = append(out, SectionDTO{Title: s.Title, Content: s.Content, Order: s.Order})
	}
	return out
}

// ToGeneratedSections DTO 章节转应用层章节
func ToGeneratedSections(sections []SectionDTO) []sow.GeneratedSection {
	out := make([]sow.GeneratedSection, 0, len(sections))
	for _, s := range sections {
		out = append(out, sow.GeneratedSection{Title: s.Title, Content: s.Content, Order: s.Order})
	}
	return out
}
