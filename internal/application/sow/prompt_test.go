package sow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() *GenerationRequest {
	return &GenerationRequest{
		ClientID:           42,
		ProjectTitle:       "Customer Portal Rebuild",
		ProjectDescription: "Rebuild the legacy customer portal with a modern stack.",
		Budget:             50000,
		StartDate:          "2025-01-01",
		EndDate:            "2025-03-01",
		PricingType:        PricingMilestones,
		NumMilestones:      4,
	}
}

func testBundle() *ContextBundle {
	return &ContextBundle{
		ClientName:  "Jane Smith",
		Company:     "Acme Corp",
		Email:       "jane@acme.example",
		TechStack:   []string{"React", "Go", "PostgreSQL"},
		Contracts:   []ContractSummary{{Title: "Retainer 2024", Type: "retainer", Status: "active"}},
		RecentNotes: []string{"Kickoff scheduled", "Budget approved", "Design review done", "Extra note"},
	}
}

func TestMilestoneShares(t *testing.T) {
	c := NewPromptCompiler(20, 3)

	assert.Equal(t, []float64{20, 20, 20, 20}, c.MilestoneShares(4))
	assert.Equal(t, []float64{80}, c.MilestoneShares(1))
	assert.Nil(t, c.MilestoneShares(0))

	// 残差折进最后一个里程碑
	assert.Equal(t, []float64{26.67, 26.67, 26.66}, c.MilestoneShares(3))
	shares := c.MilestoneShares(7)
	assert.Equal(t, 11.43, shares[0])
	assert.Equal(t, 11.42, shares[6])

	// 首付款 + 各里程碑份额之和恒为 100，对任意数量成立
	for n := 1; n <= 24; n++ {
		shares := c.MilestoneShares(n)
		require.Len(t, shares, n)
		total := 20.0
		for _, s := range shares {
			total += s
		}
		assert.InDelta(t, 100, total, 0.001, "n=%d shares=%v", n, shares)
	}
}

func TestCompile_Deterministic(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	req := testRequest()
	bundle := testBundle()

	first := c.Compile(req, bundle)
	second := c.Compile(req, bundle)
	assert.Equal(t, first, second, "same inputs must produce byte-identical prompts")
}

func TestCompile_MilestonePaymentSchedule(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	prompt := c.Compile(testRequest(), testBundle())

	assert.Contains(t, prompt, "- Pricing Type: MILESTONE-BASED")
	assert.Contains(t, prompt, "- First payment: 20% upon project kickoff (ALWAYS)")
	assert.Contains(t, prompt, "- Remaining 80% split evenly among 4 milestones")
	assert.Contains(t, prompt, "- Each milestone payment: 20% upon completion of that milestone")
	assert.Contains(t, prompt, "- Total must equal 100%: 20% + (20% x 4) = 100%")
	assert.Contains(t, prompt, "- Number of Milestones: 4")
	assert.Contains(t, prompt, "- Total Project Budget: $50,000.00")
	// 份额均分无残差时不出现末里程碑调整行
	assert.NotContains(t, prompt, "Final milestone payment")
}

func TestCompile_MilestoneResidualOnLastMilestone(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	req := testRequest()
	req.NumMilestones = 3

	prompt := c.Compile(req, testBundle())

	assert.Contains(t, prompt, "- Each milestone payment: 26.67% upon completion of that milestone")
	assert.Contains(t, prompt, "- Final milestone payment: 26.66% (adjusted so the total is exact)")
	assert.Contains(t, prompt, "- Total must equal 100%: 20% + (26.67% x 2) + 26.66% = 100%")
}

func TestCompile_HourlyPaymentSchedule(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	req := testRequest()
	req.PricingType = PricingHourly
	req.HourlyRate = 150

	prompt := c.Compile(req, testBundle())

	assert.Contains(t, prompt, "- Pricing Type: HOURLY")
	assert.Contains(t, prompt, "- Hourly Rate: $150.00 per hour")
	assert.Contains(t, prompt, "- Number of Milestones: N/A (Hourly contract)")
	assert.NotContains(t, prompt, "MILESTONE-BASED")
}

func TestCompile_HourlyRateFallsBackToBundle(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	req := testRequest()
	req.PricingType = PricingHourly
	req.HourlyRate = 0

	bundle := testBundle()
	bundle.HourlyRate = 95

	prompt := c.Compile(req, bundle)
	assert.Contains(t, prompt, "- Hourly Rate: $95.00 per hour")
}

func TestCompile_ProjectDuration(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	prompt := c.Compile(testRequest(), testBundle())

	// 2025-01-01 到 2025-03-01 共 59 天
	assert.Contains(t, prompt, "- Project Duration: 59 days (8.4 weeks, 2.0 months)")
}

func TestCompile_MissingFieldsMarkedNotSpecified(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	req := &GenerationRequest{
		ProjectTitle:  "Bare Project",
		PricingType:   PricingMilestones,
		NumMilestones: 2,
	}

	prompt := c.Compile(req, nil)

	assert.Contains(t, prompt, "- Start Date: Not specified")
	assert.Contains(t, prompt, "- End Date: Not specified")
	assert.Contains(t, prompt, "- Project Duration: Not specified")
	assert.Contains(t, prompt, "- Name: Not specified")
	assert.Contains(t, prompt, "- No additional context available")
	assert.Contains(t, prompt, "- Description: Not provided - use client context and project title to infer")
	// 预算未提供时不输出预算块
	assert.NotContains(t, prompt, "BUDGET INFORMATION")
}

func TestCompile_RecentNotesCapped(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	prompt := c.Compile(testRequest(), testBundle())

	assert.Contains(t, prompt, "- Kickoff scheduled")
	assert.Contains(t, prompt, "- Design review done")
	assert.NotContains(t, prompt, "Extra note")
}

func TestCompile_LongNoteTruncated(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	bundle := testBundle()
	bundle.RecentNotes = []string{strings.Repeat("x", 500)}

	prompt := c.Compile(testRequest(), bundle)
	assert.Contains(t, prompt, "- "+strings.Repeat("x", 200)+"\n")
	assert.NotContains(t, prompt, strings.Repeat("x", 201))
}

func TestCompile_OutputContract(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	prompt := c.Compile(testRequest(), testBundle())

	// 输出契约包含全部 19 个章节的哨兵行
	for _, title := range CanonicalTitles() {
		assert.Contains(t, prompt, "SECTION: "+title+"\n")
	}
	assert.Equal(t, SectionCount, strings.Count(prompt, "CONTENT: [generated content]"))
	assert.Contains(t, prompt, "SUGGESTIONS:\n")
	assert.Contains(t, prompt, "- Reference the tech stack: React, Go, PostgreSQL")
	assert.Contains(t, prompt, "- Retainer 2024 (retainer, active)")
}

func TestCompileSection(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	req := testRequest()
	existing := make([]GeneratedSection, 0, 8)
	for i := 0; i < 8; i++ {
		existing = append(existing, GeneratedSection{
			Title:   CanonicalTitles()[i],
			Content: strings.Repeat("c", 300),
			Order:   i + 1,
		})
	}

	prompt := c.CompileSection(SectionTechnicalArchitecture, req, testBundle(), existing)

	assert.Contains(t, prompt, "SECTION TO REGENERATE:\n6. Technical Architecture")
	assert.Contains(t, prompt, "SECTION: 6. Technical Architecture\n")
	// 既有章节上下文最多取前 5 个，正文截断到 200 字符
	assert.Equal(t, 5, strings.Count(prompt, ": "+strings.Repeat("c", 200)+"..."))
	assert.NotContains(t, prompt, CanonicalTitles()[5]+": ")
}

func TestCompileSection_NoExisting(t *testing.T) {
	c := NewPromptCompiler(20, 3)
	prompt := c.CompileSection(SectionDeliverables, testRequest(), nil, nil)

	assert.Contains(t, prompt, "EXISTING SECTIONS (for context):\n- None")
	assert.Contains(t, prompt, "SECTION: 4. Deliverables\n")
}

func TestNewPromptCompiler_Defaults(t *testing.T) {
	c := NewPromptCompiler(0, 0)
	assert.Equal(t, 20.0, c.firstPaymentPercent)
	assert.Equal(t, 3, c.maxRecentNotes)

	c = NewPromptCompiler(150, -1)
	assert.Equal(t, 20.0, c.firstPaymentPercent)
	assert.Equal(t, 3, c.maxRecentNotes)
}

func TestProjectDuration(t *testing.T) {
	assert.Equal(t, "59 days (8.4 weeks, 2.0 months)", projectDuration("2025-01-01", "2025-03-01"))
	assert.Equal(t, "", projectDuration("", "2025-03-01"))
	assert.Equal(t, "", projectDuration("2025-03-01", "2025-01-01"), "negative duration yields empty")
	assert.Equal(t, "", projectDuration("not-a-date", "2025-03-01"))
	// RFC3339 时间戳同样接受
	assert.Equal(t, "7 days (1.0 weeks, 0.2 months)",
		projectDuration("2025-01-01T00:00:00Z", "2025-01-08T00:00:00Z"))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "20", formatPercent(20))
	assert.Equal(t, "26.67", formatPercent(26.67))
	assert.Equal(t, "100", formatPercent(100))
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "999.00", formatMoney(999))
	assert.Equal(t, "1,000.00", formatMoney(1000))
	assert.Equal(t, "50,000.00", formatMoney(50000))
	assert.Equal(t, "1,234,567.89", formatMoney(1234567.89))
	assert.Equal(t, "0.50", formatMoney(0.5))
}
