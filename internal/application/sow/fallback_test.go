package sow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertCanonicalOrder 校验 19 个章节按规范顺序排列且无缺漏
func assertCanonicalOrder(t *testing.T, sections []GeneratedSection) {
	t.Helper()
	require.Len(t, sections, SectionCount)
	for i, sec := range sections {
		assert.Equal(t, i+1, sec.Order)
		assert.Equal(t, CanonicalTitles()[i], sec.Title)
		assert.NotEmpty(t, sec.Content)
	}
}

func TestFallbackFull_SubstitutesPlaceholders(t *testing.T) {
	g := NewFallbackGenerator()
	req := &GenerationRequest{
		ProjectTitle:  "Inventory Platform",
		PricingType:   PricingMilestones,
		NumMilestones: 4,
	}
	bundle := &ContextBundle{
		ClientName: "Jane Smith",
		Company:    "Acme Corp",
	}

	sections := g.Full(req, bundle)
	assertCanonicalOrder(t, sections)

	// 客户名替换进摘要与 IP 章节
	assert.Contains(t, sections[0].Content, "Jane Smith")
	assert.NotContains(t, sections[0].Content, "[CLIENT_NAME]")
	assert.Contains(t, sections[SectionIPOwnership-1].Content, "Jane Smith")

	// 里程碑章节整体替换为占位块
	assert.Equal(t, MilestoneBlock(4), sections[SectionMilestones-1].Content)
}

func TestFallbackFull_NilBundleKeepsPlaceholders(t *testing.T) {
	g := NewFallbackGenerator()
	req := &GenerationRequest{ProjectTitle: "X", NumMilestones: 2}

	sections := g.Full(req, nil)
	assertCanonicalOrder(t, sections)
	assert.Contains(t, sections[0].Content, "[CLIENT_NAME]")
}

func TestFallbackFull_NilRequest(t *testing.T) {
	g := NewFallbackGenerator()
	sections := g.Full(nil, nil)
	assertCanonicalOrder(t, sections)
	assert.Equal(t, "No milestones defined.", sections[SectionMilestones-1].Content)
}

func TestFillMissing_PadsToCanonicalSet(t *testing.T) {
	g := NewFallbackGenerator()
	existing := []GeneratedSection{
		{Title: "4. Deliverables", Content: "Custom deliverables content", Order: 1},
		{Title: "1. Executive Summary / Purpose", Content: "Custom summary", Order: 2},
	}

	out := g.FillMissing(existing)
	assertCanonicalOrder(t, out)

	// 已有章节保留内容，但序号归一到规范位置
	assert.Equal(t, "Custom summary", out[0].Content)
	assert.Equal(t, "Custom deliverables content", out[3].Content)

	// 其余章节来自模板
	tpl, _ := TemplateFor(SectionDefinitions)
	assert.Equal(t, tpl.Template, out[1].Content)
}

func TestFillMissing_DropsUnknownTitles(t *testing.T) {
	g := NewFallbackGenerator()
	existing := []GeneratedSection{
		{Title: "Random Heading", Content: "noise", Order: 1},
	}

	out := g.FillMissing(existing)
	assertCanonicalOrder(t, out)
	for _, sec := range out {
		assert.NotEqual(t, "noise", sec.Content)
	}
}

func TestFillMissing_FirstOccurrenceWins(t *testing.T) {
	g := NewFallbackGenerator()
	existing := []GeneratedSection{
		{Title: "4. Deliverables", Content: "first", Order: 1},
		{Title: "4. Deliverables", Content: "second", Order: 2},
	}

	out := g.FillMissing(existing)
	assertCanonicalOrder(t, out)
	assert.Equal(t, "first", out[3].Content)
}

func TestFillMissing_EmptyInput(t *testing.T) {
	g := NewFallbackGenerator()
	out := g.FillMissing(nil)
	assertCanonicalOrder(t, out)
}
