package sow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates_CatalogShape(t *testing.T) {
	templates := Templates()
	require.Len(t, templates, SectionCount)

	seen := make(map[string]bool, SectionCount)
	for i, tpl := range templates {
		assert.Equal(t, i+1, tpl.Order, "order must be sequential")
		assert.Equal(t, CanonicalTitles()[i], tpl.Title)
		assert.NotEmpty(t, tpl.Template, "template body must not be empty: %s", tpl.Title)
		assert.False(t, seen[tpl.Title], "duplicate title: %s", tpl.Title)
		seen[tpl.Title] = true
	}
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	first := Templates()
	first[0].Title = "mutated"

	second := Templates()
	assert.Equal(t, "1. Executive Summary / Purpose", second[0].Title)
}

func TestTemplateFor(t *testing.T) {
	tpl, ok := TemplateFor(SectionPricingPayment)
	require.True(t, ok)
	assert.Equal(t, "10. Pricing & Payment Terms", tpl.Title)
	assert.Equal(t, 10, tpl.Order)

	_, ok = TemplateFor(SectionID(0))
	assert.False(t, ok)
	_, ok = TemplateFor(SectionID(20))
	assert.False(t, ok)
}

func TestSectionByTitle(t *testing.T) {
	id, ok := SectionByTitle("  6. Technical Architecture  ")
	require.True(t, ok)
	assert.Equal(t, SectionTechnicalArchitecture, id)

	_, ok = SectionByTitle("6. Technical Architecture Overview")
	assert.False(t, ok, "exact lookup must not accept prefixes")

	_, ok = SectionByTitle("Unknown Section")
	assert.False(t, ok)
}

func TestMilestoneBlock(t *testing.T) {
	assert.Equal(t, "No milestones defined.", MilestoneBlock(0))
	assert.Equal(t, "No milestones defined.", MilestoneBlock(-2))

	block := MilestoneBlock(3)
	assert.Equal(t, 3, strings.Count(block, "- Name: [MILESTONE_"))
	assert.Contains(t, block, "Milestone 1:")
	assert.Contains(t, block, "[MILESTONE_2_NAME]")
	assert.Contains(t, block, "Milestone 3:")
	assert.Contains(t, block, "- Approval Checkpoint: [APPROVAL_REQUIRED]")
	// 块之间以空行分隔
	assert.Equal(t, 2, strings.Count(block, "\n\n"))
}

func TestAllSections(t *testing.T) {
	ids := AllSections()
	require.Len(t, ids, SectionCount)
	for i, id := range ids {
		assert.Equal(t, i+1, id.Order())
		assert.True(t, id.Valid())
		assert.NotEmpty(t, id.Title())
	}
	assert.Empty(t, SectionID(99).Title())
}
