// Package sow 提供 SOW（Statement of Work）文档合成能力：
// 提示词编译、模板目录、降级生成、响应解析与生成编排。
package sow

import "strings"

// SectionID 标识 19 个规范章节之一（1-19）
type SectionID int

// 规范章节标识
const (
	SectionExecutiveSummary SectionID = iota + 1
	SectionDefinitions
	SectionScopeOfWork
	SectionDeliverables
	SectionMilestones
	SectionTechnicalArchitecture
	SectionRolesResponsibilities
	SectionAcceptanceCriteria
	SectionChangeManagement
	SectionPricingPayment
	SectionIPOwnership
	SectionConfidentiality
	SectionSecurityCompliance
	SectionTestingQA
	SectionDeploymentHandoff
	SectionSupportWarranty
	SectionAssumptionsConstraints
	SectionTerminationExit
	SectionLegalBoilerplate
)

// SectionCount 规范章节总数
const SectionCount = 19

// canonicalTitles 按顺序排列的规范章节标题，标题即章节身份
var canonicalTitles = [SectionCount]string{
	"1. Executive Summary / Purpose",
	"2. Definitions & Terminology",
	"3. Scope of Work (Core Section)",
	"4. Deliverables",
	"5. Milestones & Timeline",
	"6. Technical Architecture",
	"7. Roles & Responsibilities",
	"8. Acceptance Criteria & Review Process",
	"9. Change Management",
	"10. Pricing & Payment Terms",
	"11. IP Ownership & Licensing",
	"12. Confidentiality & Data Handling",
	"13. Security & Compliance",
	"14. Testing & QA",
	"15. Deployment & Handoff",
	"16. Support, Maintenance & Warranty",
	"17. Assumptions & Constraints",
	"18. Termination & Exit",
	"19. Legal Boilerplate (Often Referenced)",
}

// Valid 判断章节标识是否在 1-19 范围内
func (id SectionID) Valid() bool {
	return id >= SectionExecutiveSummary && id <= SectionLegalBoilerplate
}

// Title 返回章节的规范标题
func (id SectionID) Title() string {
	if !id.Valid() {
		return ""
	}
	return canonicalTitles[id-1]
}

// Order 返回章节在文档中的序号（1-19）
func (id SectionID) Order() int {
	return int(id)
}

// AllSections 按规范顺序返回全部章节标识
func AllSections() []SectionID {
	ids := make([]SectionID, 0, SectionCount)
	for i := SectionExecutiveSummary; i <= SectionLegalBoilerplate; i++ {
		ids = append(ids, i)
	}
	return ids
}

// CanonicalTitles 按规范顺序返回全部章节标题
func CanonicalTitles() []string {
	return canonicalTitles[:]
}

// SectionByTitle 根据规范标题精确查找章节标识
func SectionByTitle(title string) (SectionID, bool) {
	t := strings.TrimSpace(title)
	for i, canonical := range canonicalTitles {
		if t == canonical {
			return SectionID(i + 1), true
		}
	}
	return 0, false
}

// matchSectionTitle 宽松匹配：标题以规范标题开头，或包含规范标题。
// 用于解析器识别模型输出中的章节标题行。
func matchSectionTitle(line string) (SectionID, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return 0, false
	}
	// 优先前缀匹配
	for i, canonical := range canonicalTitles {
		if strings.HasPrefix(trimmed, canonical) {
			return SectionID(i + 1), true
		}
	}
	// 其次子串匹配
	for i, canonical := range canonicalTitles {
		if strings.Contains(trimmed, canonical) {
			return SectionID(i + 1), true
		}
	}
	return 0, false
}
