package sow

import "strings"

// FallbackGenerator 基于模板目录的降级生成器。
// 不依赖任何外部服务，是整条流水线的可用性兜底。
type FallbackGenerator struct{}

// NewFallbackGenerator 创建降级生成器
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{}
}

// Full 从模板生成完整的 19 个章节，执行占位符替换。
// 该方法永不失败，返回数量恒为 19。
func (g *FallbackGenerator) Full(req *GenerationRequest, bundle *ContextBundle) []GeneratedSection {
	sections := make([]GeneratedSection, 0, SectionCount)
	for _, tpl := range sectionTemplates {
		content := tpl.Template

		if bundle != nil {
			if bundle.ClientName != "" {
				content = strings.ReplaceAll(content, "[CLIENT_NAME]", bundle.ClientName)
			}
			if bundle.Company != "" {
				content = strings.ReplaceAll(content, "[CLIENT_COMPANY]", bundle.Company)
			}
		}

		switch tpl.ID {
		case SectionMilestones:
			// 里程碑章节整体替换为根据数量生成的占位块
			num := 0
			if req != nil {
				num = req.NumMilestones
			}
			content = MilestoneBlock(num)
		case SectionTechnicalArchitecture:
			if bundle != nil && len(bundle.TechStack) > 0 {
				lines := make([]string, 0, len(bundle.TechStack))
				for _, tech := range bundle.TechStack {
					lines = append(lines, "- "+tech)
				}
				content = strings.ReplaceAll(content, "[TECH_STACK]", strings.Join(lines, "\n"))
			}
		}

		sections = append(sections, GeneratedSection{
			Title:   tpl.Title,
			Content: content,
			Order:   tpl.Order,
		})
	}
	return sections
}

// FillMissing 将不完整的章节集合补齐为 19 个。
// 已存在的规范章节原样保留，缺失的章节由模板补充；
// 输出始终按规范顺序排列，与输入顺序无关。
func (g *FallbackGenerator) FillMissing(existing []GeneratedSection) []GeneratedSection {
	byID := make(map[SectionID]GeneratedSection, len(existing))
	for _, sec := range existing {
		if id, ok := SectionByTitle(sec.Title); ok {
			if _, dup := byID[id]; !dup {
				byID[id] = sec
			}
		}
	}

	out := make([]GeneratedSection, 0, SectionCount)
	for _, tpl := range sectionTemplates {
		if sec, ok := byID[tpl.ID]; ok {
			sec.Order = tpl.Order
			out = append(out, sec)
			continue
		}
		out = append(out, GeneratedSection{
			Title:   tpl.Title,
			Content: tpl.Template,
			Order:   tpl.Order,
		})
	}
	return out
}
