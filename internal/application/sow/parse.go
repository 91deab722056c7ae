package sow

import "strings"

// parseState 解析器状态
type parseState int

const (
	stateOutside parseState = iota
	stateInSection
	stateInSuggestions
)

// ResponseParser 宽容的行式解析器。
// 模型对输出契约的遵循并不可靠，因此按固定优先级尝试多种标题识别规则，
// 而不是要求严格的语法。
type ResponseParser struct {
	// minSections 低于该数量视为解析失败，整体回退
	minSections int
	fallback    *FallbackGenerator
}

// NewResponseParser 创建响应解析器；非法阈值回退到默认值 5
func NewResponseParser(minSections int, fallback *FallbackGenerator) *ResponseParser {
	if minSections <= 0 || minSections > SectionCount {
		minSections = 5
	}
	if fallback == nil {
		fallback = NewFallbackGenerator()
	}
	return &ResponseParser{
		minSections: minSections,
		fallback:    fallback,
	}
}

// Parse 解析模型原始输出为有序章节与建议列表。
// 分级策略：
//   - 识别章节数 < minSections：丢弃全部，返回模板生成的完整 19 章节，建议为空；
//   - 其余情况：按规范标题去重（首个出现生效），缺失章节由模板补齐。
//
// 返回数量恒为 19，规范顺序，无重复——模型重复或多发章节不会击穿该不变量。
func (p *ResponseParser) Parse(raw string, req *GenerationRequest, bundle *ContextBundle) ([]GeneratedSection, []string) {
	sections, suggestions, _ := p.ParseWithStats(raw, req, bundle)
	return sections, suggestions
}

// ParseWithStats 同 Parse，并返回扫描阶段识别到的章节数，供指标与日志使用
func (p *ResponseParser) ParseWithStats(raw string, req *GenerationRequest, bundle *ContextBundle) ([]GeneratedSection, []string, int) {
	recovered, suggestions := p.scan(raw)

	if len(recovered) < p.minSections {
		return p.fallback.Full(req, bundle), nil, len(recovered)
	}
	return p.fallback.FillMissing(recovered), suggestions, len(recovered)
}

// MinSections 返回整体回退阈值
func (p *ResponseParser) MinSections() int {
	return p.minSections
}

// scan 行式状态机主循环
func (p *ResponseParser) scan(raw string) ([]GeneratedSection, []string) {
	var (
		sections    []GeneratedSection
		suggestions []string
		state       = stateOutside
		current     string
		content     []string
	)

	flush := func() {
		if current == "" || len(content) == 0 {
			return
		}
		body := strings.TrimSpace(strings.Join(stripMarkers(content), "\n"))
		if body == "" {
			return
		}
		sections = append(sections, GeneratedSection{
			Title:   cleanTitle(current),
			Content: body,
			Order:   len(sections) + 1,
		})
	}

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		// 建议区：后续非空行全部收集
		if state == stateInSuggestions {
			if trimmed != "" {
				suggestions = append(suggestions, trimmed)
			}
			continue
		}
		if isSuggestionsHeader(trimmed) {
			flush()
			current = ""
			content = nil
			state = stateInSuggestions
			continue
		}

		// 章节标题识别，按固定优先级
		if title, ok := recognizeHeader(trimmed); ok {
			flush()
			current = title
			content = nil
			state = stateInSection
			continue
		}

		if state != stateInSection {
			continue
		}

		// 内容哨兵开启正文累积
		if strings.HasPrefix(trimmed, contentMarker) {
			if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, contentMarker)); rest != "" {
				content = append(content, rest)
			}
			continue
		}

		// 正文中偶发回显的裸哨兵行直接跳过
		if trimmed == sectionMarker || trimmed == contentMarker {
			continue
		}

		// 首个非空行之前的空行不计入正文
		if trimmed != "" || len(content) > 0 {
			content = append(content, line)
		}
	}

	flush()
	return sections, suggestions
}

// recognizeHeader 按固定优先级识别章节标题行：
//  1. markdown 标题 + SECTION 哨兵（"### SECTION: ..."）
//  2. SECTION 哨兵（"SECTION: ..."）
//  3. markdown 标题 + 规范标题（"### 6. Technical Architecture"）
//  4. 规范标题前缀或子串匹配
func recognizeHeader(trimmed string) (string, bool) {
	if trimmed == "" {
		return "", false
	}
	switch {
	case strings.HasPrefix(trimmed, "### "+sectionMarker), strings.HasPrefix(trimmed, "## "+sectionMarker),
		strings.HasPrefix(trimmed, "###"+sectionMarker), strings.HasPrefix(trimmed, "##"+sectionMarker),
		strings.HasPrefix(trimmed, sectionMarker):
		// 裸哨兵行（无标题文本）不视为标题
		if title := cleanTitle(trimmed); title != "" {
			return title, true
		}
		return "", false
	case strings.HasPrefix(trimmed, "###"):
		if id, ok := matchSectionTitle(trimmed); ok {
			return id.Title(), true
		}
		return "", false
	default:
		if id, ok := matchSectionTitle(trimmed); ok {
			return id.Title(), true
		}
		return "", false
	}
}

// isSuggestionsHeader 识别建议区起始行（大小写不敏感，需带冒号）
func isSuggestionsHeader(trimmed string) bool {
	return strings.Contains(strings.ToUpper(trimmed), "SUGGESTIONS") && strings.Contains(trimmed, ":")
}

// cleanTitle 去除标题行中的 markdown 标记与哨兵，并归一到规范标题
func cleanTitle(s string) string {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(t, "###")
	t = strings.TrimPrefix(t, "##")
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, sectionMarker)
	t = strings.TrimSpace(t)
	if id, ok := matchSectionTitle(t); ok {
		return id.Title()
	}
	return t
}

// stripMarkers 清理正文中误回显的哨兵前缀
func stripMarkers(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == sectionMarker, trimmed == contentMarker:
			continue
		case strings.HasPrefix(trimmed, "### "+sectionMarker), strings.HasPrefix(trimmed, "## "+sectionMarker):
			continue
		case strings.HasPrefix(trimmed, sectionMarker+" "):
			out = append(out, strings.TrimPrefix(trimmed, sectionMarker+" "))
		case strings.HasPrefix(trimmed, contentMarker+" "):
			out = append(out, strings.TrimPrefix(trimmed, contentMarker+" "))
		default:
			out = append(out, line)
		}
	}
	return out
}

// ParseSectionContent 解析单章节重生成的回复，仅提取 CONTENT 之后的正文
func ParseSectionContent(raw string) string {
	var (
		content   []string
		inContent bool
	)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, sectionMarker):
			continue
		case strings.HasPrefix(trimmed, contentMarker):
			inContent = true
			if rest := strings.TrimSpace(strings.TrimPrefix(trimmed, contentMarker)); rest != "" {
				content = append(content, rest)
			}
		case inContent && trimmed != "":
			content = append(content, line)
		}
	}
	return strings.TrimSpace(strings.Join(content, "\n"))
}
