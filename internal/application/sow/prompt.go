package sow

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// 解析器与编译器共同约定的输出哨兵
const (
	sectionMarker     = "SECTION:"
	contentMarker     = "CONTENT:"
	suggestionsMarker = "SUGGESTIONS:"
)

// notSpecified 可选字段缺失时的显式占位，避免模型凭空编造
const notSpecified = "Not specified"

// PromptCompiler 将生成请求与上下文编译为单个完整提示词。
// 纯函数：相同输入产生字节级相同的输出，无随机性、无 I/O。
type PromptCompiler struct {
	// firstPaymentPercent 里程碑模式下的首付款比例
	firstPaymentPercent float64
	// maxRecentNotes 注入提示词的最近笔记条数上限
	maxRecentNotes int
}

// NewPromptCompiler 创建提示词编译器；非法参数回退到默认值
func NewPromptCompiler(firstPaymentPercent float64, maxRecentNotes int) *PromptCompiler {
	if firstPaymentPercent <= 0 || firstPaymentPercent >= 100 {
		firstPaymentPercent = 20
	}
	if maxRecentNotes <= 0 {
		maxRecentNotes = 3
	}
	return &PromptCompiler{
		firstPaymentPercent: firstPaymentPercent,
		maxRecentNotes:      maxRecentNotes,
	}
}

// MilestoneShares 计算 N 个里程碑各自的付款比例。
// 首付款固定比例，其余部分均分并保留两位小数；
// 四舍五入产生的残差折进最后一个里程碑，保证首付款与全部份额之和恰为 100。
func (c *PromptCompiler) MilestoneShares(numMilestones int) []float64 {
	if numMilestones <= 0 {
		return nil
	}
	remaining := 100 - c.firstPaymentPercent
	share := round2(remaining / float64(numMilestones))
	shares := make([]float64, numMilestones)
	for i := range shares {
		shares[i] = share
	}
	shares[numMilestones-1] = round2(remaining - share*float64(numMilestones-1))
	return shares
}

// Compile 编译完整提示词
func (c *PromptCompiler) Compile(req *GenerationRequest, bundle *ContextBundle) string {
	var b strings.Builder

	paymentNote, milestonesDisplay := c.paymentSchedule(req, bundle)

	b.WriteString("Generate a complete Statement of Work (SOW) with all 19 required sections for the following project.\n\n")
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("- DO NOT use generic templates or placeholder content\n")
	b.WriteString("- USE ALL the specific project details provided below to create CUSTOMIZED content\n")
	b.WriteString("- Reference the actual project title, description, budget, timeline, and client information throughout\n")
	b.WriteString("- Make each section specific to THIS project, not generic boilerplate\n")
	b.WriteString("- The content must reflect the actual project scope, deliverables, and requirements provided\n\n")

	b.WriteString("PROJECT INFORMATION:\n")
	b.WriteString("- Title: " + req.ProjectTitle + "\n")
	b.WriteString("- Description: " + c.projectDescription(req, bundle) + "\n")
	b.WriteString("- Start Date: " + orNotSpecified(req.StartDate) + "\n")
	b.WriteString("- End Date: " + orNotSpecified(req.EndDate) + "\n")
	b.WriteString("- Project Duration: " + orNotSpecified(projectDuration(req.StartDate, req.EndDate)) + "\n")
	b.WriteString("- Pricing Type: " + strings.ToUpper(string(req.PricingType)) + "\n")
	b.WriteString("- Number of Milestones: " + milestonesDisplay + "\n")
	b.WriteString(c.budgetInfo(req))
	b.WriteString(paymentNote)
	b.WriteString("\n")

	b.WriteString("CLIENT INFORMATION:\n")
	b.WriteString("- Name: " + bundleField(bundle, func(x *ContextBundle) string { return x.ClientName }) + "\n")
	b.WriteString("- Company: " + bundleField(bundle, func(x *ContextBundle) string { return x.Company }) + "\n")
	b.WriteString("- Email: " + bundleField(bundle, func(x *ContextBundle) string { return x.Email }) + "\n")
	b.WriteString("- Address: " + bundleField(bundle, func(x *ContextBundle) string { return x.Address }) + "\n")
	b.WriteString("- Project Description/Idea: " + bundleField(bundle, func(x *ContextBundle) string { return x.Description }) + "\n\n")

	b.WriteString("ADDITIONAL CLIENT CONTEXT (if available):\n")
	b.WriteString(c.additionalContext(bundle) + "\n\n")

	b.WriteString("TECHNICAL STACK:\n")
	b.WriteString(techStackBlock(bundle) + "\n\n")

	b.WriteString("EXISTING CONTRACTS:\n")
	b.WriteString(contractsBlock(bundle) + "\n\n")

	b.WriteString("RECENT PROJECT NOTES:\n")
	b.WriteString(c.recentNotesBlock(bundle) + "\n\n")

	b.WriteString("REQUIRED SECTIONS (generate content for each):\n")
	for _, title := range CanonicalTitles() {
		b.WriteString(title + "\n")
	}
	b.WriteString("\n")

	b.WriteString(c.sectionObligations(req, bundle, milestonesDisplay))

	b.WriteString("ALL SECTIONS:\n")
	b.WriteString("- Make content professional, comprehensive, and legally sound\n")
	b.WriteString("- Use SPECIFIC details from the project information above - DO NOT use generic templates\n")
	b.WriteString(fmt.Sprintf("- Reference the actual project title %q throughout\n", req.ProjectTitle))
	b.WriteString("- Reference the client and company by name\n")
	b.WriteString("- Ensure all sections flow logically and reference each other\n")
	b.WriteString("- Be explicit about what is included and excluded based on the project description\n")
	b.WriteString("- Generate realistic milestones based on the actual project timeline\n")
	b.WriteString("- Use budget, timeline, dates, and all provided context to inform content\n")
	b.WriteString("- After generating all sections, provide SUGGESTIONS for improvements, missing information, or potential issues\n\n")

	b.WriteString("CRITICAL FORMATTING REQUIREMENTS:\n")
	b.WriteString("- You MUST generate ALL 19 sections listed above\n")
	b.WriteString("- Each section MUST start with exactly: \"SECTION: [section number]. [section title]\"\n")
	b.WriteString("- Follow immediately with: \"CONTENT: [your generated content]\"\n")
	b.WriteString("- Do NOT use markdown headers (###) in the section titles\n")
	b.WriteString("- Do NOT include \"SECTION:\" or \"CONTENT:\" markers inside the content itself\n")
	b.WriteString("- Generate comprehensive, project-specific content for EVERY section\n")
	b.WriteString("- Do NOT skip any sections or use placeholders\n\n")

	b.WriteString("Return the content in the following EXACT format (no markdown, no ###):\n")
	for _, title := range CanonicalTitles() {
		b.WriteString(sectionMarker + " " + title + "\n")
		b.WriteString(contentMarker + " [generated content]\n\n")
	}
	b.WriteString(suggestionsMarker + "\n")
	b.WriteString("[Provide suggestions for improvements, missing information, potential issues, or recommendations based on the client context and project details]\n")

	return b.String()
}

// CompileSection 编译单章节重生成提示词。
// existing 为既有章节（最多取前 5 个作为上下文）。
func (c *PromptCompiler) CompileSection(target SectionID, req *GenerationRequest, bundle *ContextBundle, existing []GeneratedSection) string {
	var b strings.Builder

	b.WriteString("Regenerate ONLY the following section for an existing Statement of Work (SOW):\n\n")

	b.WriteString("EXISTING SOW CONTEXT:\n")
	b.WriteString("- Title: " + req.ProjectTitle + "\n")
	b.WriteString("- Start Date: " + orNotSpecified(req.StartDate) + "\n")
	b.WriteString("- End Date: " + orNotSpecified(req.EndDate) + "\n\n")

	b.WriteString("CLIENT INFORMATION:\n")
	b.WriteString("- Name: " + bundleField(bundle, func(x *ContextBundle) string { return x.ClientName }) + "\n")
	b.WriteString("- Company: " + bundleField(bundle, func(x *ContextBundle) string { return x.Company }) + "\n")
	b.WriteString("- Project Description: " + bundleField(bundle, func(x *ContextBundle) string { return x.Description }) + "\n\n")

	b.WriteString("TECHNICAL STACK:\n")
	b.WriteString(techStackBlock(bundle) + "\n\n")

	b.WriteString("EXISTING SECTIONS (for context):\n")
	if len(existing) == 0 {
		b.WriteString("- None\n")
	} else {
		limit := len(existing)
		if limit > 5 {
			limit = 5
		}
		for _, sec := range existing[:limit] {
			b.WriteString(fmt.Sprintf("- %s: %s...\n", sec.Title, truncate(sec.Content, 200)))
		}
	}
	b.WriteString("\n")

	b.WriteString("SECTION TO REGENERATE:\n")
	b.WriteString(target.Title() + "\n\n")

	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("- Regenerate ONLY the section specified above\n")
	b.WriteString("- Use the existing SOW context and client information provided\n")
	b.WriteString("- Ensure the regenerated section aligns with the overall SOW structure\n")
	b.WriteString("- Make it professional, comprehensive, and legally sound\n\n")

	b.WriteString("Return ONLY the content for this section:\n")
	b.WriteString(sectionMarker + " " + target.Title() + "\n")
	b.WriteString(contentMarker + " [regenerated content]\n")

	return b.String()
}

// paymentSchedule 生成付款计划指令块与里程碑数量的展示文本
func (c *PromptCompiler) paymentSchedule(req *GenerationRequest, bundle *ContextBundle) (note string, milestonesDisplay string) {
	if req.PricingType == PricingHourly {
		rate := req.EffectiveHourlyRate(bundle)
		note = fmt.Sprintf(`PAYMENT SCHEDULE REQUIREMENTS (CRITICAL - MUST FOLLOW EXACTLY):
- Pricing Type: HOURLY
- Hourly Rate: $%.2f per hour
- Payment Terms: Invoice monthly based on hours worked
- Time Tracking: All work will be tracked and reported weekly
- Minimum Billing: Standard hourly increments apply
- In section 10 (Pricing & Payment Terms), clearly state this is an hourly contract with the rate of $%.2f/hour
`, rate, rate)
		return note, "N/A (Hourly contract)"
	}

	num := req.NumMilestones
	shares := c.MilestoneShares(num)
	var share, last float64
	if len(shares) > 0 {
		share = shares[0]
		last = shares[len(shares)-1]
	}

	var b strings.Builder
	b.WriteString("PAYMENT SCHEDULE REQUIREMENTS (CRITICAL - MUST FOLLOW EXACTLY):\n")
	b.WriteString("- Pricing Type: MILESTONE-BASED\n")
	b.WriteString(fmt.Sprintf("- First payment: %s%% upon project kickoff (ALWAYS)\n", formatPercent(c.firstPaymentPercent)))
	b.WriteString(fmt.Sprintf("- Remaining %s%% split evenly among %d milestones\n", formatPercent(100-c.firstPaymentPercent), num))
	b.WriteString(fmt.Sprintf("- Each milestone payment: %s%% upon completion of that milestone\n", formatPercent(share)))
	if last != share {
		// 末个里程碑吸收四舍五入残差
		b.WriteString(fmt.Sprintf("- Final milestone payment: %s%% (adjusted so the total is exact)\n", formatPercent(last)))
		b.WriteString(fmt.Sprintf("- Total must equal 100%%: %s%% + (%s%% x %d) + %s%% = 100%%\n",
			formatPercent(c.firstPaymentPercent), formatPercent(share), num-1, formatPercent(last)))
	} else {
		b.WriteString(fmt.Sprintf("- Total must equal 100%%: %s%% + (%s%% x %d) = 100%%\n",
			formatPercent(c.firstPaymentPercent), formatPercent(share), num))
	}
	b.WriteString("- In section 10 (Pricing & Payment Terms), list each milestone with its corresponding payment percentage\n")
	return b.String(), fmt.Sprintf("%d", num)
}

// budgetInfo 预算信息块；未提供预算时为空
func (c *PromptCompiler) budgetInfo(req *GenerationRequest) string {
	if req.Budget <= 0 {
		return ""
	}
	return fmt.Sprintf(`BUDGET INFORMATION (CRITICAL - USE THIS IN PRICING SECTIONS):
- Total Project Budget: $%s
- This budget should be reflected in section 10 (Pricing & Payment Terms)
- If milestone-based, calculate milestone amounts based on this total budget
- If hourly, estimate total hours based on budget and hourly rate
`, formatMoney(req.Budget))
}

// projectDescription 描述缺失时逐级回退：请求描述 -> 上下文描述 -> 指示模型按标题与标签推断
func (c *PromptCompiler) projectDescription(req *GenerationRequest, bundle *ContextBundle) string {
	if req.ProjectDescription != "" {
		return req.ProjectDescription
	}
	if bundle != nil && strings.TrimSpace(bundle.Description) != "" {
		return strings.TrimSpace(bundle.Description)
	}
	return "Not provided - use client context and project title to infer"
}

// additionalContext 可选上下文字段，仅在存在时输出
func (c *PromptCompiler) additionalContext(bundle *ContextBundle) string {
	if bundle == nil {
		return "- No additional context available"
	}
	var lines []string
	if bundle.HourlyRate > 0 {
		lines = append(lines, fmt.Sprintf("- Hourly Rate: $%.2f/hour", bundle.HourlyRate))
	}
	if bundle.LastMeetingNote != "" {
		lines = append(lines, "- Notes from Last Meeting: "+truncate(bundle.LastMeetingNote, 300))
	}
	if bundle.Timeline != "" {
		lines = append(lines, "- Timeline: "+bundle.Timeline)
	}
	if bundle.ContractType != "" {
		lines = append(lines, "- Contract Type: "+bundle.ContractType)
	}
	if bundle.ContractStatus != "" {
		lines = append(lines, "- Contract Status: "+bundle.ContractStatus)
	}
	if bundle.ContractDueDate != "" {
		lines = append(lines, "- Contract Due Date: "+bundle.ContractDueDate)
	}
	if len(lines) == 0 {
		return "- No additional context available"
	}
	return strings.Join(lines, "\n")
}

func (c *PromptCompiler) recentNotesBlock(bundle *ContextBundle) string {
	if bundle == nil || len(bundle.RecentNotes) == 0 {
		return "- None"
	}
	notes := bundle.RecentNotes
	if len(notes) > c.maxRecentNotes {
		notes = notes[:c.maxRecentNotes]
	}
	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		lines = append(lines, "- "+truncate(note, 200))
	}
	return strings.Join(lines, "\n")
}

// sectionObligations 逐章节的最低内容要求
func (c *PromptCompiler) sectionObligations(req *GenerationRequest, bundle *ContextBundle, milestonesDisplay string) string {
	techInline := notSpecified
	if bundle != nil && len(bundle.TechStack) > 0 {
		limit := len(bundle.TechStack)
		if limit > 5 {
			limit = 5
		}
		techInline = strings.Join(bundle.TechStack[:limit], ", ")
	}

	budgetDisplay := notSpecified
	if req.Budget > 0 {
		budgetDisplay = "$" + formatMoney(req.Budget)
	}

	timelineDisplay := projectDuration(req.StartDate, req.EndDate)
	if timelineDisplay == "" {
		if req.StartDate != "" && req.EndDate != "" {
			timelineDisplay = req.StartDate + " to " + req.EndDate
		} else {
			timelineDisplay = "As specified"
		}
	}

	var b strings.Builder
	b.WriteString("CRITICAL REQUIREMENTS FOR EACH SECTION:\n")
	b.WriteString("1. Executive Summary / Purpose:\n")
	b.WriteString(fmt.Sprintf("   - Start with the project title: %q\n", req.ProjectTitle))
	b.WriteString("   - Reference the client and company by name\n")
	b.WriteString("   - Include the project description\n")
	b.WriteString("   - Mention budget if provided: " + budgetDisplay + "\n")
	b.WriteString("   - Reference timeline: " + timelineDisplay + "\n\n")
	b.WriteString("2. Definitions & Terminology: Use terms specific to this project and tech stack\n\n")
	b.WriteString("3. Scope of Work (Core Section):\n")
	b.WriteString("   - Base this on the project description provided above\n")
	b.WriteString("   - Clearly define what IS included based on the project details\n")
	b.WriteString("   - Clearly define what is NOT included (out of scope)\n")
	b.WriteString("   - Reference the tech stack: " + techInline + "\n\n")
	b.WriteString("4. Deliverables:\n")
	b.WriteString("   - Create specific deliverables based on the project description and tech stack\n")
	b.WriteString("   - Reference the timeline and milestones\n")
	b.WriteString("   - Make them measurable and tied to the project goals\n\n")
	b.WriteString("5. Milestones & Timeline:\n")
	b.WriteString("   - Use the actual dates: Start " + orTBD(req.StartDate) + ", End " + orTBD(req.EndDate) + "\n")
	b.WriteString("   - Create " + milestonesDisplay + " milestones that align with the project timeline\n")
	b.WriteString("   - Each milestone should have specific deliverables tied to the project description\n\n")
	b.WriteString("6. Technical Architecture:\n")
	b.WriteString("   - MUST use the actual tech stack:\n" + indentTechStack(bundle) + "\n")
	b.WriteString("   - Be specific about technologies, frameworks, and tools\n")
	b.WriteString("   - Include hosting providers, authentication approach, data storage, and third-party services\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("7. Roles & Responsibilities:\n")
	b.WriteString("   - Clearly define client responsibilities (access, approvals, feedback, requirements)\n")
	b.WriteString("   - Clearly define vendor responsibilities (development, testing, documentation, deployment)\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("8. Acceptance Criteria & Review Process:\n")
	b.WriteString("   - Define what constitutes \"complete\" for deliverables\n")
	b.WriteString("   - Specify review windows (e.g., 5 business days)\n")
	b.WriteString("   - Include revision limits\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("9. Change Management:\n")
	b.WriteString("   - Define how changes are requested, impact analysis, and written change orders\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("10. Pricing & Payment Terms:\n")
	b.WriteString("   - Total Budget: " + budgetDisplay + "\n")
	b.WriteString("   - Follow the payment schedule requirements exactly\n")
	b.WriteString("   - Reference the pricing type: " + strings.ToUpper(string(req.PricingType)) + "\n")
	b.WriteString("   - Include invoicing cadence and late payment terms\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("11. IP Ownership & Licensing:\n")
	b.WriteString("   - Specify who owns custom code, pre-existing IP, and open-source disclosures\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("12. Confidentiality & Data Handling:\n")
	b.WriteString("   - Define data access rules, storage requirements, and breach notification\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("13. Security & Compliance:\n")
	b.WriteString("   - Define authentication standards, encryption, access controls, and audit logging\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("14. Testing & QA:\n")
	b.WriteString("   - Define unit/integration testing, UAT, bug severity levels, and fix timelines\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("15. Deployment & Handoff:\n")
	b.WriteString("   - Specify deployment steps, credentials handoff, documentation, and knowledge transfer\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("16. Support, Maintenance & Warranty:\n")
	b.WriteString("   - Define warranty period, bug fixes vs enhancements, and support SLAs\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("17. Assumptions & Constraints:\n")
	b.WriteString("   - List third-party dependencies, budget assumptions, and availability expectations\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("18. Termination & Exit:\n")
	b.WriteString("   - Define termination rights, payment for work completed, and data deletion obligations\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	b.WriteString("19. Legal Boilerplate (Often Referenced):\n")
	b.WriteString("   - Specify governing law, liability limits, indemnification, and force majeure\n")
	b.WriteString("   - This section is CRITICAL - do not skip it\n\n")
	return b.String()
}

// projectDuration 起止日期都存在时计算项目周期，否则返回空串
func projectDuration(startDate, endDate string) string {
	if startDate == "" || endDate == "" {
		return ""
	}
	start, err := parseDate(startDate)
	if err != nil {
		return ""
	}
	end, err := parseDate(endDate)
	if err != nil {
		return ""
	}
	days := int(end.Sub(start).Hours() / 24)
	if days <= 0 {
		return ""
	}
	weeks := float64(days) / 7
	months := float64(days) / 30
	return fmt.Sprintf("%d days (%.1f weeks, %.1f months)", days, weeks, months)
}

// parseDate 解析 YYYY-MM-DD 或 RFC3339 时间串
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func techStackBlock(bundle *ContextBundle) string {
	if bundle == nil || len(bundle.TechStack) == 0 {
		return "- " + notSpecified
	}
	lines := make([]string, 0, len(bundle.TechStack))
	for _, tech := range bundle.TechStack {
		lines = append(lines, "- "+tech)
	}
	return strings.Join(lines, "\n")
}

func indentTechStack(bundle *ContextBundle) string {
	if bundle == nil || len(bundle.TechStack) == 0 {
		return "  - " + notSpecified
	}
	lines := make([]string, 0, len(bundle.TechStack))
	for _, tech := range bundle.TechStack {
		lines = append(lines, "  - "+tech)
	}
	return strings.Join(lines, "\n")
}

func contractsBlock(bundle *ContextBundle) string {
	if bundle == nil || len(bundle.Contracts) == 0 {
		return "- None"
	}
	lines := make([]string, 0, len(bundle.Contracts))
	for _, c := range bundle.Contracts {
		lines = append(lines, fmt.Sprintf("- %s (%s, %s)", c.Title, c.Type, c.Status))
	}
	return strings.Join(lines, "\n")
}

func bundleField(bundle *ContextBundle, pick func(*ContextBundle) string) string {
	if bundle == nil {
		return notSpecified
	}
	v := strings.TrimSpace(pick(bundle))
	if v == "" {
		return notSpecified
	}
	return v
}

func orNotSpecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return notSpecified
	}
	return s
}

func orTBD(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBD"
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// formatMoney 金额格式化：千位分隔，保留两位小数
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart := s[:dot]

	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(intPart[i])
	}
	out := b.String() + s[dot:]
	if neg {
		return "-" + out
	}
	return out
}

// formatPercent 百分比格式化：整数不带小数，否则保留两位
func formatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
