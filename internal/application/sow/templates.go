package sow

import "fmt"

// SectionTemplate 章节模板目录条目
type SectionTemplate struct {
	ID           SectionID `json:"-"`
	Title        string    `json:"title"`
	Order        int       `json:"order"`
	Template     string    `json:"template"`
	Customizable bool      `json:"customizable"`
}

// Templates 按规范顺序返回全部 19 个章节模板
func Templates() []SectionTemplate {
	out := make([]SectionTemplate, len(sectionTemplates))
	copy(out, sectionTemplates[:])
	return out
}

// TemplateFor 返回指定章节的模板；章节标识非法时返回 false
func TemplateFor(id SectionID) (SectionTemplate, bool) {
	if !id.Valid() {
		return SectionTemplate{}, false
	}
	return sectionTemplates[id-1], true
}

// MilestoneBlock 生成里程碑占位文本块；numMilestones <= 0 时返回固定提示
func MilestoneBlock(numMilestones int) string {
	if numMilestones <= 0 {
		return "No milestones defined."
	}
	blocks := make([]string, 0, numMilestones)
	for i := 1; i <= numMilestones; i++ {
		blocks = append(blocks, fmt.Sprintf(`Milestone %d:
- Name: [MILESTONE_%d_NAME]
- Description: [MILESTONE_%d_DESCRIPTION]
- Estimated Duration: [DURATION]
- Start Date: [START_DATE]
- End Date: [END_DATE]
- Approval Checkpoint: [APPROVAL_REQUIRED]`, i, i, i))
	}
	joined := blocks[0]
	for _, b := range blocks[1:] {
		joined += "\n\n" + b
	}
	return joined
}

// sectionTemplates 19 个章节的默认内容，标题与顺序固定
var sectionTemplates = [SectionCount]SectionTemplate{
	{
		ID:           SectionExecutiveSummary,
		Title:        SectionExecutiveSummary.Title(),
		Order:        1,
		Customizable: true,
		Template: `Why this exists

High-level description of the project

Business goals and success criteria

Who the SOW is for and what problem it solves

Example:
"This SOW defines the scope, deliverables, and responsibilities for building an internal AI-powered search tool for [CLIENT_NAME] employees."`,
	},
	{
		ID:           SectionDefinitions,
		Title:        SectionDefinitions.Title(),
		Order:        2,
		Customizable: true,
		Template: `Prevents arguments later.

Technical terms

Acronyms

Internal product names

What words like "done," "live," "MVP," "production" mean

Key Definitions:
- "Complete" means all acceptance criteria have been met and approved by the client
- "Live" refers to the production environment accessible to end users
- "MVP" (Minimum Viable Product) means the core functionality required for initial release
- "Production" refers to the live, customer-facing environment`,
	},
	{
		ID:           SectionScopeOfWork,
		Title:        SectionScopeOfWork.Title(),
		Order:        3,
		Customizable: true,
		Template: `3.1 In-Scope

Exactly what you are doing

Features

Systems

Integrations

Platforms

Environments

Be explicit and granular:

"User authentication via Firebase"

"Search API built with FastAPI"

"React frontend deployed on Netlify"

3.2 Out-of-Scope

Just as important

What you are not doing

Assumptions that are not included

Future features excluded unless added via change order

This is where most lawsuits are prevented.`,
	},
	{
		ID:           SectionDeliverables,
		Title:        SectionDeliverables.Title(),
		Order:        4,
		Customizable: true,
		Template: `Concrete, verifiable outputs:

Source code

Repositories

APIs

Documentation

Configurations

Test reports

Deployed environments

Each deliverable should include:

Description

Format

Acceptance criteria

Owner

Deliverables:
1. Source code repository with full version control history
2. API documentation (OpenAPI/Swagger specification)
3. Deployment documentation and runbooks
4. Test reports and coverage metrics
5. Production-ready application deployed to [HOSTING_PROVIDER]`,
	},
	{
		ID:           SectionMilestones,
		Title:        SectionMilestones.Title(),
		Order:        5,
		Customizable: true,
		Template: `Clear sequencing with dependencies:

Milestone name

Description

Estimated duration

Start/end dates

Approval checkpoints

Often paired with payment milestones.

[MILESTONES_PLACEHOLDER]`,
	},
	{
		ID:           SectionTechnicalArchitecture,
		Title:        SectionTechnicalArchitecture.Title(),
		Order:        6,
		Customizable: true,
		Template: `This separates amateurs from professionals.

High-level architecture overview

Tech stack (frontend, backend, infra)

Hosting providers

Authentication approach

Data storage

Third-party services

Optional but powerful:

Diagrams

Environment separation (dev/staging/prod)

Technical Stack:
- Frontend: [FRONTEND_TECH]
- Backend: [BACKEND_TECH]
- Database: [DATABASE_TECH]
- Hosting: [HOSTING_PROVIDER]
- Authentication: [AUTH_METHOD]`,
	},
	{
		ID:           SectionRolesResponsibilities,
		Title:        SectionRolesResponsibilities.Title(),
		Order:        7,
		Customizable: true,
		Template: `Who owns what:

Client Responsibilities

Providing access

Approving designs

Supplying requirements

Timely feedback

Vendor Responsibilities

Development

Testing

Documentation

Deployment support

This section prevents "we were blocked" disputes.

Client Responsibilities:
- Provide timely access to required systems and accounts
- Review and approve designs within [X] business days
- Supply complete requirements and specifications
- Provide timely feedback on deliverables

Vendor Responsibilities:
- Develop and test all features according to specifications
- Provide comprehensive documentation
- Deploy to staging and production environments
- Provide deployment support and troubleshooting`,
	},
	{
		ID:           SectionAcceptanceCriteria,
		Title:        SectionAcceptanceCriteria.Title(),
		Order:        8,
		Customizable: true,
		Template: `Defines how work is approved:

What constitutes "complete"

Review window (e.g., 5 business days)

What happens if feedback isn't given

Revision limits

Acceptance Criteria:
- All features meet the specified requirements
- Code passes all automated tests
- Documentation is complete and accurate
- Application is deployed and accessible

Review Process:
- Client has 5 business days to review each deliverable
- Feedback must be provided in writing
- If no feedback is received within the review window, the deliverable is considered accepted
- Up to 2 rounds of revisions are included per deliverable`,
	},
	{
		ID:           SectionChangeManagement,
		Title:        SectionChangeManagement.Title(),
		Order:        9,
		Customizable: true,
		Template: `Critical for scope creep control.

Includes:

How changes are requested

Impact analysis (time + cost)

Approval process

Written change orders required

Change Management Process:
1. All change requests must be submitted in writing
2. Vendor will provide impact analysis (time and cost) within 2 business days
3. Changes require written approval from both parties
4. Approved changes will be documented as change orders
5. No work on changes will begin until change order is approved`,
	},
	{
		ID:           SectionPricingPayment,
		Title:        SectionPricingPayment.Title(),
		Order:        10,
		Customizable: true,
		Template: `Very explicit:

Fixed price or hourly

Rates

Payment schedule

Invoicing cadence

Late payment penalties

Deposits / retainers

For hourly:

Time tracking method

Minimum billing increments

Reporting cadence

Pricing Structure:
- Contract Type: [FIXED_PRICE or HOURLY]
- Total Amount: $[AMOUNT]
- Payment Schedule: [PAYMENT_SCHEDULE]
- Invoicing: [INVOICING_CADENCE]
- Late Payment: Interest charges at 1.5% per month (18% per annum)`,
	},
	{
		ID:           SectionIPOwnership,
		Title:        SectionIPOwnership.Title(),
		Order:        11,
		Customizable: true,
		Template: `This is where things get dangerous if vague.

Who owns custom code

What happens to pre-existing IP

Rights to reuse generic components

Open-source usage disclosures

Good SOWs separate:

Client-owned project IP

Vendor-owned background IP

IP Ownership:
- All custom code developed specifically for this project is owned by [CLIENT_NAME]
- Vendor retains ownership of pre-existing code, frameworks, and tools
- Vendor may reuse generic components and patterns in future projects
- Open-source libraries will be used as appropriate and disclosed`,
	},
	{
		ID:           SectionConfidentiality,
		Title:        SectionConfidentiality.Title(),
		Order:        12,
		Customizable: true,
		Template: `Especially important for:

Healthcare

Finance

AI

PII

Covers:

Data access rules

Storage requirements

Breach notification

NDA references

Confidentiality:
- All client data and proprietary information will be kept confidential
- Data will be stored in secure, encrypted environments
- Access will be limited to authorized personnel only
- Any data breaches will be reported immediately
- This SOW is subject to the terms of the Master Services Agreement (MSA)`,
	},
	{
		ID:           SectionSecurityCompliance,
		Title:        SectionSecurityCompliance.Title(),
		Order:        13,
		Customizable: true,
		Template: `Often skipped—big mistake.

May include:

Authentication standards

Encryption requirements

Access controls

Audit logging

Compliance needs (HIPAA, SOC2, etc.)

Security Requirements:
- All data in transit encrypted using TLS 1.2 or higher
- All data at rest encrypted using industry-standard encryption
- Multi-factor authentication required for admin access
- Comprehensive audit logging for all system access
- Compliance with [RELEVANT_COMPLIANCE_STANDARDS]`,
	},
	{
		ID:           SectionTestingQA,
		Title:        SectionTestingQA.Title(),
		Order:        14,
		Customizable: true,
		Template: `Defines quality expectations:

Unit testing

Integration testing

UAT

Bug severity levels

Fix timelines

Testing Requirements:
- Unit test coverage minimum of 80%
- Integration testing for all API endpoints
- User Acceptance Testing (UAT) with client participation
- Bug Severity Levels:
  - Critical: Fix within 24 hours
  - High: Fix within 3 business days
  - Medium: Fix within 1 week
  - Low: Fix within 2 weeks`,
	},
	{
		ID:           SectionDeploymentHandoff,
		Title:        SectionDeploymentHandoff.Title(),
		Order:        15,
		Customizable: true,
		Template: `What happens at the end:

Deployment steps

Credentials handoff

Documentation delivery

Knowledge transfer

Training (if any)

Deployment & Handoff:
- Application will be deployed to production environment
- All credentials and access information will be securely transferred
- Complete documentation package will be delivered
- Knowledge transfer session will be conducted
- [TRAINING_DETAILS if applicable]`,
	},
	{
		ID:           SectionSupportWarranty,
		Title:        SectionSupportWarranty.Title(),
		Order:        16,
		Customizable: true,
		Template: `Clarifies post-launch reality:

Warranty period

Bug fixes vs enhancements

Support SLAs

Optional maintenance packages

Support & Warranty:
- 30-day warranty period for bug fixes related to delivered functionality
- Warranty covers defects, not enhancements or new features
- Support SLA: Response within 24 hours for critical issues
- Optional maintenance packages available for ongoing support`,
	},
	{
		ID:           SectionAssumptionsConstraints,
		Title:        SectionAssumptionsConstraints.Title(),
		Order:        17,
		Customizable: true,
		Template: `Prevents silent expectations:

Dependencies on third parties

Budget assumptions

Tool availability

Team availability

Assumptions:
- Client will provide timely access to required systems
- Third-party services will be available and functional
- Client team will be available for reviews and approvals
- Budget is sufficient for scope outlined in this SOW

Constraints:
- Project timeline assumes no major scope changes
- Dependent on third-party API availability and performance
- Limited by client team availability for feedback and approvals`,
	},
	{
		ID:           SectionTerminationExit,
		Title:        SectionTerminationExit.Title(),
		Order:        18,
		Customizable: true,
		Template: `Plans for failure before failure:

Termination rights

Payment for work completed

Code handoff on termination

Data deletion obligations

Termination:
- Either party may terminate with 30 days written notice
- Client will pay for all work completed up to termination date
- Vendor will provide all code, documentation, and deliverables completed to date
- Vendor will delete all client data from vendor systems within 30 days of termination`,
	},
	{
		ID:           SectionLegalBoilerplate,
		Title:        SectionLegalBoilerplate.Title(),
		Order:        19,
		Customizable: true,
		Template: `Usually summarized and linked to MSA:

Governing law

Liability limits

Indemnification

Force majeure

Legal Terms:
- This SOW is governed by the laws of [STATE/JURISDICTION]
- Liability is limited to the total contract value
- Both parties agree to indemnify each other as specified in the MSA
- Force majeure events will be handled as specified in the MSA
- This SOW is subject to the terms and conditions of the Master Services Agreement (MSA) dated [MSA_DATE]`,
	},
}
