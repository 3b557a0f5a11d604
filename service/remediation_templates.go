package service

import "gdprlens-backend/models"

// remediationTemplates is the built-in guidance table, keyed by template
// key. Priority values here are placeholders; the mapper overrides them
// from the violation's severity. Immediate-action text is distinct per
// template so two violations resolving to different templates produce
// visibly different guidance.
func remediationTemplates() map[string]models.RemediationGuidance {
	return map[string]models.RemediationGuidance{
		"consent_violation": {
			Category:        "Consent Management",
			Priority:        models.PriorityHigh,
			Complexity:      models.ComplexityModerate,
			EstimatedEffort: "2-4 weeks",
			EstimatedCost:   "$15k-$40k",
			ImmediateActions: []string{
				"Suspend processing that relies on invalid or missing consent",
				"Inventory every data flow that claims consent as its lawful basis",
				"Draft a compliant consent capture flow (freely given, specific, informed, unambiguous)",
			},
			ShortTermSolutions: []string{
				"Deploy a consent management platform with per-purpose opt-ins",
				"Re-collect consent from affected data subjects where feasible",
				"Record consent timestamps, wording shown, and withdrawal events",
			},
			LongTermImprovements: []string{
				"Automate consent refresh and expiry policies",
				"Audit consent records quarterly against active processing",
			},
			DetailedSteps: []models.RemediationStep{
				{StepNumber: 1, Action: "Map all processing activities claiming consent as lawful basis", Owner: "Data Protection Officer", Timeline: "Week 1", SuccessCriteria: "Complete processing inventory with lawful basis per activity"},
				{StepNumber: 2, Action: "Implement granular consent capture and withdrawal UI", Owner: "Engineering", Timeline: "Weeks 2-3", SuccessCriteria: "Consent recorded per purpose with audit trail"},
				{StepNumber: 3, Action: "Purge or re-permission data collected without valid consent", Owner: "Data Engineering", Timeline: "Week 4", SuccessCriteria: "No processing without a recorded lawful basis"},
			},
			RequiredRoles: []string{"Data Protection Officer", "Engineering", "Legal Counsel"},
			VerificationChecklist: []string{
				"Consent is opt-in, not pre-ticked",
				"Withdrawal is as easy as giving consent",
				"Consent records are demonstrable per Article 7(1)",
			},
		},

		"erasure_rights": {
			Category:        "Right to Erasure",
			Priority:        models.PriorityHigh,
			Complexity:      models.ComplexityComplex,
			EstimatedEffort: "4-8 weeks",
			EstimatedCost:   "$25k-$60k",
			ImmediateActions: []string{
				"Stand up a manual erasure request intake channel and acknowledge pending requests",
				"Locate every store (including backups and processors) holding the requester's personal data",
				"Execute outstanding deletion requests within the one-month statutory window",
			},
			ShortTermSolutions: []string{
				"Build an automated deletion workflow spanning primary stores and caches",
				"Propagate erasure obligations to processors and recipients",
				"Define backup-cycle erasure handling and document the approach",
			},
			LongTermImprovements: []string{
				"Adopt data-lifecycle tooling with per-record retention and deletion scheduling",
				"Include erasure-path verification in release testing",
			},
			DetailedSteps: []models.RemediationStep{
				{StepNumber: 1, Action: "Build a data map locating personal data across all systems", Owner: "Data Engineering", Timeline: "Weeks 1-2", SuccessCriteria: "Every store holding personal data is catalogued"},
				{StepNumber: 2, Action: "Implement deletion APIs and propagation to downstream recipients", Owner: "Engineering", Timeline: "Weeks 3-6", SuccessCriteria: "End-to-end deletion completes within 30 days of request"},
			},
			RequiredRoles: []string{"Data Protection Officer", "Data Engineering", "Engineering"},
			VerificationChecklist: []string{
				"Erasure requests are fulfilled within one month",
				"Deletion reaches backups per documented policy",
				"Recipients of disclosed data are notified of erasure",
			},
		},

		"objection_rights": {
			Category:        "Right to Object",
			Priority:        models.PriorityHigh,
			Complexity:      models.ComplexityModerate,
			EstimatedEffort: "2-3 weeks",
			EstimatedCost:   "$10k-$25k",
			ImmediateActions: []string{
				"Add a working unsubscribe mechanism to every direct-marketing channel",
				"Stop all marketing processing for data subjects who have already objected",
				"Surface the right to object clearly and separately at first communication",
			},
			ShortTermSolutions: []string{
				"Centralize objection and suppression lists across marketing tools",
				"Honor objections in profiling pipelines, not only in email sends",
			},
			LongTermImprovements: []string{
				"Integrate suppression checks into every outbound campaign gate",
				"Monitor objection handling latency as a compliance metric",
			},
			RequiredRoles: []string{"Marketing Operations", "Engineering", "Data Protection Officer"},
			VerificationChecklist: []string{
				"Objection to direct marketing halts processing unconditionally",
				"Suppression applies across all channels and vendors",
			},
		},

		"access_rights": {
			Category:        "Right of Access",
			Priority:        models.PriorityMedium,
			Complexity:      models.ComplexityModerate,
			EstimatedEffort: "3-5 weeks",
			EstimatedCost:   "$12k-$30k",
			ImmediateActions: []string{
				"Publish a subject-access request channel and template response",
				"Assemble the Article 15 disclosure set: purposes, categories, recipients, retention, rights",
			},
			ShortTermSolutions: []string{
				"Automate export of a data subject's records across systems",
				"Track request deadlines with the one-month clock and extension rules",
			},
			LongTermImprovements: []string{
				"Offer self-service access to personal data where identity can be verified",
			},
			RequiredRoles: []string{"Data Protection Officer", "Engineering", "Support"},
		},

		"portability_rights": {
			Category:        "Data Portability",
			Priority:        models.PriorityMedium,
			Complexity:      models.ComplexityModerate,
			EstimatedEffort: "3-6 weeks",
			EstimatedCost:   "$15k-$35k",
			ImmediateActions: []string{
				"Define a structured, commonly used, machine-readable export format for subject data",
				"Scope which data was provided by the subject and processed by consent or contract",
			},
			ShortTermSolutions: []string{
				"Implement export endpoints producing the portable format",
				"Support direct controller-to-controller transmission where technically feasible",
			},
			LongTermImprovements: []string{
				"Version the export schema and keep it stable across releases",
			},
			RequiredRoles: []string{"Engineering", "Data Protection Officer"},
		},

		"data_breach": {
			Category:        "Breach Notification",
			Priority:        models.PriorityCritical,
			Complexity:      models.ComplexityComplex,
			EstimatedEffort: "2-6 weeks",
			EstimatedCost:   "$30k-$80k",
			ImmediateActions: []string{
				"Activate the incident response plan and contain the breach",
				"Assess notification duty: supervisory authority within 72 hours, subjects if high risk",
				"Preserve forensic evidence and start the breach register entry",
			},
			ShortTermSolutions: []string{
				"Close the exploited gap and rotate affected credentials",
				"Document scope, categories, approximate subject counts, and likely consequences",
			},
			LongTermImprovements: []string{
				"Run breach-response tabletop exercises twice a year",
				"Contract incident-response support before the next incident",
			},
			DetailedSteps: []models.RemediationStep{
				{StepNumber: 1, Action: "Contain the incident and scope affected data", Owner: "Security", Timeline: "Hours 0-24", SuccessCriteria: "No ongoing exfiltration; affected records enumerated"},
				{StepNumber: 2, Action: "File supervisory authority notification", Owner: "Data Protection Officer", Timeline: "Within 72 hours", SuccessCriteria: "Notification submitted with Article 33(3) content"},
			},
			RequiredRoles: []string{"Security", "Data Protection Officer", "Legal Counsel", "Communications"},
			VerificationChecklist: []string{
				"Breach register entry complete",
				"72-hour notification met or delay justified",
				"High-risk subjects informed without undue delay",
			},
		},

		"transparency": {
			Category:        "Transparency Obligations",
			Priority:        models.PriorityMedium,
			Complexity:      models.ComplexitySimple,
			EstimatedEffort: "1-3 weeks",
			EstimatedCost:   "$5k-$15k",
			ImmediateActions: []string{
				"Publish a privacy notice covering purposes, lawful bases, recipients, retention, and rights",
				"Link the notice at every point of data collection",
			},
			ShortTermSolutions: []string{
				"Layer the notice: short summary up front, full detail behind it",
				"Translate the notice for every market served",
			},
			LongTermImprovements: []string{
				"Review the notice on every new processing activity",
			},
			RequiredRoles: []string{"Legal Counsel", "Product"},
		},

		"data_transfer": {
			Category:        "International Transfers",
			Priority:        models.PriorityHigh,
			Complexity:      models.ComplexityComplex,
			EstimatedEffort: "4-10 weeks",
			EstimatedCost:   "$20k-$60k",
			ImmediateActions: []string{
				"Inventory all transfers of personal data outside the EEA and their destinations",
				"Identify the transfer mechanism (adequacy, SCCs, BCRs) for each flow or halt it",
			},
			ShortTermSolutions: []string{
				"Execute standard contractual clauses with non-adequate-country recipients",
				"Run transfer impact assessments for high-risk destinations",
			},
			LongTermImprovements: []string{
				"Prefer EEA or adequacy-decision hosting for new systems",
			},
			RequiredRoles: []string{"Legal Counsel", "Data Protection Officer", "Infrastructure"},
		},

		"security": {
			Category:        "Security of Processing",
			Priority:        models.PriorityHigh,
			Complexity:      models.ComplexityComplex,
			EstimatedEffort: "4-12 weeks",
			EstimatedCost:   "$25k-$100k",
			ImmediateActions: []string{
				"Encrypt personal data at rest and in transit",
				"Restrict access to personal data to roles that need it",
				"Enable audit logging on systems processing personal data",
			},
			ShortTermSolutions: []string{
				"Run a technical and organizational measures gap assessment against Article 32",
				"Introduce pseudonymization where full identifiers are not required",
			},
			LongTermImprovements: []string{
				"Schedule recurring penetration testing and access reviews",
			},
			RequiredRoles: []string{"Security", "Infrastructure", "Engineering"},
		},

		"data_subject_rights": {
			Category:        "Data Subject Rights",
			Priority:        models.PriorityHigh,
			Complexity:      models.ComplexityModerate,
			EstimatedEffort: "2-4 weeks",
			EstimatedCost:   "$10k-$30k",
			ImmediateActions: []string{
				"Conduct a detailed compliance assessment of the affected processing",
				"Consult legal counsel on exposure and required notifications",
				"Document the current state and identified gaps",
			},
			ShortTermSolutions: []string{
				"Implement technical controls closing the identified gaps",
				"Update policies and procedures and train affected staff",
			},
			LongTermImprovements: []string{
				"Establish ongoing monitoring and periodic compliance audits",
			},
			RequiredRoles: []string{"Legal Counsel", "Compliance Officer", "Engineering"},
		},
	}
}
