package report

import "math/big"

const (
	uint256   = "uint256"
	uint256s  = "uint256[]"
	boolean   = "bool"
	text      = "string"
	texts     = "string[]"
	addressT  = "address"
	statusKey = "complianceStatus"
)

func num(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Field{Name: n, Type: uint256, Mode: ModeString})
	}
	return fields
}

func flags(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Field{Name: n, Type: boolean, Mode: ModeRaw})
	}
	return fields
}

func raw(name, typ string) Field {
	return Field{Name: name, Type: typ, Mode: ModeRaw}
}

func fields(groups ...[]Field) []Field {
	var out []Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func lt(list, metric string, threshold float64, msg string) Rule {
	return Rule{List: list, Metric: metric, Op: OpLT, Threshold: threshold, Message: msg}
}

func gt(list, metric string, threshold float64, msg string) Rule {
	return Rule{List: list, Metric: metric, Op: OpGT, Threshold: threshold, Message: msg}
}

func isFalse(list, metric, msg string) Rule {
	return Rule{List: list, Metric: metric, Op: OpFalse, Message: msg}
}

const (
	findings         = "findings"
	recommendations  = "recommendations"
	violations       = "violations"
	improvementAreas = "improvementAreas"
	recommendation   = "recommendation"
)

var Audit = Definition{
	Kind:   "audit",
	Dir:    "audit",
	Prefix: "governance-audit",
	Categories: []Category{
		{Key: "governanceSummary", Getter: "getGovernanceSummary", Fields: fields(
			num("totalProposals", "activeProposals", "completedProposals", "totalVotes", "totalVoters"),
			[]Field{raw("quorumAchieved", boolean), raw("governanceStatus", text)},
		)},
		{Key: "votingMetrics", Getter: "getVotingMetrics", Fields: num(
			"avgVotingTime", "avgVotesPerProposal", "participationRate", "avgVotingPower", "totalVotingEvents",
		)},
		{Key: "proposalMetrics", Getter: "getProposalMetrics", Fields: num(
			"proposalSuccessRate", "avgProposalTime", "proposalApprovalRate", "totalProposalReviews", "avgProposalComplexity",
		)},
		{Key: "participationMetrics", Getter: "getParticipationMetrics", Fields: num(
			"totalActiveVoters", "avgVoterEngagement", "voterRetention", "newVoterRate", "communityTrust",
		)},
		{Key: "securityChecks", Getter: "getSecurityChecks", Fields: flags(
			"ownership", "accessControl", "emergencyPause", "upgradeability", "timelock",
		)},
	},
	Lists: []string{findings, recommendations},
	Rules: []Rule{
		lt(findings, "votingMetrics.participationRate", 30, "Low voter participation rate detected"),
		lt(findings, "proposalMetrics.proposalSuccessRate", 40, "Low proposal success rate detected"),
		lt(findings, "participationMetrics.voterRetention", 60, "Low voter retention rate detected"),
		lt(recommendations, "votingMetrics.participationRate", 50, "Implement voter engagement initiatives"),
		lt(recommendations, "proposalMetrics.proposalSuccessRate", 50, "Review proposal quality and process"),
		lt(recommendations, "participationMetrics.voterRetention", 70, "Develop voter retention strategies"),
	},
}

var Compliance = Definition{
	Kind:   "compliance",
	Dir:    "compliance",
	Prefix: "compliance-check",
	Categories: []Category{
		{Key: "complianceData", Getter: "owner", Fields: []Field{{Name: "owner", Type: addressT, Mode: ModeString}}},
		{Key: "complianceData", Getter: "getQuorum", Fields: num("quorum")},
		{Key: "complianceData", Getter: "getVotingPeriod", Fields: num("votingPeriod")},
		{Key: "complianceData", Getter: "getProposalThreshold", Fields: num("proposalThreshold")},
		{Key: "complianceData", Getter: "getActiveProposals", Fields: []Field{{Name: "activeProposals", Type: uint256s, Mode: ModeLength}}},
		{Key: "complianceData", Getter: "getTotalVotes", Fields: num("totalVotes")},
	},
	TokenContext: true,
	Status:       &Status{Key: statusKey, Default: "COMPLIANT"},
	Lists:        []string{violations, recommendations},
	Rules: []Rule{
		{List: violations, Metric: "complianceData.quorum", Op: OpLT, Threshold: 1000, Message: "Quorum too low", Status: "NON_COMPLIANT"},
		{List: violations, Metric: "complianceData.votingPeriod", Op: OpLT, Threshold: 86400, Message: "Voting period too short", Status: "NON_COMPLIANT"},
		gt(recommendations, "complianceData.activeProposals", 100, "Consider implementing proposal limits"),
	},
}

var CostAnalysis = Definition{
	Kind:   "cost-analysis",
	Dir:    "cost",
	Prefix: "governance-cost-analysis",
	Categories: []Category{
		{Key: "costBreakdown", Getter: "getCostBreakdown", Fields: num(
			"developmentCost", "maintenanceCost", "operationalCost", "securityCost", "gasCost", "totalCost",
		)},
		{Key: "efficiencyMetrics", Getter: "getEfficiencyMetrics", Fields: num(
			"costPerProposal", "costPerVoter", "roi", "costEffectiveness", "efficiencyScore",
		)},
		{Key: "costOptimization", Getter: "getCostOptimization", Fields: []Field{
			raw("optimizationOpportunities", texts),
			{Name: "potentialSavings", Type: uint256, Mode: ModeString},
			{Name: "implementationTime", Type: uint256, Mode: ModeString},
			raw("riskLevel", text),
		}},
		{Key: "revenueAnalysis", Getter: "getRevenueAnalysis", Fields: num(
			"totalRevenue", "governanceFees", "platformFees", "netProfit", "profitMargin",
		)},
	},
	Lists: []string{recommendations},
	Rules: []Rule{
		gt(recommendations, "costBreakdown.totalCost", 1200000, "Review and optimize operational costs"),
		// 0.1 ETH in wei
		gt(recommendations, "efficiencyMetrics.costPerProposal", 1e17, "Reduce proposal processing costs for better efficiency"),
		lt(recommendations, "revenueAnalysis.profitMargin", 25, "Improve profit margins through cost optimization"),
		gt(recommendations, "costOptimization.potentialSavings", 60000, "Implement cost optimization measures"),
	},
}

var Dashboard = Definition{
	Kind:   "dashboard",
	Dir:    "reports",
	Prefix: "governance-dashboard",
	Categories: []Category{
		{Key: "dashboard.govStats", Getter: "getGovernanceStats", Fields: num(
			"totalProposals", "activeProposals", "completedProposals", "passedProposals",
			"rejectedProposals", "totalVotesCast", "totalVoters",
		)},
		{
			Key:    "dashboard.recentProposals",
			Getter: "getRecentProposals",
			Args:   []Arg{{Name: "count", Type: uint256, Value: big.NewInt(5)}},
			Fields: []Field{raw("proposalIds", uint256s)},
			Single: true,
		},
		{Key: "dashboard.userStats", Getter: "getUserStats", Fields: num("totalUsers", "activeUsers", "avgVotingPower")},
		{Key: "dashboard.delegateStats", Getter: "getDelegateStats", Fields: num("totalDelegates", "totalDelegators", "avgDelegation")},
	},
}

var Insights = Definition{
	Kind:   "insights",
	Dir:    "insights",
	Prefix: "governance-insights",
	Categories: []Category{
		{Key: "participationMetrics", Getter: "getParticipationMetrics", Fields: num(
			"totalVoters", "activeVoters", "participationRate", "avgVotesPerUser",
		)},
		{Key: "proposalEffectiveness", Getter: "getProposalEffectiveness", Fields: num(
			"totalProposals", "passedProposals", "rejectedProposals", "successRate",
		)},
		{Key: "votingPatterns", Getter: "getVotingPatterns", Fields: num("majorityConsensus", "minorityVotes", "abstentions")},
		{Key: "communityHealth", Getter: "getCommunityHealth", Fields: num("engagementScore", "trustIndex", "diversityScore", "activityLevel")},
	},
	Lists: []string{improvementAreas},
	Rules: []Rule{
		lt(improvementAreas, "participationMetrics.participationRate", 30, "Low voter participation - implement engagement initiatives"),
		lt(improvementAreas, "proposalEffectiveness.successRate", 50, "Low proposal success rate - review decision-making processes"),
	},
}

var Performance = Definition{
	Kind:   "performance",
	Dir:    "performance",
	Prefix: "governance-performance",
	Categories: []Category{
		{Key: "performanceMetrics", Getter: "getPerformanceMetrics", Fields: num(
			"responseTime", "transactionSpeed", "throughput", "uptime", "errorRate", "gasEfficiency",
		)},
		{Key: "efficiencyScores", Getter: "getEfficiencyScores", Fields: num(
			"proposalEfficiency", "votingEfficiency", "userEngagement", "decisionMaking", "transparency",
		)},
		{Key: "userExperience", Getter: "getUserExperience", Fields: num(
			"interfaceUsability", "transactionEase", "mobileCompatibility", "loadingSpeed", "customerSatisfaction",
		)},
		{Key: "scalability", Getter: "getScalability", Fields: num(
			"userCapacity", "transactionCapacity", "storageCapacity", "networkCapacity", "futureGrowth",
		)},
	},
	Lists: []string{recommendations},
	Rules: []Rule{
		gt(recommendations, "performanceMetrics.responseTime", 2000, "Optimize response time for better user experience"),
		gt(recommendations, "performanceMetrics.errorRate", 1, "Reduce error rate through system optimization"),
		lt(recommendations, "efficiencyScores.proposalEfficiency", 70, "Improve proposal processing efficiency"),
		lt(recommendations, "userExperience.customerSatisfaction", 85, "Enhance user experience and satisfaction"),
	},
}

var SecurityAudit = Definition{
	Kind:   "security-audit",
	Dir:    "security",
	Prefix: "governance-security-audit",
	Categories: []Category{
		{Key: "auditSummary", Getter: "getAuditSummary", Fields: fields(
			num("totalTests", "passedTests", "failedTests", "securityScore", "lastAudit"),
			[]Field{raw("auditStatus", text)},
		)},
		{Key: "vulnerabilityAssessment", Getter: "getVulnerabilityAssessment", Fields: num(
			"criticalVulnerabilities", "highVulnerabilities", "mediumVulnerabilities", "lowVulnerabilities", "totalVulnerabilities",
		)},
		{Key: "securityControls", Getter: "getSecurityControls", Fields: flags(
			"accessControl", "authentication", "authorization", "encryption", "backupSystems", "incidentResponse",
		)},
		{Key: "riskMatrix", Getter: "getRiskMatrix", Fields: fields(
			num("riskScore"),
			[]Field{raw("riskLevel", text)},
			num("mitigationEffort", "likelihood", "impact"),
		)},
	},
	Lists: []string{recommendations},
	Rules: []Rule{
		gt(recommendations, "vulnerabilityAssessment.criticalVulnerabilities", 0, "Immediate remediation of critical vulnerabilities required"),
		gt(recommendations, "vulnerabilityAssessment.highVulnerabilities", 2, "Prioritize fixing high severity vulnerabilities"),
		isFalse(recommendations, "securityControls.accessControl", "Implement robust access control mechanisms"),
		isFalse(recommendations, "securityControls.encryption", "Enable data encryption for governance data"),
	},
}

var Security = Definition{
	Kind:   "security",
	Dir:    "security",
	Prefix: "governance-security",
	Categories: []Category{
		{Key: "securityAssessment", Getter: "getSecurityAssessment", Fields: []Field{
			{Name: "securityScore", Type: uint256, Mode: ModeString},
			raw("auditStatus", text),
			{Name: "lastAudit", Type: uint256, Mode: ModeString},
			raw("securityGrade", text),
			raw("riskLevel", text),
		}},
		{Key: "vulnerabilityScan", Getter: "getVulnerabilityScan", Fields: num(
			"criticalVulnerabilities", "highVulnerabilities", "mediumVulnerabilities", "lowVulnerabilities",
			"totalVulnerabilities", "scanDate",
		)},
		{Key: "riskMetrics", Getter: "getRiskMetrics", Fields: num(
			"totalRiskScore", "financialRisk", "operationalRisk", "technicalRisk", "regulatoryRisk",
		)},
		{Key: "securityControls", Getter: "getSecurityControls", Fields: flags(
			"accessControl", "encryption", "backupSystems", "monitoring", "incidentResponse",
		)},
	},
	Lists: []string{recommendations},
	Rules: []Rule{
		lt(recommendations, "securityAssessment.securityScore", 80, "Improve overall security score"),
		gt(recommendations, "vulnerabilityScan.criticalVulnerabilities", 0, "Fix critical vulnerabilities immediately"),
		gt(recommendations, "riskMetrics.totalRiskScore", 75, "Implement comprehensive risk mitigation strategies"),
		isFalse(recommendations, "securityControls.accessControl", "Implement robust access control mechanisms"),
	},
}

var Simulation = Definition{
	Kind:   "simulation",
	Dir:    "simulation",
	Prefix: "governance-simulation",
	Lists:  []string{recommendations},
	Rules: []Rule{
		gt(recommendations, "participationMetrics.participationRate", 80, "Maintain current engagement levels"),
		lt(recommendations, "participationMetrics.proposalSuccessRate", 50, "Improve proposal quality and process"),
	},
	Static: simulate,
}

var UserAnalytics = Definition{
	Kind:   "user-analytics",
	Dir:    "analytics",
	Prefix: "governance-user-analytics",
	Categories: []Category{
		{Key: "userDemographics", Getter: "getUserDemographics", Fields: fields(
			num("totalUsers", "activeUsers", "newUsers", "returningUsers"),
			[]Field{raw("userDistribution", uint256s)},
		)},
		{Key: "engagementMetrics", Getter: "getEngagementMetrics", Fields: num(
			"avgSessionTime", "dailyActiveUsers", "weeklyActiveUsers", "monthlyActiveUsers", "userRetention", "engagementScore",
		)},
		{Key: "votingPatterns", Getter: "getVotingPatterns", Fields: fields(
			num("avgVotingPower", "votingFrequency"),
			[]Field{raw("popularProposals", uint256s), raw("peakVotingHours", uint256s)},
			num("averageVotingTime", "participationRate"),
		)},
		{Key: "userSegments", Getter: "getUserSegments", Fields: fields(
			num("casualVoters", "activeVoters", "frequentVoters", "occasionalVoters", "highValueVoters"),
			[]Field{raw("segmentDistribution", uint256s)},
		)},
	},
	Lists: []string{recommendations},
	Rules: []Rule{
		lt(recommendations, "engagementMetrics.userRetention", 65, "Low user retention - implement retention strategies"),
		lt(recommendations, "votingPatterns.participationRate", 30, "Low voting participation - improve engagement"),
		lt(recommendations, "userSegments.highValueVoters", 80, "Low high-value voters - focus on premium user acquisition"),
		{
			List:    recommendations,
			Metric:  "userSegments.casualVoters",
			Op:      OpGTMetric,
			Other:   "userSegments.activeVoters",
			Message: "More casual voters than active voters - consider voter engagement",
		},
	},
}

var UserEngagement = Definition{
	Kind:   "user-engagement",
	Dir:    "engagement",
	Prefix: "governance-engagement",
	Categories: []Category{
		{Key: "userMetrics", Getter: "getUserMetrics", Fields: num(
			"totalUsers", "activeUsers", "newUsers", "returningUsers", "userGrowthRate",
		)},
		{Key: "engagementScores", Getter: "getEngagementScores", Fields: num(
			"overallEngagement", "userRetention", "votingEngagement", "proposalEngagement", "communityEngagement",
		)},
		{Key: "retentionAnalysis", Getter: "getRetentionAnalysis", Fields: []Field{
			{Name: "day1Retention", Type: uint256, Mode: ModeString},
			{Name: "day7Retention", Type: uint256, Mode: ModeString},
			{Name: "day30Retention", Type: uint256, Mode: ModeString},
			raw("cohortAnalysis", uint256s),
			{Name: "churnRate", Type: uint256, Mode: ModeString},
		}},
		{Key: "activityPatterns", Getter: "getActivityPatterns", Fields: []Field{
			raw("peakHours", uint256s),
			raw("weeklyActivity", uint256s),
			raw("seasonalTrends", uint256s),
			raw("userSegments", uint256s),
			raw("engagementFrequency", uint256),
		}},
	},
	Lists: []string{recommendation},
	Rules: []Rule{
		lt(recommendation, "engagementScores.overallEngagement", 75, "Improve overall user engagement"),
		lt(recommendation, "retentionAnalysis.day30Retention", 20, "Implement retention strategies"),
		lt(recommendation, "userMetrics.userGrowthRate", 6, "Boost user acquisition efforts"),
		lt(recommendation, "engagementScores.userRetention", 50, "Enhance user retention programs"),
	},
}

// Definitions returns every report definition
func Definitions() Catalog {
	return NewCatalog(
		Audit,
		Compliance,
		CostAnalysis,
		Dashboard,
		Insights,
		Performance,
		SecurityAudit,
		Security,
		Simulation,
		UserAnalytics,
		UserEngagement,
	)
}
