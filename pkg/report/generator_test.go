package report

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockArchive struct {
	entries []*governance.ReportEntry
}

func (m *MockArchive) SaveReport(ctx context.Context, e *governance.ReportEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func auditCaller(t *testing.T, participation, success, retention int64) *MockCaller {
	t.Helper()

	m := NewMockCaller()
	m.Return(t, category(t, Audit, "getGovernanceSummary"), append(nums(12, 3, 9, 420, 77), true, "ACTIVE")...)
	m.Return(t, category(t, Audit, "getVotingMetrics"), nums(3600, 35, participation, 1000, 420)...)
	m.Return(t, category(t, Audit, "getProposalMetrics"), nums(success, 7200, 60, 24, 3)...)
	m.Return(t, category(t, Audit, "getParticipationMetrics"), nums(77, 40, retention, 5, 80)...)
	m.Return(t, category(t, Audit, "getSecurityChecks"), true, true, false, false, true)
	return m
}

func TestBuildAudit(t *testing.T) {
	ctx := context.Background()

	g := newGenerator(t, auditCaller(t, 25, 45, 65))
	r := g.Build(ctx, Audit)

	doc := r.Document
	assert.Equal(t, []string{
		"timestamp",
		"governanceAddress",
		"kind",
		"runId",
		"chainId",
		"governanceSummary",
		"votingMetrics",
		"proposalMetrics",
		"participationMetrics",
		"securityChecks",
		"findings",
		"recommendations",
	}, doc.Keys())

	assert.Equal(t, "2025-03-14T09:26:53.589Z", lookup(t, doc, "timestamp"))
	assert.Equal(t, govAddr.Hex(), lookup(t, doc, "governanceAddress"))
	assert.Equal(t, "12", lookup(t, doc, "governanceSummary.totalProposals"))
	assert.Equal(t, true, lookup(t, doc, "governanceSummary.quorumAchieved"))
	assert.Equal(t, "ACTIVE", lookup(t, doc, "governanceSummary.governanceStatus"))
	assert.Equal(t, false, lookup(t, doc, "securityChecks.emergencyPause"))

	assert.Equal(t, []string{
		"Low voter participation rate detected",
	}, doc.List(findings))
	assert.Equal(t, []string{
		"Implement voter engagement initiatives",
		"Review proposal quality and process",
		"Develop voter retention strategies",
	}, doc.List(recommendations))

	assert.Empty(t, r.Unavailable)
	assert.Empty(t, r.Skipped)
	assert.Equal(t, filepath.Join(g.reportsDir, "audit", "governance-audit-1741944413589.json"), r.Path)
}

func TestBuildDeterministic(t *testing.T) {
	ctx := context.Background()

	a := newGenerator(t, auditCaller(t, 20, 30, 50)).Build(ctx, Audit)
	b := newGenerator(t, auditCaller(t, 20, 30, 50)).Build(ctx, Audit)

	for _, l := range Audit.Lists {
		if diff := cmp.Diff(a.Document.List(l), b.Document.List(l)); diff != "" {
			t.Fatalf("%s mismatch (-a +b):\n%s", l, diff)
		}
	}

	assert.Len(t, a.Document.List(findings), 3)
	assert.Len(t, a.Document.List(recommendations), 3)
}

func TestBuildGettersFail(t *testing.T) {
	ctx := context.Background()

	for _, def := range Definitions().All() {
		t.Run(def.Kind, func(t *testing.T) {
			m := NewMockCaller()
			m.fallback = errReverted

			r := newGenerator(t, m, WithToken(tokenAddr)).Build(ctx, def)
			doc := r.Document

			_, ok := doc.Lookup("timestamp")
			require.True(t, ok)

			for _, c := range def.Categories {
				v := lookup(t, doc, c.Key)
				o, ok := v.(*Object)
				require.True(t, ok, c.Key)
				assert.Equal(t, 0, o.Len(), c.Key)
				assert.Contains(t, r.Unavailable, c.Key)
			}

			for _, l := range def.Lists {
				require.NotNil(t, doc.List(l), l)
			}

			if len(def.Categories) > 0 {
				assert.Len(t, r.Skipped, len(def.Rules))
				for _, l := range def.Lists {
					assert.Empty(t, doc.List(l), l)
				}

				_, ok = doc.Lookup(keyUnavailable)
				assert.True(t, ok)
			}
		})
	}
}

func TestBuildPartialFailure(t *testing.T) {
	ctx := context.Background()

	m := auditCaller(t, 25, 45, 65)
	m.Fail(t, category(t, Audit, "getVotingMetrics"), errReverted)

	r := newGenerator(t, m).Build(ctx, Audit)

	assert.Equal(t, map[string]string{
		"votingMetrics": "getVotingMetrics: execution reverted",
	}, r.Unavailable)
	assert.Equal(t, []string{
		"audit.findings.votingMetrics.participationRate",
		"audit.recommendations.votingMetrics.participationRate",
	}, r.Skipped)

	assert.Empty(t, r.Document.List(findings))
	assert.Equal(t, "getVotingMetrics: execution reverted", lookup(t, r.Document, "unavailable.votingMetrics"))
	assert.Equal(t, "unavailable", r.Document.Keys()[len(r.Document.Keys())-1])
}

func TestBuildCompliance(t *testing.T) {
	ctx := context.Background()
	owner := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	active := make([]*big.Int, 101)
	for i := range active {
		active[i] = big.NewInt(int64(i + 1))
	}

	tests := []struct {
		name            string
		quorum          int64
		votingPeriod    int64
		active          []*big.Int
		violations      []string
		recommendations []string
		status          string
	}{
		{
			name:            "compliant",
			quorum:          1000,
			votingPeriod:    86400,
			active:          bigs(1, 2),
			violations:      []string{},
			recommendations: []string{},
			status:          "COMPLIANT",
		},
		{
			name:            "non compliant",
			quorum:          999,
			votingPeriod:    3600,
			active:          active,
			violations:      []string{"Quorum too low", "Voting period too short"},
			recommendations: []string{"Consider implementing proposal limits"},
			status:          "NON_COMPLIANT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockCaller()
			m.Return(t, category(t, Compliance, "owner"), owner)
			m.Return(t, category(t, Compliance, "getQuorum"), big.NewInt(tt.quorum))
			m.Return(t, category(t, Compliance, "getVotingPeriod"), big.NewInt(tt.votingPeriod))
			m.Return(t, category(t, Compliance, "getProposalThreshold"), new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18)))
			m.Return(t, category(t, Compliance, "getActiveProposals"), tt.active)
			m.Return(t, category(t, Compliance, "getTotalVotes"), big.NewInt(42))
			m.Token(t, "GOV", 18, big.NewInt(1_000_000))

			r := newGenerator(t, m, WithToken(tokenAddr)).Build(ctx, Compliance)
			doc := r.Document

			assert.Equal(t, []string{
				"timestamp",
				"governanceAddress",
				"kind",
				"runId",
				"chainId",
				"complianceData",
				"tokenContext",
				"complianceStatus",
				"violations",
				"recommendations",
			}, doc.Keys())

			assert.Equal(t, owner.Hex(), lookup(t, doc, "complianceData.owner"))
			assert.Equal(t, "1000000000000000000000", lookup(t, doc, "complianceData.proposalThreshold"))
			assert.Equal(t, len(tt.active), lookup(t, doc, "complianceData.activeProposals"))
			assert.Equal(t, "GOV", lookup(t, doc, "tokenContext.symbol"))
			assert.Equal(t, "1000000", lookup(t, doc, "tokenContext.totalSupply"))

			assert.Equal(t, tt.status, lookup(t, doc, "complianceStatus"))
			assert.Equal(t, tt.violations, doc.List(violations))
			assert.Equal(t, tt.recommendations, doc.List(recommendations))
			assert.Empty(t, r.Unavailable)
		})
	}
}

func TestBuildDashboard(t *testing.T) {
	ctx := context.Background()

	m := NewMockCaller()
	m.Return(t, category(t, Dashboard, "getGovernanceStats"), nums(10, 2, 8, 6, 2, 300, 50)...)
	m.Return(t, category(t, Dashboard, "getRecentProposals"), bigs(10, 9, 8, 7, 6))
	m.Return(t, category(t, Dashboard, "getUserStats"), nums(120, 50, 1000)...)
	m.Fail(t, category(t, Dashboard, "getDelegateStats"), errReverted)

	r := newGenerator(t, m).Build(ctx, Dashboard)
	doc := r.Document

	assert.Equal(t, "300", lookup(t, doc, "dashboard.govStats.totalVotesCast"))
	assert.Equal(t, []any{"10", "9", "8", "7", "6"}, lookup(t, doc, "dashboard.recentProposals"))
	assert.Equal(t, "50", lookup(t, doc, "dashboard.userStats.activeUsers"))
	assert.Equal(t, 0, lookup(t, doc, "dashboard.delegateStats").(*Object).Len())
	assert.Contains(t, r.Unavailable, "dashboard.delegateStats")
}

func TestBuildUserAnalytics(t *testing.T) {
	ctx := context.Background()

	m := NewMockCaller()
	m.Return(t, category(t, UserAnalytics, "getUserDemographics"), big.NewInt(1000), big.NewInt(600), big.NewInt(50), big.NewInt(550), bigs(1, 2, 3))
	m.Return(t, category(t, UserAnalytics, "getEngagementMetrics"), nums(300, 200, 500, 800, 70, 80)...)
	m.Return(t, category(t, UserAnalytics, "getVotingPatterns"), big.NewInt(100), big.NewInt(3), bigs(4, 7), bigs(18, 19), big.NewInt(120), big.NewInt(40))
	m.Return(t, category(t, UserAnalytics, "getUserSegments"), big.NewInt(9), big.NewInt(10), big.NewInt(5), big.NewInt(3), big.NewInt(90), bigs(40, 30, 30))

	r := newGenerator(t, m).Build(ctx, UserAnalytics)
	// 9 < 10 compares as numbers, not strings
	assert.Empty(t, r.Document.List(recommendations))
	assert.Equal(t, []any{"4", "7"}, lookup(t, r.Document, "votingPatterns.popularProposals"))

	m.Return(t, category(t, UserAnalytics, "getUserSegments"), big.NewInt(11), big.NewInt(10), big.NewInt(5), big.NewInt(3), big.NewInt(70), bigs(40, 30, 30))

	r = newGenerator(t, m).Build(ctx, UserAnalytics)
	assert.Equal(t, []string{
		"Low high-value voters - focus on premium user acquisition",
		"More casual voters than active voters - consider voter engagement",
	}, r.Document.List(recommendations))
}

func TestBuildSimulation(t *testing.T) {
	r := newGenerator(t, NewMockCaller()).Build(context.Background(), Simulation)
	doc := r.Document

	assert.Equal(t, []string{
		"timestamp",
		"governanceAddress",
		"kind",
		"runId",
		"chainId",
		"scenarios",
		"results",
		"participationMetrics",
		"recommendations",
	}, doc.Keys())

	assert.Equal(t, "Low participation scenario", lookup(t, doc, "scenarios.lowParticipation.description"))
	assert.Equal(t, "2025-03-14T09:26:53.589Z", lookup(t, doc, "scenarios.growth.timestamp"))
	assert.Equal(t, 85.0, lookup(t, doc, "results.highParticipation"))
	assert.Equal(t, 1.5, lookup(t, doc, "results.lowParticipation"))
	assert.Equal(t, 132.0, lookup(t, doc, "results.growth"))
	assert.Equal(t, 56.0, lookup(t, doc, "results.decline"))
	assert.Equal(t, []string{"Maintain current engagement levels"}, doc.List(recommendations))
	assert.Empty(t, r.Unavailable)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	archive := &MockArchive{}

	g := newGenerator(t, auditCaller(t, 25, 45, 65), WithArchive(archive))

	r, err := g.Generate(ctx, "audit")
	require.NoError(t, err)

	b, err := os.ReadFile(r.Path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "{\n  \"timestamp\": \"2025-03-14T09:26:53.589Z\",\n  \"governanceAddress\"")

	var written map[string]any
	require.NoError(t, json.Unmarshal(b, &written))
	assert.Equal(t, "25", written["votingMetrics"].(map[string]any)["participationRate"])

	require.Len(t, archive.entries, 1)
	e := archive.entries[0]
	assert.Equal(t, r.RunID, e.RunID)
	assert.Equal(t, "audit", e.Kind)
	assert.Equal(t, int64(1337), e.ChainID)
	assert.Equal(t, r.Path, e.Path)
	assert.JSONEq(t, string(b), string(e.Document))

	_, err = g.Generate(ctx, "treasury")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestGenerateAll(t *testing.T) {
	m := NewMockCaller()
	m.fallback = errReverted

	g := newGenerator(t, m)

	reports, err := g.GenerateAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 11)

	for _, r := range reports {
		_, err := os.Stat(r.Path)
		require.NoError(t, err, r.Kind)
	}
}
