package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsDoc(values map[string]any) *Document {
	doc := NewDocument()
	for path, v := range values {
		doc.SetPath(path, v)
	}
	return doc
}

func TestApply(t *testing.T) {
	def := Definition{
		Kind:   "test",
		Status: &Status{Key: "status", Default: "OK"},
		Lists:  []string{"advice"},
		Rules: []Rule{
			lt("advice", "a.low", 10, "low"),
			gt("advice", "a.high", 10, "high"),
			isFalse("advice", "b.enabled", "disabled"),
			{List: "advice", Metric: "c.x", Op: OpGTMetric, Other: "c.y", Message: "x over y"},
			{List: "advice", Metric: "a.limit", Op: OpLT, Threshold: 5, Message: "limit", Status: "BAD"},
		},
	}

	tests := []struct {
		name    string
		values  map[string]any
		advice  []string
		status  string
		skipped int
	}{
		{
			name:    "all match",
			values:  map[string]any{"a.low": "3", "a.high": "11", "b.enabled": false, "c.x": "7", "c.y": "5", "a.limit": 1},
			advice:  []string{"low", "high", "disabled", "x over y", "limit"},
			status:  "BAD",
			skipped: 0,
		},
		{
			name:    "none match",
			values:  map[string]any{"a.low": "10", "a.high": "10", "b.enabled": true, "c.x": "5", "c.y": "7", "a.limit": "5"},
			advice:  []string{},
			status:  "OK",
			skipped: 0,
		},
		{
			name:    "numeric pair comparison",
			values:  map[string]any{"c.x": "10", "c.y": "9"},
			advice:  []string{"x over y"},
			status:  "OK",
			skipped: 4,
		},
		{
			name:    "missing and malformed metrics are skipped",
			values:  map[string]any{"a.low": "n/a", "b.enabled": "false"},
			advice:  []string{},
			status:  "OK",
			skipped: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := metricsDoc(tt.values)
			doc.Set("status", "OK")
			doc.Set("advice", []string{})

			skipped := def.Apply(doc, nil)

			assert.Equal(t, tt.advice, doc.List("advice"))
			assert.Equal(t, tt.status, lookup(t, doc, "status"))
			assert.Len(t, skipped, tt.skipped)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	doc := metricsDoc(map[string]any{"votingMetrics.participationRate": "35"})
	doc.Set(findings, []string{})
	doc.Set(recommendations, []string{})

	Audit.Apply(doc, Overrides{"audit.findings.votingMetrics.participationRate": 40})

	assert.Equal(t, []string{"Low voter participation rate detected"}, doc.List(findings))
	assert.Equal(t, []string{"Implement voter engagement initiatives"}, doc.List(recommendations))
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	o, err := LoadOverrides(write("ok.yaml", "compliance.violations.complianceData.quorum: 2000\n"), Definitions())
	require.NoError(t, err)
	assert.Equal(t, Overrides{"compliance.violations.complianceData.quorum": 2000}, o)

	_, err = LoadOverrides(write("unknown.yaml", "audit.findings.nothing: 1\n"), Definitions())
	require.ErrorIs(t, err, ErrInvalidOverride)

	_, err = LoadOverrides(write("bool.yaml", "security.recommendations.securityControls.accessControl: 1\n"), Definitions())
	require.ErrorIs(t, err, ErrInvalidOverride)

	_, err = LoadOverrides(write("bad.yaml", "audit: [1, 2\n"), Definitions())
	require.Error(t, err)

	_, err = LoadOverrides(filepath.Join(dir, "missing.yaml"), Definitions())
	require.Error(t, err)
}
