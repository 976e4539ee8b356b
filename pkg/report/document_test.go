package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	doc := NewDocument()
	doc.Set("timestamp", "now")
	doc.Object("dashboard.govStats").Set("totalProposals", "3")
	doc.SetPath("dashboard.recentProposals", []any{"1"})
	doc.Set("advice", []string{})
	doc.Append("advice", "first")

	// overwriting keeps the original position
	doc.Set("timestamp", "later")

	assert.Equal(t, []string{"timestamp", "dashboard", "advice"}, doc.Keys())
	assert.Equal(t, []string{"first"}, doc.List("advice"))

	_, ok := doc.Lookup("dashboard.govStats.missing")
	assert.False(t, ok)
	_, ok = doc.Lookup("timestamp.nested")
	assert.False(t, ok)

	b, err := doc.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"timestamp":"later","dashboard":{"govStats":{"totalProposals":"3"},"recentProposals":["1"]},"advice":["first"]}`,
		string(b),
	)
}
