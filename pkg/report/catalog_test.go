package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions(t *testing.T) {
	c := Definitions()

	require.Equal(t, []string{
		"audit",
		"compliance",
		"cost-analysis",
		"dashboard",
		"insights",
		"performance",
		"security",
		"security-audit",
		"simulation",
		"user-analytics",
		"user-engagement",
	}, c.Kinds())

	ids := map[string]bool{}
	for _, def := range c.All() {
		t.Run(def.Kind, func(t *testing.T) {
			assert.NotEmpty(t, def.Dir)
			assert.NotEmpty(t, def.Prefix)

			for _, cat := range def.Categories {
				_, err := cat.GetterABI().ABI()
				require.NoError(t, err, cat.Getter)
				require.NotEmpty(t, cat.Fields, cat.Getter)
			}

			lists := map[string]bool{}
			for _, l := range def.Lists {
				lists[l] = true
			}

			for _, r := range def.Rules {
				id := def.RuleID(r)
				assert.False(t, ids[id], "duplicate rule %s", id)
				ids[id] = true

				assert.True(t, lists[r.List], "rule %s writes to undeclared list", id)
				assert.NotEmpty(t, r.Message)
			}
		})
	}
}

func TestCatalogGet(t *testing.T) {
	c := Definitions()

	def, err := c.Get("compliance")
	require.NoError(t, err)
	assert.Equal(t, "compliance-check", def.Prefix)

	_, err = c.Get("treasury")
	require.ErrorIs(t, err, ErrUnknownKind)
}
