package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

func TestNew(t *testing.T) {
	t.Run("preserves declared order", func(t *testing.T) {
		cat, err := New([]domain.Rule{
			{ID: "B", Check: "b"},
			{ID: "A", Check: "a"},
			{ID: "C", Check: "c"},
		})
		require.NoError(t, err)

		rules := cat.Rules()
		require.Len(t, rules, 3)
		assert.Equal(t, "B", rules[0].ID)
		assert.Equal(t, "A", rules[1].ID)
		assert.Equal(t, "C", rules[2].ID)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := New([]domain.Rule{{ID: "A"}, {ID: "A"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate rule id")
	})

	t.Run("rejects empty id", func(t *testing.T) {
		_, err := New([]domain.Rule{{Title: "nameless"}})
		require.Error(t, err)
	})
}

func TestFind(t *testing.T) {
	cat, err := New([]domain.Rule{{ID: "SEC-IAM-001", Severity: domain.SeverityCritical}})
	require.NoError(t, err)

	rule, ok := cat.Find("SEC-IAM-001")
	assert.True(t, ok)
	assert.Equal(t, domain.SeverityCritical, rule.Severity)

	_, ok = cat.Find("NOPE-000")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	rules := cat.Rules()
	require.NotEmpty(t, rules)
	assert.Equal(t, "SEC-IAM-001", rules[0].ID)

	// Every default rule names a check binding.
	for _, r := range rules {
		assert.NotEmpty(t, r.Check, "rule %s has no check binding", r.ID)
		assert.NotEmpty(t, r.Title, "rule %s has no title", r.ID)
	}
}

func TestWithout(t *testing.T) {
	rules := DefaultRules()
	kept := Without(rules, []string{"SEC-IAM-001", "COST-CE-001", "NOT-A-RULE"})

	assert.Len(t, kept, len(rules)-2)
	for _, r := range kept {
		assert.NotEqual(t, "SEC-IAM-001", r.ID)
		assert.NotEqual(t, "COST-CE-001", r.ID)
	}
}
