package catalog

import (
	"fmt"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

// Catalog is an ordered, immutable collection of rule definitions.
// Find tolerates unknown ids so that a result set recorded against an
// older catalog version can still be aggregated and reported.
type Catalog interface {
	// Rules returns the rules in their declared order.
	Rules() []domain.Rule
	// Find looks up a rule by id, reporting whether it exists.
	Find(id string) (domain.Rule, bool)
}

type catalog struct {
	rules []domain.Rule
	index map[string]domain.Rule
}

// New builds a catalog from the given rules. Rule order is preserved.
// A duplicate rule id is a construction error: without a well-formed
// catalog there is nothing to scan.
func New(rules []domain.Rule) (Catalog, error) {
	c := &catalog{
		rules: make([]domain.Rule, len(rules)),
		index: make(map[string]domain.Rule, len(rules)),
	}
	copy(c.rules, rules)

	for _, r := range c.rules {
		if r.ID == "" {
			return nil, fmt.Errorf("rule with empty id (title %q)", r.Title)
		}
		if _, exists := c.index[r.ID]; exists {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID)
		}
		c.index[r.ID] = r
	}
	return c, nil
}

func (c *catalog) Rules() []domain.Rule {
	rules := make([]domain.Rule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

func (c *catalog) Find(id string) (domain.Rule, bool) {
	r, ok := c.index[id]
	return r, ok
}
