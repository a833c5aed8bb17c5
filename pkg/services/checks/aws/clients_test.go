package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
	"github.com/de-tools/compliance-atlas/pkg/services/scan"
)

func TestRegisterChecks_CoversDefaultCatalog(t *testing.T) {
	reg := scan.NewRegistry()
	clients := NewClients(awssdk.Config{Region: DefaultRegion}, DefaultRegion, nil)

	require.NoError(t, RegisterChecks(reg, clients))

	// Every built-in rule must resolve to a registered check, so a
	// default scan never degrades to "not implemented" errors.
	for _, rule := range catalog.DefaultRules() {
		_, ok := reg.Resolve(rule.Check)
		assert.True(t, ok, "rule %s references unregistered check %q", rule.ID, rule.Check)
	}
}

func TestRegisterChecks_RejectsDoubleRegistration(t *testing.T) {
	reg := scan.NewRegistry()
	clients := NewClients(awssdk.Config{Region: DefaultRegion}, DefaultRegion, nil)

	require.NoError(t, RegisterChecks(reg, clients))
	assert.Error(t, RegisterChecks(reg, clients))
}
