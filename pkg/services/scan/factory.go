package scan

import (
	"context"

	"github.com/de-tools/compliance-atlas/pkg/services/config"
)

// Factory builds a scanner bound to one target environment from
// resolved settings. Wiring entrypoints provide the concrete factory so
// the CLI and web surfaces stay independent of any provider SDK.
type Factory func(ctx context.Context, settings config.Settings) (*Scanner, error)
