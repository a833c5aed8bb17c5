package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
	"github.com/de-tools/compliance-atlas/pkg/services/catalog"
)

const (
	// DefaultCheckTimeout bounds a single check invocation so one slow
	// dependency cannot stall the whole scan.
	DefaultCheckTimeout = 60 * time.Second

	// unknownResource marks results synthesized by the scanner itself,
	// where no concrete resource was evaluated.
	unknownResource = "N/A"
)

// Options configures a Scanner.
type Options struct {
	Catalog  catalog.Catalog
	Registry Registry
	// Region is carried into the scan report as metadata only.
	Region string
	// CheckTimeout bounds each check invocation. Zero means
	// DefaultCheckTimeout.
	CheckTimeout time.Duration
	// Concurrency is the number of rules evaluated in parallel. Values
	// below 2 select the sequential path.
	Concurrency int
	// Now is the clock used for report timestamps. Nil means time.Now.
	Now func() time.Time
}

// Scanner evaluates a rule catalog against a target environment. Each
// scan run is independent: the scanner holds no state between runs
// beyond its catalog and registry, both read-only.
type Scanner struct {
	catalog      catalog.Catalog
	registry     Registry
	region       string
	checkTimeout time.Duration
	concurrency  int
	now          func() time.Time
}

// NewScanner creates a scanner over the given catalog and registry.
func NewScanner(opts Options) *Scanner {
	timeout := opts.CheckTimeout
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scanner{
		catalog:      opts.Catalog,
		registry:     opts.Registry,
		region:       opts.Region,
		checkTimeout: timeout,
		concurrency:  opts.Concurrency,
		now:          now,
	}
}

// RunRule evaluates a single rule. Every failure mode (an unregistered
// check, an error returned by the check, a panic inside it, or the
// bounding timeout) degrades to exactly one ERROR result; failures
// never propagate past the rule boundary.
func (s *Scanner) RunRule(ctx context.Context, rule domain.Rule) []domain.Result {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("rule", rule.ID).Str("title", rule.Title).Msg("running check")

	check, ok := s.registry.Resolve(rule.Check)
	if !ok {
		logger.Warn().Str("rule", rule.ID).Str("check", rule.Check).Msg("check not registered")
		return []domain.Result{{
			RuleID:     rule.ID,
			Status:     domain.StatusError,
			ResourceID: unknownResource,
			Details:    fmt.Sprintf("Check %q not implemented", rule.Check),
		}}
	}

	results, err := s.invoke(ctx, check)
	if err != nil {
		logger.Error().Err(err).Str("rule", rule.ID).Msg("check failed")
		return []domain.Result{{
			RuleID:     rule.ID,
			Status:     domain.StatusError,
			ResourceID: unknownResource,
			Details:    fmt.Sprintf("Error running check: %s", err),
		}}
	}
	return results
}

// invoke runs the check under the bounding timeout, converting a panic
// into an error. Partial results from a failed invocation are dropped:
// the rule boundary is all-or-nothing.
func (s *Scanner) invoke(ctx context.Context, check Check) (results []domain.Result, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()

	results, err = check(ctx)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return results, nil
}

// RunAll evaluates every rule in catalog order and returns the
// concatenated results. Results keep the order their checks produced
// them in. Cancellation is observed between rule invocations: once ctx
// is done no further rules begin, and the context error is returned
// alongside the results collected so far.
func (s *Scanner) RunAll(ctx context.Context) ([]domain.Result, error) {
	rules := s.catalog.Rules()
	if s.concurrency > 1 {
		return s.runAllParallel(ctx, rules)
	}

	var results []domain.Result
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, s.RunRule(ctx, rule)...)
	}
	return results, nil
}

// runAllParallel fans rules out over a bounded worker pool. Workers
// accumulate per-rule slices indexed by catalog position, so the merged
// output is re-sorted into catalog order regardless of completion
// order.
func (s *Scanner) runAllParallel(ctx context.Context, rules []domain.Rule) ([]domain.Result, error) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)
	perRule := make([][]domain.Result, len(rules))

	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, rule domain.Rule) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}
			perRule[i] = s.RunRule(ctx, rule)
		}(i, rule)
	}
	wg.Wait()

	var results []domain.Result
	for _, rs := range perRule {
		results = append(results, rs...)
	}
	return results, ctx.Err()
}

// Run executes the full catalog and assembles the scan report: raw
// results, the derived summary, and the projected rows.
func (s *Scanner) Run(ctx context.Context) (*domain.ScanReport, error) {
	started := s.now()
	results, err := s.RunAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan aborted: %w", err)
	}

	return &domain.ScanReport{
		Region:     s.region,
		StartedAt:  started,
		FinishedAt: s.now(),
		Summary:    Summarize(results, s.catalog),
		Rows:       Project(results, s.catalog),
	}, nil
}
