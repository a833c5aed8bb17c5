package domain

// Status is the outcome of evaluating a rule against one resource.
type Status string

const (
	StatusPass          Status = "PASS"
	StatusFail          Status = "FAIL"
	StatusWarning       Status = "WARNING"
	StatusNotApplicable Status = "NOT_APPLICABLE"
	StatusError         Status = "ERROR"
)

// Result is one outcome record produced by a check invocation. Results
// are never mutated after creation; a single rule may yield zero, one,
// or many of them (one per evaluated resource).
type Result struct {
	RuleID     string
	Status     Status
	ResourceID string
	Details    string
	// Remediation is the suggested fix. It is empty when the status is
	// PASS or NOT_APPLICABLE.
	Remediation string
}
