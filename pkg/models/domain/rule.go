package domain

// Severity is the compliance-impact ranking of a rule.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists the known severities from most to least severe.
// Aggregation and reporting iterate this slice so that per-severity
// output is rendered in a stable order.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
}

// Rank returns the position of the severity in the total order,
// 0 being the most severe. Unknown severities rank last.
func (s Severity) Rank() int {
	for i, known := range Severities {
		if s == known {
			return i
		}
	}
	return len(Severities)
}

// Category groups rules by the kind of risk they cover.
type Category string

const (
	CategorySecurity    Category = "SECURITY"
	CategoryOperations  Category = "OPERATIONS"
	CategoryPerformance Category = "PERFORMANCE"
	CategoryCost        Category = "COST"
)

// Rule is the definition of a single compliance requirement. Rules are
// immutable once a catalog is constructed; the Check field names the
// executable check the scanner resolves through its registry.
type Rule struct {
	ID          string
	Title       string
	Description string
	Severity    Severity
	Category    Category
	// Service is a free-form scope tag ("IAM", "VPC", ...) used for
	// filtering and grouping, never for uniqueness.
	Service string
	// Check is the registered name of the check bound to this rule.
	Check string
}
