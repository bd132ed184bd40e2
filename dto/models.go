package dto

// RateKind identifies a percentage metric reported in the monthly compliance PDF.
type RateKind string

const (
	RateSaudisation           RateKind = "saudisation"
	RateContractDocumentation RateKind = "contract_documentation"
	RateWageProtection        RateKind = "wage_protection"
)

// RateKinds lists every known rate kind in display order.
var RateKinds = []RateKind{RateSaudisation, RateContractDocumentation, RateWageProtection}

// Valid reports whether k is one of the known rate kinds.
func (k RateKind) Valid() bool {
	for _, known := range RateKinds {
		if k == known {
			return true
		}
	}
	return false
}

// RateSource tells where a reported rate value came from.
type RateSource string

const (
	RateSourceNone      RateSource = ""
	RateSourceExtracted RateSource = "extracted"
	RateSourceOverride  RateSource = "override"
)

type EmployeeRecord struct {
	ID              string `json:"id"`
	Nationality     string `json:"nationality"`
	ContractStatus  string `json:"contract_status"`
	DependentsCount int    `json:"dependents_count"`
	Foreign         bool   `json:"foreign"`
}

// AggregateMetrics holds the headline workforce counts.
type AggregateMetrics struct {
	FixedTerm                 int            `json:"fixed_term_contracts"`
	Indefinite                int            `json:"indefinite_contracts"`
	Foreign                   int            `json:"foreign_employees"`
	ForeignWithManyDependents int            `json:"foreign_with_many_dependents"`
	StatusDistribution        map[string]int `json:"status_distribution"`
	NationalityDistribution   map[string]int `json:"nationality_distribution"`
}

// OtherStatuses returns the number of status rows outside the two canonical buckets.
func (m AggregateMetrics) OtherStatuses(fixedTermLabel, indefiniteLabel string) int {
	total := 0
	for label, n := range m.StatusDistribution {
		if label == fixedTermLabel || label == indefiniteLabel {
			continue
		}
		total += n
	}
	return total
}

// SourceStats counts how rows of one input sheet fared during reconciliation.
type SourceStats struct {
	Sheet        string   `json:"sheet"`
	AlsoMatched  []string `json:"also_matched,omitempty"`
	Rows         int      `json:"rows"`
	MalformedIDs int      `json:"malformed_ids"`
	DuplicateIDs int      `json:"duplicate_ids"`
}

// ReconciliationStats exposes the rows the join silently dropped.
type ReconciliationStats struct {
	Master             SourceStats `json:"master"`
	Contract           SourceStats `json:"contract"`
	Dependents         SourceStats `json:"dependents"`
	MasterOnly         int         `json:"master_only"`
	ContractOnly       int         `json:"contract_only"`
	OrphanedDependents int         `json:"orphaned_dependents"`
	BlankStatuses      int         `json:"blank_statuses"`
	JoinedEmployees    int         `json:"joined_employees"`
}

type Reconciliation struct {
	Employees  []EmployeeRecord    `json:"employees,omitempty"`
	Aggregates AggregateMetrics    `json:"aggregates"`
	Stats      ReconciliationStats `json:"stats"`
}

// ExtractedRate is either a canonical "<n>%" value or absent.
type ExtractedRate struct {
	Found bool   `json:"found"`
	Value string `json:"value,omitempty"`
}

// NotFound is the absent rate.
var NotFound = ExtractedRate{}

// Found builds a present rate from its canonical value.
func Found(value string) ExtractedRate {
	return ExtractedRate{Found: true, Value: value}
}

// Extraction is the outcome of mining rates from one document.
type Extraction struct {
	Rates    map[RateKind]ExtractedRate `json:"rates"`
	Strategy string                     `json:"strategy,omitempty"`
	Issues   []string                   `json:"issues,omitempty"`
}

type RateValue struct {
	Value  string     `json:"value,omitempty"`
	Source RateSource `json:"source,omitempty"`
}

// Report is the final output of one invocation.
type Report struct {
	Aggregates AggregateMetrics       `json:"aggregates"`
	Rates      map[RateKind]RateValue `json:"rates"`
	Employees  []EmployeeRecord       `json:"employees,omitempty"`
	Stats      ReconciliationStats    `json:"stats"`
	Extraction *Extraction            `json:"extraction,omitempty"`
}
