package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/utils/ratetext"
	"gopkg.in/yaml.v3"
)

// Rules are the fixed column contracts and labels the reconciliation and extraction
// work against. Defaults match the Qiwa/Muqeem exports; a YAML file may override any field.
type Rules struct {
	IDColumn              string `yaml:"id_column"`
	NationalityColumn     string `yaml:"nationality_column"`
	ContractStatusColumn  string `yaml:"contract_status_column"`
	HeadOfHouseholdColumn string `yaml:"head_of_household_column"`

	DomesticNationality string `yaml:"domestic_nationality"`
	FixedTermLabel      string `yaml:"fixed_term_label"`
	IndefiniteLabel     string `yaml:"indefinite_label"`

	// Foreign employees with more dependents than this are counted separately.
	ManyDependentsThreshold int `yaml:"many_dependents_threshold"`

	RateWindow int                     `yaml:"rate_window"`
	Anchors    map[dto.RateKind]string `yaml:"anchors"`
}

// DefaultRules returns a fresh copy of the built-in rules.
func DefaultRules() Rules {
	return Rules{
		IDColumn:                "Id number",
		NationalityColumn:       "Nationality",
		ContractStatusColumn:    "Contract Status",
		HeadOfHouseholdColumn:   "رقم إقامة رب الأسرة",
		DomesticNationality:     "Saudi Arabia",
		FixedTermLabel:          "محدد",
		IndefiniteLabel:         "غير محدد",
		ManyDependentsThreshold: 4,
		RateWindow:              ratetext.DefaultWindow,
		Anchors: map[dto.RateKind]string{
			dto.RateSaudisation:           "معدل التوطين",
			dto.RateContractDocumentation: "معدل توثيق العقود",
			dto.RateWageProtection:        "حماية الأجور",
		},
	}
}

// LoadRules returns the defaults overlaid with the YAML file at path. An empty path
// yields the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

// Validate checks that every column and label is set.
func (r Rules) Validate() error {
	required := map[string]string{
		"id_column":                r.IDColumn,
		"nationality_column":       r.NationalityColumn,
		"contract_status_column":   r.ContractStatusColumn,
		"head_of_household_column": r.HeadOfHouseholdColumn,
		"domestic_nationality":     r.DomesticNationality,
		"fixed_term_label":         r.FixedTermLabel,
		"indefinite_label":         r.IndefiniteLabel,
	}
	var errs []error
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", key))
		}
	}
	if r.ManyDependentsThreshold < 0 {
		errs = append(errs, errors.New("many_dependents_threshold must not be negative"))
	}
	if r.RateWindow <= 0 {
		errs = append(errs, errors.New("rate_window must be positive"))
	}
	for kind := range r.Anchors {
		if !kind.Valid() {
			errs = append(errs, fmt.Errorf("unknown rate kind %q in anchors", kind))
		}
	}
	return errors.Join(errs...)
}

// WithRateWindow returns r with the window replaced when n is positive.
func (r Rules) WithRateWindow(n int) Rules {
	if n > 0 {
		r.RateWindow = n
	}
	return r
}
