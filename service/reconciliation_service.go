package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aashish23092/workforce-metrics/config"
	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/tabular"
	"go.uber.org/zap"
)

// ReconciliationService joins the employee master sheet, the contract sheet and the
// dependents roster on the employee identifier and computes the headline counts.
// It holds no state between calls.
type ReconciliationService struct {
	rules  config.Rules
	logger *zap.Logger
}

func NewReconciliationService(rules config.Rules, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{rules: rules, logger: logger}
}

// Roles returns the master, contract and dependents sheet roles.
func (s *ReconciliationService) Roles() (master, contract, dependents RoleSpec) {
	r := s.rules
	master = RoleSpec{Role: "master", Required: []string{r.IDColumn, r.NationalityColumn}}
	contract = RoleSpec{Role: "contract", Required: []string{r.IDColumn, r.ContractStatusColumn}}
	dependents = RoleSpec{Role: "dependents", Required: []string{r.HeadOfHouseholdColumn}}
	return master, contract, dependents
}

// Reconcile resolves the sheets, joins them and aggregates. Only a missing column
// contract is an error; bad rows are skipped and counted in the stats.
func (s *ReconciliationService) Reconcile(ctx context.Context, employees, dependents tabular.Source) (*dto.Reconciliation, error) {
	masterRole, contractRole, dependentsRole := s.Roles()

	// ------------------------
	// Resolve sheets
	// ------------------------
	masterRes, err := LocateSheet(employees.Sheets(), masterRole)
	if err != nil {
		return nil, fmt.Errorf("employee file: %w", err)
	}
	contractRes, err := LocateSheet(employees.Sheets(), contractRole)
	if err != nil {
		return nil, fmt.Errorf("employee file: %w", err)
	}
	// The dependents roster is always the first sheet of its workbook
	depSheets := dependents.Sheets()
	if len(depSheets) > 1 {
		depSheets = depSheets[:1]
	}
	depRes, err := LocateSheet(depSheets, dependentsRole)
	if err != nil {
		return nil, fmt.Errorf("dependents file: %w", err)
	}

	for _, res := range []*SheetResolution{masterRes, contractRes} {
		if len(res.AlsoMatched) > 0 {
			s.logger.Warn("Several sheets match a role, using the first",
				zap.String("sheet", res.Sheet.Name()),
				zap.Strings("also_matched", res.AlsoMatched))
		}
	}

	// ------------------------
	// Load
	// ------------------------
	masterTable, err := masterRes.Sheet.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load master sheet: %w", err)
	}
	contractTable := masterTable
	if contractRes.Sheet.Name() != masterRes.Sheet.Name() {
		if contractTable, err = contractRes.Sheet.Load(); err != nil {
			return nil, fmt.Errorf("failed to load contract sheet: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	depTable, err := depRes.Sheet.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load dependents sheet: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := dto.ReconciliationStats{
		Master:     dto.SourceStats{Sheet: masterRes.Sheet.Name(), AlsoMatched: masterRes.AlsoMatched},
		Contract:   dto.SourceStats{Sheet: contractRes.Sheet.Name(), AlsoMatched: contractRes.AlsoMatched},
		Dependents: dto.SourceStats{Sheet: depRes.Sheet.Name()},
	}

	masterIDs, nationalities := s.indexColumn(masterTable, s.rules.NationalityColumn, &stats.Master)
	contractIDs, statuses := s.indexColumn(contractTable, s.rules.ContractStatusColumn, &stats.Contract)
	dependentCounts := s.countDependents(depTable, &stats.Dependents)

	// ------------------------
	// Status distribution over the whole contract sheet
	// ------------------------
	agg := dto.AggregateMetrics{
		StatusDistribution:      make(map[string]int),
		NationalityDistribution: make(map[string]int),
	}
	for _, row := range contractTable.Rows {
		cell := contractTable.Value(row, s.rules.ContractStatusColumn)
		if cell.IsBlank() {
			stats.BlankStatuses++
			continue
		}
		agg.StatusDistribution[cell.Text()]++
	}
	agg.FixedTerm = agg.StatusDistribution[s.rules.FixedTermLabel]
	agg.Indefinite = agg.StatusDistribution[s.rules.IndefiniteLabel]

	// ------------------------
	// Inner join master ⋈ contract, left join dependents
	// ------------------------
	joined := make(map[string]struct{}, len(masterIDs))
	employeesOut := make([]dto.EmployeeRecord, 0, len(masterIDs))
	for _, id := range masterIDs {
		status, ok := statuses[id]
		if !ok {
			stats.MasterOnly++
			continue
		}
		joined[id] = struct{}{}

		nationality := nationalities[id]
		rec := dto.EmployeeRecord{
			ID:              id,
			Nationality:     nationality,
			ContractStatus:  status,
			DependentsCount: dependentCounts[id],
			Foreign:         !s.IsDomestic(nationality),
		}
		employeesOut = append(employeesOut, rec)

		if nationality != "" {
			agg.NationalityDistribution[nationality]++
		}
		if rec.Foreign {
			agg.Foreign++
			if rec.DependentsCount > s.rules.ManyDependentsThreshold {
				agg.ForeignWithManyDependents++
			}
		}
	}
	for _, id := range contractIDs {
		if _, ok := nationalities[id]; !ok {
			stats.ContractOnly++
		}
	}
	for id, n := range dependentCounts {
		if _, ok := joined[id]; !ok {
			stats.OrphanedDependents += n
		}
	}
	stats.JoinedEmployees = len(employeesOut)

	s.logReconciliation(stats)

	return &dto.Reconciliation{
		Employees:  employeesOut,
		Aggregates: agg,
		Stats:      stats,
	}, nil
}

// IsDomestic reports whether nationality equals the domestic nationality, ignoring case.
func (s *ReconciliationService) IsDomestic(nationality string) bool {
	return strings.EqualFold(strings.TrimSpace(nationality), s.rules.DomesticNationality)
}

// indexColumn maps every well-formed identifier of table to the trimmed value of
// column. IDs are returned in first-seen order; the first row of a duplicated ID wins.
func (s *ReconciliationService) indexColumn(table *tabular.Table, column string, st *dto.SourceStats) ([]string, map[string]string) {
	ids := make([]string, 0, len(table.Rows))
	values := make(map[string]string, len(table.Rows))

	for _, row := range table.Rows {
		st.Rows++
		id, ok := table.Value(row, s.rules.IDColumn).Identifier()
		if !ok {
			st.MalformedIDs++
			continue
		}
		if _, dup := values[id]; dup {
			st.DuplicateIDs++
			continue
		}
		ids = append(ids, id)
		values[id] = table.Value(row, column).Text()
	}
	return ids, values
}

// countDependents groups dependent rows by head-of-household identifier.
func (s *ReconciliationService) countDependents(table *tabular.Table, st *dto.SourceStats) map[string]int {
	counts := make(map[string]int)
	for _, row := range table.Rows {
		st.Rows++
		id, ok := table.Value(row, s.rules.HeadOfHouseholdColumn).Identifier()
		if !ok {
			st.MalformedIDs++
			continue
		}
		counts[id]++
	}
	return counts
}

func (s *ReconciliationService) logReconciliation(stats dto.ReconciliationStats) {
	fields := []zap.Field{
		zap.String("master_sheet", stats.Master.Sheet),
		zap.String("contract_sheet", stats.Contract.Sheet),
		zap.Int("joined", stats.JoinedEmployees),
	}
	if stats.MasterOnly > 0 || stats.ContractOnly > 0 || stats.OrphanedDependents > 0 {
		s.logger.Warn("Rows dropped by the join",
			append(fields,
				zap.Int("master_only", stats.MasterOnly),
				zap.Int("contract_only", stats.ContractOnly),
				zap.Int("orphaned_dependents", stats.OrphanedDependents))...)
	}
	malformed := stats.Master.MalformedIDs + stats.Contract.MalformedIDs + stats.Dependents.MalformedIDs
	if malformed > 0 {
		s.logger.Warn("Rows with malformed identifiers skipped",
			zap.Int("master", stats.Master.MalformedIDs),
			zap.Int("contract", stats.Contract.MalformedIDs),
			zap.Int("dependents", stats.Dependents.MalformedIDs))
	}
	s.logger.Info("Reconciliation completed", fields...)
}
