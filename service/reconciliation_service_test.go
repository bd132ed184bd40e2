package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Aashish23092/workforce-metrics/config"
	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/Aashish23092/workforce-metrics/tabular"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const hoh = "رقم إقامة رب الأسرة"

func newReconciler() *ReconciliationService {
	return NewReconciliationService(config.DefaultRules(), zap.NewNop())
}

// employeeSource has the master and contract roles on separate sheets behind an
// unrelated summary sheet, the way the Qiwa export lays them out.
func employeeSource() tabular.MemorySource {
	return tabular.NewMemorySource(
		tabular.MemorySheet{
			SheetName: "Summary",
			Columns:   []string{"Total"},
			Rows:      [][]string{{"7"}},
		},
		tabular.MemorySheet{
			SheetName: "Contracts",
			Columns:   []string{"Id number", "Contract Status"},
			Rows: [][]string{
				{"2000000001", "محدد"},
				{"2000000002", " غير محدد "},
				{"2000000003", "محدد"},
				{"1000000004", "غير محدد"},
				{"2000000005", "منتهي"},
				{"9999999999", "محدد"}, // no master row
				{"", "محدد"},           // malformed id, status still counted
				{"2000000006", "   "},
			},
		},
		tabular.MemorySheet{
			SheetName: "Employees",
			Columns:   []string{"Id number", "Name", "Nationality"},
			Rows: [][]string{
				{"2000000001.0", "A", "Egyptian"},
				{"2000000002", "B", "Pakistani"},
				{"2000000003", "C", "SAUDI ARABIA"},
				{"1000000004", "D", "saudi arabia"},
				{"2000000005", "E", "Indian"},
				{"2000000006", "F", "Jordanian"},
				{"2000000007", "G", "British"}, // no contract row
				{"n/a", "H", "Syrian"},
			},
		},
	)
}

func dependentsSource(heads ...string) tabular.MemorySource {
	rows := make([][]string, len(heads))
	for i, h := range heads {
		rows[i] = []string{h, "dependent"}
	}
	return tabular.NewMemorySource(tabular.MemorySheet{
		SheetName: "Dependents",
		Columns:   []string{hoh, "Name"},
		Rows:      rows,
	})
}

func defaultDependents() tabular.MemorySource {
	return dependentsSource(
		// five dependents for the Egyptian employee
		"2000000001", "2000000001", "2000000001", "2000000001", "2.000000001E+09",
		// four for the Pakistani employee: not more than four
		"2000000002", "2000000002", "2000000002", "2000000002",
		// six for a Saudi employee: domestic, never counted
		"2000000003", "2000000003", "2000000003", "2000000003", "2000000003", "2000000003",
		// unknown head and garbage
		"3000000000", "abc", "",
	)
}

func TestReconcileAggregates(t *testing.T) {
	rec, err := newReconciler().Reconcile(context.Background(), employeeSource(), defaultDependents())
	require.NoError(t, err)

	agg := rec.Aggregates
	assert.Equal(t, 4, agg.FixedTerm)
	assert.Equal(t, 2, agg.Indefinite)
	assert.Equal(t, map[string]int{"محدد": 4, "غير محدد": 2, "منتهي": 1}, agg.StatusDistribution)
	assert.Equal(t, 4, agg.Foreign) // Egyptian, Pakistani, Indian, Jordanian
	assert.Equal(t, 1, agg.ForeignWithManyDependents)
	assert.Equal(t, map[string]int{
		"Egyptian": 1, "Pakistani": 1, "SAUDI ARABIA": 1, "saudi arabia": 1, "Indian": 1, "Jordanian": 1,
	}, agg.NationalityDistribution)
}

func TestReconcileStatusDistributionCoversContractSheet(t *testing.T) {
	rec, err := newReconciler().Reconcile(context.Background(), employeeSource(), defaultDependents())
	require.NoError(t, err)

	rules := config.DefaultRules()
	agg := rec.Aggregates
	total := agg.FixedTerm + agg.Indefinite + agg.OtherStatuses(rules.FixedTermLabel, rules.IndefiniteLabel)

	// 8 contract rows, one blank status
	assert.Equal(t, 7, total)
	assert.Equal(t, 1, rec.Stats.BlankStatuses)
}

func TestReconcileDependentsCount(t *testing.T) {
	rec, err := newReconciler().Reconcile(context.Background(), employeeSource(), defaultDependents())
	require.NoError(t, err)

	counts := make(map[string]int)
	for _, e := range rec.Employees {
		counts[e.ID] = e.DependentsCount
	}
	assert.Equal(t, map[string]int{
		"2000000001": 5,
		"2000000002": 4,
		"2000000003": 6,
		"1000000004": 0,
		"2000000005": 0,
		"2000000006": 0,
	}, counts)
}

func TestReconcileStats(t *testing.T) {
	rec, err := newReconciler().Reconcile(context.Background(), employeeSource(), defaultDependents())
	require.NoError(t, err)

	st := rec.Stats
	assert.Equal(t, "Employees", st.Master.Sheet)
	assert.Equal(t, "Contracts", st.Contract.Sheet)
	assert.Equal(t, "Dependents", st.Dependents.Sheet)
	assert.Equal(t, 1, st.Master.MalformedIDs)
	assert.Equal(t, 1, st.Contract.MalformedIDs)
	assert.Equal(t, 2, st.Dependents.MalformedIDs)
	assert.Equal(t, 1, st.MasterOnly)
	assert.Equal(t, 1, st.ContractOnly)
	assert.Equal(t, 1, st.OrphanedDependents)
	assert.Equal(t, 6, st.JoinedEmployees)
}

func TestReconcileIsIdempotent(t *testing.T) {
	r := newReconciler()
	first, err := r.Reconcile(context.Background(), employeeSource(), defaultDependents())
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), employeeSource(), defaultDependents())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reconciliation changed between runs (-first +second):\n%s", diff)
	}
}

func TestReconcileNationalityIsCaseInsensitive(t *testing.T) {
	r := newReconciler()
	for _, n := range []string{"SAUDI ARABIA", "saudi arabia", "Saudi Arabia", " Saudi Arabia "} {
		assert.True(t, r.IsDomestic(n), n)
	}
	for _, n := range []string{"Saudi", "Egyptian", "", "Kingdom of Saudi Arabia"} {
		assert.False(t, r.IsDomestic(n), n)
	}
}

func TestReconcileDuplicateIDsFirstRowWins(t *testing.T) {
	employees := tabular.NewMemorySource(tabular.MemorySheet{
		SheetName: "All",
		Columns:   []string{"Id number", "Nationality", "Contract Status"},
		Rows: [][]string{
			{"123", "Egyptian", "محدد"},
			{"123.0", "Saudi Arabia", "غير محدد"},
		},
	})

	rec, err := newReconciler().Reconcile(context.Background(), employees, dependentsSource())
	require.NoError(t, err)

	require.Len(t, rec.Employees, 1)
	assert.Equal(t, "Egyptian", rec.Employees[0].Nationality)
	assert.Equal(t, "محدد", rec.Employees[0].ContractStatus)
	assert.Equal(t, 1, rec.Aggregates.Foreign)
	assert.Equal(t, 1, rec.Stats.Master.DuplicateIDs)
	assert.Equal(t, 1, rec.Stats.Contract.DuplicateIDs)
	// both status rows are still part of the distribution
	assert.Equal(t, 1, rec.Aggregates.FixedTerm)
	assert.Equal(t, 1, rec.Aggregates.Indefinite)
}

func TestReconcileEmptyInputsYieldZeroCounts(t *testing.T) {
	employees := tabular.NewMemorySource(tabular.MemorySheet{
		SheetName: "All",
		Columns:   []string{"Id number", "Nationality", "Contract Status"},
	})

	rec, err := newReconciler().Reconcile(context.Background(), employees, dependentsSource())
	require.NoError(t, err)
	assert.Zero(t, rec.Aggregates.FixedTerm)
	assert.Zero(t, rec.Aggregates.Foreign)
	assert.Empty(t, rec.Employees)
	assert.Empty(t, rec.Aggregates.StatusDistribution)
}

func TestReconcileMissingContractColumn(t *testing.T) {
	employees := tabular.NewMemorySource(tabular.MemorySheet{
		SheetName: "Employees",
		Columns:   []string{"Id number", "Nationality"},
	})

	_, err := newReconciler().Reconcile(context.Background(), employees, dependentsSource())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaNotFound))

	var notFound *SchemaNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "contract", notFound.Role)
}

func TestReconcileDependentsUseFirstSheetOnly(t *testing.T) {
	dependents := tabular.NewMemorySource(
		tabular.MemorySheet{SheetName: "Notes", Columns: []string{"Note"}},
		tabular.MemorySheet{SheetName: "Dependents", Columns: []string{hoh}},
	)

	_, err := newReconciler().Reconcile(context.Background(), employeeSource(), dependents)
	require.ErrorIs(t, err, ErrSchemaNotFound)
	assert.Contains(t, err.Error(), "dependents file")
}

func TestReconcileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newReconciler().Reconcile(ctx, employeeSource(), defaultDependents())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconcileWorkbookNumericAndTextIDs(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Master"))
	require.NoError(t, f.SetSheetRow("Master", "A1", &[]interface{}{"Id number", "Nationality"}))
	require.NoError(t, f.SetSheetRow("Master", "A2", &[]interface{}{int64(2345678901), "Syrian"}))
	_, err := f.NewSheet("Contract")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Contract", "A1", &[]interface{}{"Id number", "Contract Status"}))
	require.NoError(t, f.SetSheetRow("Contract", "A2", &[]interface{}{"2345678901", "محدد"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	wb, err := tabular.OpenWorkbook(buf.Bytes())
	require.NoError(t, err)
	defer wb.Close()

	deps := dependentsSource("2345678901", "2345678901", "2345678901", "2345678901", "2345678901")
	rec, err := newReconciler().Reconcile(context.Background(), wb, deps)
	require.NoError(t, err)

	require.Len(t, rec.Employees, 1)
	assert.Equal(t, dto.EmployeeRecord{
		ID:              "2345678901",
		Nationality:     "Syrian",
		ContractStatus:  "محدد",
		DependentsCount: 5,
		Foreign:         true,
	}, rec.Employees[0])
	assert.Equal(t, 1, rec.Aggregates.ForeignWithManyDependents)
}
