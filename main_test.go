package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Aashish23092/workforce-metrics/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	overrides, err := parseOverrides([]string{"saudisation=75", "wage_protection= ٩٠ ٪"})
	require.NoError(t, err)
	assert.Equal(t, map[dto.RateKind]string{
		dto.RateSaudisation:    "75",
		dto.RateWageProtection: " ٩٠ ٪",
	}, overrides)

	_, err = parseOverrides([]string{"saudisation"})
	assert.Error(t, err)

	_, err = parseOverrides([]string{"payroll=10"})
	assert.ErrorContains(t, err, "unknown rate kind")
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "error")

	employees := filepath.Join(dir, "employees.csv")
	dependents := filepath.Join(dir, "dependents.csv")
	require.NoError(t, os.WriteFile(employees, []byte(
		"Id number,Nationality,Contract Status\n"+
			"1001,Saudi Arabia,محدد\n"+
			"1002,Egypt,غير محدد\n"+
			"1003,India,محدد\n"), 0o600))
	require.NoError(t, os.WriteFile(dependents, []byte(
		"رقم إقامة رب الأسرة\n1002\n1002\n1002\n1002\n1002\n1003\n"), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"report",
		"--employees", employees,
		"--dependents", dependents,
		"--override", "saudisation=70",
	})
	require.NoError(t, cmd.Execute())

	var report dto.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 2, report.Aggregates.FixedTerm)
	assert.Equal(t, 1, report.Aggregates.Indefinite)
	assert.Equal(t, 2, report.Aggregates.Foreign)
	assert.Equal(t, 1, report.Aggregates.ForeignWithManyDependents)
	assert.Equal(t, dto.RateValue{Value: "70%", Source: dto.RateSourceOverride}, report.Rates[dto.RateSaudisation])
	assert.Equal(t, dto.RateValue{}, report.Rates[dto.RateWageProtection])
}

func TestReportCommandRequiresFiles(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"report", "--employees", "x.csv"})
	assert.Error(t, cmd.Execute())
}
