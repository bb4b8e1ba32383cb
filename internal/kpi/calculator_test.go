package kpi

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/costbench/internal/model"
)

func bsRow(provider string, year int32, line string, v float64) model.FactRow {
	return model.FactRow{
		ProviderNumber: provider,
		StateCode:      provider[:2],
		FiscalYear:     year,
		WorksheetCode:  "G000000",
		LineCode:       line,
		ColumnCode:     "00100",
		Value:          v,
	}
}

func reRow(provider string, year int32, line string, v float64) model.FactRow {
	r := bsRow(provider, year, line, v)
	r.WorksheetCode = "G300000"
	return r
}

func kpiValue(rows []model.KpiRow, provider string, year int32, name string) (*float64, bool) {
	for _, r := range rows {
		if r.ProviderNumber == provider && r.FiscalYear == year && r.KPIName == name {
			return r.Value, true
		}
	}
	return nil, false
}

func TestCompute_CurrentRatio(t *testing.T) {
	facts := map[string][]model.FactRow{
		"balance_sheet": {
			bsRow("310001", 2021, "01100", 2200000),
			bsRow("310001", 2021, "04500", 1000000),
		},
	}
	rows := Compute(facts, zerolog.Nop())

	v, ok := kpiValue(rows, "310001", 2021, "Current_Ratio")
	if !ok {
		t.Fatal("Current_Ratio row missing")
	}
	if v == nil || math.Abs(*v-2.2) > 1e-9 {
		t.Errorf("Current_Ratio = %v, want 2.2", v)
	}
}

func TestCompute_ZeroDenominatorIsNull(t *testing.T) {
	facts := map[string][]model.FactRow{
		"balance_sheet": {
			bsRow("310001", 2021, "01100", 500),
			bsRow("310001", 2021, "04500", 0),
		},
	}
	rows := Compute(facts, zerolog.Nop())
	v, ok := kpiValue(rows, "310001", 2021, "Current_Ratio")
	if !ok {
		t.Fatal("Current_Ratio row missing")
	}
	if v != nil {
		t.Errorf("expected null for zero denominator, got %v", *v)
	}
}

func TestCompute_MissingQuantityIsNull(t *testing.T) {
	facts := map[string][]model.FactRow{
		"balance_sheet": {
			bsRow("310001", 2021, "01100", 500),
			// No current-liabilities cell at all: must not be treated
			// as a reported zero.
		},
	}
	rows := Compute(facts, zerolog.Nop())
	v, _ := kpiValue(rows, "310001", 2021, "Current_Ratio")
	if v != nil {
		t.Errorf("expected null for missing quantity, got %v", *v)
	}
}

func TestCompute_RevenueGrowth(t *testing.T) {
	facts := map[string][]model.FactRow{
		"revenue_expenses": {
			reRow("310001", 2021, "00300", 5000000),
			reRow("310001", 2022, "00300", 5500000),
		},
	}
	rows := Compute(facts, zerolog.Nop())

	first, _ := kpiValue(rows, "310001", 2021, "Revenue_Growth")
	if first != nil {
		t.Errorf("first year growth should be null, got %v", *first)
	}
	second, _ := kpiValue(rows, "310001", 2022, "Revenue_Growth")
	if second == nil || math.Abs(*second-0.1) > 1e-9 {
		t.Errorf("growth = %v, want 0.1", second)
	}
}

func TestCompute_RevenueGrowth_GapYearIsNull(t *testing.T) {
	facts := map[string][]model.FactRow{
		"revenue_expenses": {
			reRow("310001", 2020, "00300", 4000000),
			reRow("310001", 2022, "00300", 5000000),
		},
	}
	rows := Compute(facts, zerolog.Nop())
	v, _ := kpiValue(rows, "310001", 2022, "Revenue_Growth")
	if v != nil {
		t.Errorf("growth across a gap year should be null, got %v", *v)
	}
}

func TestCompute_DaysCashOnHand(t *testing.T) {
	facts := map[string][]model.FactRow{
		"balance_sheet": {
			bsRow("310001", 2021, "00100", 1000000),
			bsRow("310001", 2021, "00200", 460000),
		},
		"revenue_expenses": {
			reRow("310001", 2021, "00400", 3832500),
			reRow("310001", 2021, "03000", 182500),
		},
	}
	rows := Compute(facts, zerolog.Nop())
	v, _ := kpiValue(rows, "310001", 2021, "Days_Cash_On_Hand")
	// (1000000+460000) / ((3832500-182500)/365) = 1460000 / 10000 = 146
	if v == nil || math.Abs(*v-146) > 1e-9 {
		t.Errorf("Days_Cash_On_Hand = %v, want 146", v)
	}
}

func TestCompute_EveryFormulaEmitsRow(t *testing.T) {
	facts := map[string][]model.FactRow{
		"balance_sheet": {bsRow("310001", 2021, "01100", 1)},
	}
	rows := Compute(facts, zerolog.Nop())
	if len(rows) != len(AllFormulas) {
		t.Errorf("expected %d rows, got %d", len(AllFormulas), len(rows))
	}
}

func TestCompute_HospitalTypeAttached(t *testing.T) {
	facts := map[string][]model.FactRow{
		"balance_sheet": {bsRow("311300", 2021, "01100", 1)},
	}
	rows := Compute(facts, zerolog.Nop())
	if len(rows) == 0 || rows[0].HospitalType != "Critical_Access" {
		t.Errorf("hospital type = %q, want Critical_Access", rows[0].HospitalType)
	}
}
