package etl

import (
	"math/rand"
	"testing"

	"github.com/gyeh/costbench/internal/config"
	"github.com/gyeh/costbench/internal/model"
)

func frow(id int64, status, processDate string) model.FactRow {
	return model.FactRow{
		ReportRecordID: id,
		ProviderNumber: "310001",
		StateCode:      "31",
		FiscalYear:     2021,
		WorksheetCode:  "G000000",
		LineCode:       "00100",
		ColumnCode:     "00100",
		Value:          float64(id),
		ReportStatus:   status,
		ProcessDate:    processDate,
	}
}

func testRank() map[string]int {
	return StatusRank(config.DefaultStatusOrder)
}

func TestDeduplicate_StatusWins(t *testing.T) {
	// Settled-with-audit ("3") beats as-submitted ("1") even with an
	// earlier process date.
	rows := []model.FactRow{
		frow(1, "1", "2022-09-20"),
		frow(2, "3", "2022-03-15"),
	}
	out := Deduplicate(rows, testRank())
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}
	if out[0].ReportRecordID != 2 {
		t.Errorf("kept record %d, want 2", out[0].ReportRecordID)
	}
}

func TestDeduplicate_ProcessDateBreaksTie(t *testing.T) {
	rows := []model.FactRow{
		frow(1, "1", "2022-03-15"),
		frow(2, "1", "2022-09-20"),
	}
	out := Deduplicate(rows, testRank())
	if out[0].ReportRecordID != 2 {
		t.Errorf("kept record %d, want later process date's record 2", out[0].ReportRecordID)
	}
}

func TestDeduplicate_RecordIDBreaksFinalTie(t *testing.T) {
	rows := []model.FactRow{
		frow(7, "1", "2022-03-15"),
		frow(9, "1", "2022-03-15"),
	}
	out := Deduplicate(rows, testRank())
	if out[0].ReportRecordID != 9 {
		t.Errorf("kept record %d, want 9", out[0].ReportRecordID)
	}
}

func TestDeduplicate_UnknownStatusRanksLowest(t *testing.T) {
	rows := []model.FactRow{
		frow(1, "9", "2022-12-31"), // unknown status, latest date
		frow(2, "1", "2022-01-01"),
	}
	out := Deduplicate(rows, testRank())
	if out[0].ReportRecordID != 2 {
		t.Errorf("kept record %d, want known-status record 2", out[0].ReportRecordID)
	}
}

func TestDeduplicate_InputOrderIndependent(t *testing.T) {
	base := []model.FactRow{
		frow(1, "1", "2022-03-15"),
		frow(2, "3", "2022-09-20"),
		frow(3, "2", "2022-06-01"),
	}
	want := Deduplicate(base, testRank())

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 10; trial++ {
		shuffled := append([]model.FactRow(nil), base...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got := Deduplicate(shuffled, testRank())
		if len(got) != len(want) || got[0].ReportRecordID != want[0].ReportRecordID {
			t.Fatalf("trial %d: result differs: %+v vs %+v", trial, got, want)
		}
	}
}

func TestDeduplicate_DistinctGroupsSurvive(t *testing.T) {
	a := frow(1, "1", "2022-03-15")
	b := frow(2, "1", "2022-03-15")
	b.LineCode = "00200"
	c := frow(3, "1", "2022-03-15")
	c.FiscalYear = 2022

	out := Deduplicate([]model.FactRow{a, b, c}, testRank())
	if len(out) != 3 {
		t.Fatalf("expected 3 surviving groups, got %d", len(out))
	}
}

func TestVerifyDeduped(t *testing.T) {
	ok := []model.FactRow{frow(1, "1", "2022-03-15")}
	if err := VerifyDeduped(ok); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	dup := []model.FactRow{frow(1, "1", "2022-03-15"), frow(2, "3", "2022-09-20")}
	if err := VerifyDeduped(dup); err == nil {
		t.Error("expected error for duplicate group")
	}
}
