package model

// KpiRow is one computed KPI value for a provider-year. Value is nil when a
// formula's guard fired (zero denominator, missing quantity, no prior year).
type KpiRow struct {
	ProviderNumber string   `parquet:"provider_number"`
	StateCode      string   `parquet:"state_code"`
	HospitalType   string   `parquet:"hospital_type"`
	FiscalYear     int32    `parquet:"fiscal_year"`
	KPIName        string   `parquet:"kpi_name"`
	Value          *float64 `parquet:"value,optional"`
}

// KpiColumns returns the ordered column names for COPY into hcris.kpi_values.
func KpiColumns() []string {
	return []string{
		"run_id",
		"provider_number",
		"state_code",
		"hospital_type",
		"fiscal_year",
		"kpi_name",
		"value",
	}
}

// CopyValues returns the row values in KpiColumns order minus run_id.
func (r *KpiRow) CopyValues() []any {
	return []any{
		r.ProviderNumber,
		r.StateCode,
		r.HospitalType,
		r.FiscalYear,
		r.KPIName,
		r.Value,
	}
}

// Benchmark level names, broadest to narrowest.
const (
	LevelNational          = "National"
	LevelState             = "State"
	LevelHospitalType      = "Hospital_Type"
	LevelStateHospitalType = "State_Hospital_Type"
)

// AllBenchmarkLevels lists the peer-group levels in canonical order.
var AllBenchmarkLevels = []string{
	LevelNational,
	LevelState,
	LevelHospitalType,
	LevelStateHospitalType,
}

// BenchmarkRow is one peer-group distribution for a (kpi, level, group,
// year). Groups below the configured minimum size are never emitted.
type BenchmarkRow struct {
	KPIName      string  `parquet:"kpi_name"`
	Level        string  `parquet:"benchmark_level"`
	StateCode    *string `parquet:"state_code,optional"`
	HospitalType *string `parquet:"hospital_type,optional"`
	FiscalYear   int32   `parquet:"fiscal_year"`
	PeerCount    int64   `parquet:"peer_count"`
	P25          float64 `parquet:"p25"`
	Median       float64 `parquet:"median"`
	P75          float64 `parquet:"p75"`
	Mean         float64 `parquet:"mean"`
}

// BenchmarkColumns returns the ordered column names for COPY into hcris.benchmarks.
func BenchmarkColumns() []string {
	return []string{
		"run_id",
		"kpi_name",
		"benchmark_level",
		"state_code",
		"hospital_type",
		"fiscal_year",
		"peer_count",
		"p25",
		"median",
		"p75",
		"mean",
	}
}

// CopyValues returns the row values in BenchmarkColumns order minus run_id.
func (r *BenchmarkRow) CopyValues() []any {
	return []any{
		r.KPIName,
		r.Level,
		r.StateCode,
		r.HospitalType,
		r.FiscalYear,
		r.PeerCount,
		r.P25,
		r.Median,
		r.P75,
		r.Mean,
	}
}
