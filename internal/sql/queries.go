package sql

import (
	_ "embed"
)

//go:embed queries/delete_facts.sql
var DeleteFacts string

//go:embed queries/delete_kpi_values.sql
var DeleteKPIValues string

//go:embed queries/delete_benchmarks.sql
var DeleteBenchmarks string

//go:embed queries/table_counts.sql
var TableCounts string
