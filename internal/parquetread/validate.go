package parquetread

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// factColumns are the columns every fact-table partition must carry for the
// publish stage to COPY it.
var factColumns = []string{
	"report_record_id",
	"provider_number",
	"state_code",
	"fiscal_year",
	"worksheet_code",
	"line_code",
	"column_code",
	"value",
	"report_status",
	"process_date",
}

// ValidateFactSchema checks that a fact partition's schema carries every
// required column. Optional name and metadata columns are not enforced.
func ValidateFactSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}
	for _, col := range factColumns {
		if !columns[col] {
			return fmt.Errorf("missing required column: %s", col)
		}
	}
	return nil
}
