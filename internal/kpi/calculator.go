package kpi

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/gyeh/costbench/internal/model"
)

type providerYear struct {
	provider string
	year     int32
}

// Compute derives every indicator for every provider-year present in the
// fact tables. One output row is emitted per (provider, year, formula) even
// when the value is null, so consumers can tell "guard fired" apart from
// "provider absent". Output order is deterministic: provider, year, then
// formula declaration order.
func Compute(facts map[string][]model.FactRow, log zerolog.Logger) []model.KpiRow {
	quantities := make(map[providerYear]Quantities)
	states := make(map[providerYear]string)

	for statement, rows := range facts {
		for i := range rows {
			row := &rows[i]
			name, ok := resolveKey(statement, row)
			if !ok {
				continue
			}
			k := providerYear{provider: row.ProviderNumber, year: row.FiscalYear}
			q, ok := quantities[k]
			if !ok {
				q = make(Quantities)
				quantities[k] = q
				states[k] = row.StateCode
			}
			q[name] = row.Value
		}
	}

	keys := make([]providerYear, 0, len(quantities))
	for k := range quantities {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].provider != keys[j].provider {
			return keys[i].provider < keys[j].provider
		}
		return keys[i].year < keys[j].year
	})

	var nullValues int64
	out := make([]model.KpiRow, 0, len(keys)*len(AllFormulas))
	for _, k := range keys {
		cur := quantities[k]
		// prior is nil unless the provider filed the immediately
		// preceding fiscal year.
		prior := quantities[providerYear{provider: k.provider, year: k.year - 1}]

		hospitalType := model.HospitalType(k.provider)
		for _, f := range AllFormulas {
			v := f.Eval(cur, prior)
			if v == nil {
				nullValues++
			}
			out = append(out, model.KpiRow{
				ProviderNumber: k.provider,
				StateCode:      states[k],
				HospitalType:   hospitalType,
				FiscalYear:     k.year,
				KPIName:        f.Name,
				Value:          v,
			})
		}
	}

	log.Info().
		Int("provider_years", len(keys)).
		Int("rows", len(out)).
		Int64("null_values", nullValues).
		Msg("kpi derivation complete")
	return out
}
