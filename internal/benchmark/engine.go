package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gyeh/costbench/internal/model"
)

type cohortKey struct {
	kpiName    string
	fiscalYear int32
}

// observation is one provider's contribution to a cohort. Providers appear
// at most once per cohort because the KPI table is keyed by provider-year.
type observation struct {
	value        float64
	stateCode    string
	hospitalType string
}

// Compute builds the benchmark table from the KPI rows. Null KPI values do
// not contribute to any peer group. Cohorts (one per kpi and fiscal year)
// are computed concurrently; all rows are assembled before any suppression
// so the nesting invariants are checked against complete counts:
//
//   - state and hospital-type peer counts each partition the national count
//   - every state-by-type count is bounded by its state and its type count
//
// A violation is an internal inconsistency and fails the run. Groups
// smaller than minPeerGroup are dropped after the check.
func Compute(ctx context.Context, log zerolog.Logger, kpis []model.KpiRow, minPeerGroup int) ([]model.BenchmarkRow, error) {
	cohorts := make(map[cohortKey][]observation)
	for i := range kpis {
		row := &kpis[i]
		if row.Value == nil {
			continue
		}
		k := cohortKey{kpiName: row.KPIName, fiscalYear: row.FiscalYear}
		cohorts[k] = append(cohorts[k], observation{
			value:        *row.Value,
			stateCode:    row.StateCode,
			hospitalType: row.HospitalType,
		})
	}

	keys := make([]cohortKey, 0, len(cohorts))
	for k := range cohorts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kpiName != keys[j].kpiName {
			return keys[i].kpiName < keys[j].kpiName
		}
		return keys[i].fiscalYear < keys[j].fiscalYear
	})

	perCohort := make([][]model.BenchmarkRow, len(keys))
	dropped := make([]int64, len(keys))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, k := range keys {
		g.Go(func() error {
			rows, n, err := computeCohort(k, cohorts[k], minPeerGroup)
			if err != nil {
				return fmt.Errorf("benchmark cohort %s/%d: %w", k.kpiName, k.fiscalYear, err)
			}
			perCohort[i] = rows
			dropped[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.BenchmarkRow
	var suppressed int64
	for i, rows := range perCohort {
		out = append(out, rows...)
		suppressed += dropped[i]
	}

	log.Info().
		Int("cohorts", len(keys)).
		Int("rows", len(out)).
		Int64("groups_suppressed", suppressed).
		Msg("benchmarks computed")
	return out, nil
}

// computeCohort builds all four levels for one (kpi, year) cohort and checks
// the nesting invariants before applying minimum-size suppression.
func computeCohort(k cohortKey, obs []observation, minPeerGroup int) ([]model.BenchmarkRow, int64, error) {
	national := make([]float64, 0, len(obs))
	byState := make(map[string][]float64)
	byType := make(map[string][]float64)
	type stKey struct{ state, htype string }
	byStateType := make(map[stKey][]float64)

	for _, o := range obs {
		national = append(national, o.value)
		byState[o.stateCode] = append(byState[o.stateCode], o.value)
		byType[o.hospitalType] = append(byType[o.hospitalType], o.value)
		sk := stKey{state: o.stateCode, htype: o.hospitalType}
		byStateType[sk] = append(byStateType[sk], o.value)
	}

	var stateTotal, typeTotal int
	for _, vs := range byState {
		stateTotal += len(vs)
	}
	for _, vs := range byType {
		typeTotal += len(vs)
	}
	if stateTotal != len(national) {
		return nil, 0, fmt.Errorf("state counts sum to %d, national is %d", stateTotal, len(national))
	}
	if typeTotal != len(national) {
		return nil, 0, fmt.Errorf("hospital-type counts sum to %d, national is %d", typeTotal, len(national))
	}
	for sk, vs := range byStateType {
		if len(vs) > len(byState[sk.state]) {
			return nil, 0, fmt.Errorf("group %s/%s larger than state group %s", sk.state, sk.htype, sk.state)
		}
		if len(vs) > len(byType[sk.htype]) {
			return nil, 0, fmt.Errorf("group %s/%s larger than type group %s", sk.state, sk.htype, sk.htype)
		}
	}

	var out []model.BenchmarkRow
	var suppressed int64
	emit := func(level string, state, htype *string, values []float64) {
		if len(values) < minPeerGroup {
			suppressed++
			return
		}
		d := Describe(values)
		out = append(out, model.BenchmarkRow{
			KPIName:      k.kpiName,
			Level:        level,
			StateCode:    state,
			HospitalType: htype,
			FiscalYear:   k.fiscalYear,
			PeerCount:    d.PeerCount,
			P25:          d.P25,
			Median:       d.Median,
			P75:          d.P75,
			Mean:         d.Mean,
		})
	}

	emit(model.LevelNational, nil, nil, national)

	for _, state := range sortedKeys(byState) {
		s := state
		emit(model.LevelState, &s, nil, byState[state])
	}
	for _, htype := range sortedKeys(byType) {
		h := htype
		emit(model.LevelHospitalType, nil, &h, byType[htype])
	}

	stKeys := make([]stKey, 0, len(byStateType))
	for sk := range byStateType {
		stKeys = append(stKeys, sk)
	}
	sort.Slice(stKeys, func(i, j int) bool {
		if stKeys[i].state != stKeys[j].state {
			return stKeys[i].state < stKeys[j].state
		}
		return stKeys[i].htype < stKeys[j].htype
	})
	for _, sk := range stKeys {
		s, h := sk.state, sk.htype
		emit(model.LevelStateHospitalType, &s, &h, byStateType[sk])
	}

	return out, suppressed, nil
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
