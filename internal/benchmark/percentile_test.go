package benchmark

import (
	"math"
	"testing"
)

func TestPercentile_Interpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	cases := []struct {
		p, want float64
	}{
		{0.25, 17.5},
		{0.50, 25},
		{0.75, 32.5},
		{0, 10},
		{1, 40},
	}
	for _, c := range cases {
		if got := Percentile(sorted, c.p); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("Percentile(p=%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestPercentile_SingleValue(t *testing.T) {
	if got := Percentile([]float64{7}, 0.25); got != 7 {
		t.Errorf("got %v, want 7", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{10, 20, 30, 40}); math.Abs(got-25) > 1e-9 {
		t.Errorf("mean = %v, want 25", got)
	}
}

func TestDescribe_DoesNotMutateInput(t *testing.T) {
	in := []float64{40, 10, 30, 20}
	d := Describe(in)
	if in[0] != 40 {
		t.Error("Describe sorted the caller's slice")
	}
	if d.PeerCount != 4 || math.Abs(d.Median-25) > 1e-9 {
		t.Errorf("distribution = %+v", d)
	}
}
