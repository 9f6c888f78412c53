package vecmath

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDistances(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{0, 1}
	if d, ok := SquaredL2(a, b); !ok || !almostEqual(d, 2) {
		t.Errorf("SquaredL2 = %v, %v", d, ok)
	}
	if d, ok := L2(a, b); !ok || !almostEqual(d, math.Sqrt2) {
		t.Errorf("L2 = %v, %v", d, ok)
	}
	if c, ok := Cosine(a, b); !ok || !almostEqual(c, 0) {
		t.Errorf("Cosine = %v, %v", c, ok)
	}
	if c, _ := Cosine(a, []float64{0, 0}); c != 0 {
		t.Errorf("Cosine with zero vector = %v", c)
	}
	if _, ok := Dot(a, []float64{1}); ok {
		t.Error("Dot should reject mismatched dimensions")
	}
}

func TestNormalize(t *testing.T) {
	v := []float64{3, 4}
	n := Normalize(v)
	if !almostEqual(n[0], 0.6) || !almostEqual(n[1], 0.8) {
		t.Errorf("Normalize = %v", n)
	}
	if v[0] != 3 {
		t.Error("Normalize must not modify its input")
	}
	z := Normalize([]float64{0, 0})
	if z[0] != 0 || z[1] != 0 {
		t.Errorf("Normalize(zero) = %v", z)
	}
}

func TestMeanAccumulator(t *testing.T) {
	var acc MeanAccumulator
	if acc.Mean() != nil {
		t.Fatal("empty accumulator should have nil mean")
	}
	acc.Add([]float64{1, 0}, 0.3)
	acc.Add([]float64{0, 1}, 1.0)
	if acc.Add([]float64{1, 2, 3}, 1) {
		t.Fatal("Add should reject dimension mismatch")
	}
	mean := acc.Mean()
	if !almostEqual(acc.Weight(), 1.3) {
		t.Errorf("Weight = %v", acc.Weight())
	}
	if !almostEqual(mean[0], 0.3/1.3) || !almostEqual(mean[1], 1.0/1.3) {
		t.Errorf("Mean = %v", mean)
	}
}

func TestMinMaxScale(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		probe  float64
		want   float64
	}{
		{"range", []float64{2, 4, 6}, 4, 0.5},
		{"min maps to zero", []float64{2, 4, 6}, 2, 0},
		{"max maps to one", []float64{2, 4, 6}, 6, 1},
		{"zero variance", []float64{5, 5, 5}, 5, 0},
		{"single value", []float64{7}, 7, 0},
		{"empty", nil, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mm MinMax
			for _, v := range tt.values {
				mm.Observe(v)
			}
			if got := mm.Scale(tt.probe); !almostEqual(got, tt.want) {
				t.Errorf("Scale(%v) = %v, want %v", tt.probe, got, tt.want)
			}
		})
	}
}
