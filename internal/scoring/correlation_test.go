package scoring

import (
	"errors"
	"math"
	"testing"
)

func TestComputeCorrelationPerfect(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	got, err := ComputeCorrelation(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected correlation")
	}
	if math.Abs(*got-100) > 1e-9 {
		t.Fatalf("correlation = %v, want 100", *got)
	}
}

func TestComputeCorrelationInverseIsMagnitude(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{10, 8, 6, 4, 2}

	got, err := ComputeCorrelation(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected correlation")
	}
	// Perfectly inverse series still correlate with magnitude 100.
	if math.Abs(*got-100) > 1e-9 {
		t.Fatalf("correlation = %v, want 100", *got)
	}
}

func TestComputeCorrelationMisaligned(t *testing.T) {
	_, err := ComputeCorrelation([]float64{1, 2, 3}, []float64{1, 2})
	if !errors.Is(err, ErrMisalignedSeries) {
		t.Fatalf("expected ErrMisalignedSeries, got %v", err)
	}
}

func TestComputeCorrelationZeroVariance(t *testing.T) {
	got, err := ComputeCorrelation([]float64{5, 5, 5, 5}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("zero variance must yield nil, got %v", *got)
	}
}

func TestComputeCorrelationTooShort(t *testing.T) {
	got, err := ComputeCorrelation([]float64{1}, []float64{2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("single-point series must yield nil")
	}
}

func TestCorrelationBand(t *testing.T) {
	cases := []struct {
		magnitude float64
		want      string
	}{
		{95, "high"},
		{70.1, "high"},
		{70, "medium"},
		{30, "medium"},
		{29.9, "low"},
		{0, "low"},
	}
	for _, c := range cases {
		if got := CorrelationBand(c.magnitude); got != c.want {
			t.Errorf("CorrelationBand(%v) = %q, want %q", c.magnitude, got, c.want)
		}
	}
}
