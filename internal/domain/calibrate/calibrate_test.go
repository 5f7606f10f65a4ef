package calibrate

import (
	"errors"
	"math"
	"testing"

	"github.com/forthview/scribe/internal/types"
)

func pts(pairs ...[2]float64) []types.CalibrationPoint {
	out := make([]types.CalibrationPoint, len(pairs))
	for i, p := range pairs {
		out[i] = types.CalibrationPoint{Expected: p[0], Observed: p[1]}
	}
	return out
}

func TestFit_TwoPointsExact(t *testing.T) {
	a, b, warning, err := Fit(pts([2]float64{0, 1}, [2]float64{10, 13}))
	if err != nil {
		t.Fatal(err)
	}
	if warning != "" {
		t.Fatalf("unexpected warning: %q", warning)
	}
	if math.Abs(a-1.2) > 1e-9 || math.Abs(b-1) > 1e-9 {
		t.Fatalf("fit = (%v, %v), want (1.2, 1)", a, b)
	}
}

func TestFit_LeastSquares(t *testing.T) {
	// Symmetric residuals around y = x: slope 1, offset 0.
	a, b, _, err := Fit(pts([2]float64{0, 1}, [2]float64{10, 9}, [2]float64{20, 21}, [2]float64{30, 29}))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(a-1) > 1e-9 || math.Abs(b) > 1e-9 {
		t.Fatalf("fit = (%v, %v), want (1, 0)", a, b)
	}
}

func TestFit_SinglePoint(t *testing.T) {
	a, b, warning, err := Fit(pts([2]float64{10, 12.5}))
	if err != nil {
		t.Fatal(err)
	}
	if a != 1 || math.Abs(b-2.5) > 1e-9 {
		t.Fatalf("fit = (%v, %v), want (1, 2.5)", a, b)
	}
	if warning != WarnSinglePoint {
		t.Fatalf("expected single-point warning, got %q", warning)
	}
}

func TestFit_DegenerateIdenticalExpected(t *testing.T) {
	a, b, _, err := Fit(pts([2]float64{5, 7}, [2]float64{5, 9}))
	if err != nil {
		t.Fatal(err)
	}
	if a != 1 || math.Abs(b-3) > 1e-9 {
		t.Fatalf("fit = (%v, %v), want (1, 3)", a, b)
	}
}

func TestFit_NoPoints(t *testing.T) {
	if _, _, _, err := Fit(nil); !errors.Is(err, ErrNoPoints) {
		t.Fatalf("expected ErrNoPoints, got %v", err)
	}
}

func TestTransform_ClampsAtZero(t *testing.T) {
	if got := Transform(1.2, 1, 10); got != 13 {
		t.Fatalf("Transform = %v, want 13", got)
	}
	if got := Transform(1, -100, 10); got != 0 {
		t.Fatalf("Transform = %v, want 0", got)
	}
}
