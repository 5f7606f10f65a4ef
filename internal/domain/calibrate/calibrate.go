// Package calibrate fits a linear time correction new = a*old + b from
// user-supplied (expected, observed) reference pairs and applies it to
// segment timings.
package calibrate

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/forthview/scribe/internal/types"
)

// ErrNoPoints is returned when a fit is requested with no reference pairs.
var ErrNoPoints = errors.New("calibrate: no reference points")

// WarnSinglePoint signals a fit from one pair: the scale is meaningless,
// only the offset is usable. Callers may still proceed.
const WarnSinglePoint = "single reference point: scale fixed at 1, offset only"

// Fit solves ordinary least squares for observed ≈ a*expected + b.
// Degenerate inputs (a single point, or all expected times identical) fall
// back to a pure offset: a=1, b=mean(observed)−mean(expected).
func Fit(points []types.CalibrationPoint) (a, b float64, warning string, err error) {
	if len(points) == 0 {
		return 0, 0, "", ErrNoPoints
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Expected
		ys[i] = p.Observed
	}

	if len(points) == 1 {
		return 1, ys[0] - xs[0], WarnSinglePoint, nil
	}
	if degenerate(xs) {
		return 1, stat.Mean(ys, nil) - stat.Mean(xs, nil), "", nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta, alpha, "", nil
}

// degenerate reports near-zero variance in the expected times, which would
// blow up the OLS slope denominator.
func degenerate(xs []float64) bool {
	min, max := xs[0], xs[0]
	for _, x := range xs[1:] {
		min = math.Min(min, x)
		max = math.Max(max, x)
	}
	return max-min < 1e-9
}

// Transform applies the affine correction to one timestamp, clamped at
// zero: corrected time never goes negative.
func Transform(a, b, v float64) float64 {
	return math.Max(0, a*v+b)
}
