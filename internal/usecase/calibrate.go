package usecase

import (
	"context"
	"math"

	"github.com/forthview/scribe/internal/domain/calibrate"
	"github.com/forthview/scribe/internal/store"
	"github.com/forthview/scribe/internal/types"
)

// Times are rewritten in transactions of this many rows so a large
// transcript never holds one giant write lock.
const affineBatchSize = 500

type FitResult struct {
	Scale   float64
	Offset  float64
	Warning string
}

// FitCalibration least-squares fits new = a*old + b from reference points.
func (u Usecase) FitCalibration(points []types.CalibrationPoint) (FitResult, error) {
	a, b, warn, err := calibrate.Fit(points)
	if err != nil {
		return FitResult{}, err
	}
	return FitResult{Scale: a, Offset: b, Warning: warn}, nil
}

// ApplyAffine maps every timed segment of a transcript through
// new = a*old + b, clamped at zero. Only rows whose times actually move are
// written. Returns the number of updated segments.
func (u Usecase) ApplyAffine(ctx context.Context, transcriptID string, a, b float64) (int, error) {
	if math.IsNaN(a) || math.IsInf(a, 0) || a <= 0 {
		return 0, ErrBadScale
	}
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return 0, ErrBadOffset
	}
	if _, err := u.d.DB.Transcript(ctx, transcriptID); err != nil {
		return 0, err
	}
	segs, err := u.d.DB.SegmentsForTranscript(ctx, transcriptID)
	if err != nil {
		return 0, err
	}

	updated := 0
	batch := make([]store.Segment, 0, affineBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := u.d.DB.UpdateSegmentTimes(ctx, batch); err != nil {
			return err
		}
		updated += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, seg := range segs {
		ns := shift(a, b, seg.StartSec)
		ne := shift(a, b, seg.EndSec)
		if sameTime(ns, seg.StartSec) && sameTime(ne, seg.EndSec) {
			continue
		}
		batch = append(batch, store.Segment{ID: seg.ID, StartSec: ns, EndSec: ne})
		if len(batch) == affineBatchSize {
			if err := flush(); err != nil {
				return updated, err
			}
		}
	}
	if err := flush(); err != nil {
		return updated, err
	}

	u.d.Logf("recalibrated %d segments of %s (a=%g b=%g)", updated, transcriptID, a, b)
	return updated, nil
}

func shift(a, b float64, v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := calibrate.Transform(a, b, *v)
	return &n
}
