package smile

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Heuristic constants. They are empirical and must not be tuned.
const (
	mouthStartRatio  = 0.6
	mouthHeightRatio = 0.25
	varianceCeiling  = 1000.0
	brightnessWeight = 0.4
	contrastWeight   = 0.6

	MinScore = 0
	MaxScore = 100
)

// Region is a half-open row range [Start, Start+Height) spanning all columns.
type Region struct {
	Start  int
	Height int
}

func (r Region) End() int {
	return r.Start + r.Height
}

// MouthRegion returns the lower band of a frame of the given height where the
// mouth usually sits.
func MouthRegion(height int) Region {
	return Region{
		Start:  int(math.Floor(float64(height) * mouthStartRatio)),
		Height: int(math.Floor(float64(height) * mouthHeightRatio)),
	}
}

// Stats holds the brightness moments of the mouth region.
type Stats struct {
	Mean     float64
	Variance float64
}

// RegionStats computes the mean and population variance of the samples in
// region.
func RegionStats(r *Raster, region Region) (Stats, error) {
	if err := r.Validate(); err != nil {
		return Stats{}, err
	}
	if region.Height <= 0 || region.Start < 0 || region.End() > r.Height {
		return Stats{}, fmt.Errorf("%w: region rows [%d,%d) outside height %d",
			ErrMalformedRaster, region.Start, region.End(), r.Height)
	}

	samples := r.Pix[region.Start*r.Width : region.End()*r.Width]
	n := float64(len(samples))

	var sum float64
	for _, v := range samples {
		sum += float64(v)
	}
	mean := sum / n

	var sq float64
	for _, v := range samples {
		d := float64(v) - mean
		sq += d * d
	}

	return Stats{Mean: mean, Variance: sq / n}, nil
}

// ScoreFromStats combines brightness and contrast into a clamped integer score.
func ScoreFromStats(s Stats) int {
	normMean := s.Mean / 255
	normVar := math.Min(s.Variance/varianceCeiling, 1)

	raw := (normMean*brightnessWeight + normVar*contrastWeight) * 100

	return clamp(math.Round(raw))
}

// Score runs the smile heuristic over r, reporting failures to the logrus
// standard logger.
func Score(r *Raster) int {
	return ScoreWithLogger(r, logrus.StandardLogger())
}

// ScoreWithLogger runs the smile heuristic over r. It never fails: malformed
// input or an internal fault yields 0 and is logged to logger.
func ScoreWithLogger(r *Raster, logger logrus.FieldLogger) (score int) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithFields(logrus.Fields{
				"panic": fmt.Sprint(rec),
			}).Error("Smile scoring panicked")
			score = MinScore
		}
	}()

	if err := r.Validate(); err != nil {
		logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Error in smile detection")
		return MinScore
	}

	stats, err := RegionStats(r, MouthRegion(r.Height))
	if err != nil {
		logger.WithFields(logrus.Fields{
			"error":  err.Error(),
			"width":  r.Width,
			"height": r.Height,
		}).Error("Error in smile detection")
		return MinScore
	}

	return ScoreFromStats(stats)
}

func clamp(v float64) int {
	if math.IsNaN(v) || v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return int(v)
}
