package smile

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval approximates one display refresh.
const DefaultInterval = time.Second / 60

// VideoSource is a live frame producer.
type VideoSource interface {
	// Ready reports whether the source has enough data to render a frame.
	Ready() bool
	// CopyFrame draws the current frame into dst, scaling it to dst's size.
	CopyFrame(dst *Raster) error
}

type SamplerOption func(*Sampler)

func WithInterval(interval time.Duration) SamplerOption {
	return func(s *Sampler) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithSize(width, height int) SamplerOption {
	return func(s *Sampler) {
		s.buf = NewRaster(width, height)
	}
}

func WithLogger(logger *logrus.Logger) SamplerOption {
	return func(s *Sampler) {
		if logger != nil {
			s.log = logger
		}
	}
}

// Sampler copies frames from a VideoSource into one reusable buffer and scores
// them. Ticks never overlap: the next one is armed only after the previous
// one has been scored and delivered.
type Sampler struct {
	source   VideoSource
	buf      *Raster
	interval time.Duration
	log      *logrus.Logger
}

func NewSampler(source VideoSource, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		source:   source,
		buf:      NewRaster(DefaultWidth, DefaultHeight),
		interval: DefaultInterval,
		log:      logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Tick samples and scores a single frame. ok is false when the tick was
// skipped because the source was not ready or the copy failed.
func (s *Sampler) Tick() (score int, ok bool) {
	if !s.source.Ready() {
		return 0, false
	}

	if err := s.source.CopyFrame(s.buf); err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Error getting image data")
		return 0, false
	}

	return ScoreWithLogger(s.buf, s.log), true
}

// Run ticks until ctx is cancelled, handing every produced score to onScore.
// Cancellation is observed between ticks only.
func (s *Sampler) Run(ctx context.Context, onScore func(score int)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if score, ok := s.Tick(); ok && onScore != nil {
				onScore(score)
			}
			timer.Reset(s.interval)
		}
	}
}

// Buffer exposes the reusable raster. It is only meaningful between ticks.
func (s *Sampler) Buffer() *Raster {
	return s.buf
}
