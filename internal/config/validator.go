package config

import (
	"SmileApp/pkg/smile"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// CaptureThresholdFromEnv reads SMILE_CAPTURE_THRESHOLD. Unset means the
// default; anything else must be an integer in 0..100.
func CaptureThresholdFromEnv() (int, error) {
	raw, ok := os.LookupEnv("SMILE_CAPTURE_THRESHOLD")
	if !ok || raw == "" {
		return smile.DefaultCaptureThreshold, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid SMILE_CAPTURE_THRESHOLD %q: %w", raw, err)
	}
	if v < smile.MinScore || v > smile.MaxScore {
		return 0, fmt.Errorf("SMILE_CAPTURE_THRESHOLD must be between %d and %d, got %d", smile.MinScore, smile.MaxScore, v)
	}

	return v, nil
}
