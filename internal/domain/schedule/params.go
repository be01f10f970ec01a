package schedule

import (
	"time"

	"github.com/mhollis/cram-api/internal/domain"
)

// Params defines the configurable parameters of the review scheduler.
type Params struct {
	// ReviewIntervals maps each difficulty rating to the time until the
	// card should be seen again.
	ReviewIntervals map[domain.Difficulty]time.Duration
}

// ParamsConfig allows overriding the default intervals when constructing
// Params. Zero values keep the defaults.
type ParamsConfig struct {
	EasyInterval   time.Duration
	MediumInterval time.Duration
	HardInterval   time.Duration
}

// NewDefaultParams creates a Params instance with the default intervals:
// easy three days, medium one day, hard half a day.
func NewDefaultParams() *Params {
	return &Params{
		ReviewIntervals: map[domain.Difficulty]time.Duration{
			domain.DifficultyEasy:   72 * time.Hour,
			domain.DifficultyMedium: 24 * time.Hour,
			domain.DifficultyHard:   12 * time.Hour,
		},
	}
}

// NewParams creates a Params instance with custom configuration applied
// over the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.EasyInterval > 0 {
		params.ReviewIntervals[domain.DifficultyEasy] = config.EasyInterval
	}
	if config.MediumInterval > 0 {
		params.ReviewIntervals[domain.DifficultyMedium] = config.MediumInterval
	}
	if config.HardInterval > 0 {
		params.ReviewIntervals[domain.DifficultyHard] = config.HardInterval
	}

	return params
}
