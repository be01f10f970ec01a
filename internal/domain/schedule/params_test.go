package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mhollis/cram-api/internal/domain"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	assert.Equal(t, 72*time.Hour, params.ReviewIntervals[domain.DifficultyEasy])
	assert.Equal(t, 24*time.Hour, params.ReviewIntervals[domain.DifficultyMedium])
	assert.Equal(t, 12*time.Hour, params.ReviewIntervals[domain.DifficultyHard])
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		MediumInterval: 36 * time.Hour,
		HardInterval:   6 * time.Hour,
	})

	// Unset intervals keep their defaults.
	assert.Equal(t, 72*time.Hour, params.ReviewIntervals[domain.DifficultyEasy])
	assert.Equal(t, 36*time.Hour, params.ReviewIntervals[domain.DifficultyMedium])
	assert.Equal(t, 6*time.Hour, params.ReviewIntervals[domain.DifficultyHard])
}

func TestNewParamsIgnoresNonPositiveOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{EasyInterval: -time.Hour})

	assert.Equal(t, 72*time.Hour, params.ReviewIntervals[domain.DifficultyEasy])
}
