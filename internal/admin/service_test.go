package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateConfigAccepts(t *testing.T) {
	err := ValidateConfig(
		map[string]int{"religion": 40, "location": 30, "languages": 30},
		map[string]float64{"max_age_gap_years": 15, "max_distance_km": 150},
	)
	assert.NoError(t, err)
}

func TestValidateConfigRejectsBadSum(t *testing.T) {
	err := ValidateConfig(
		map[string]int{"religion": 40, "location": 30},
		map[string]float64{},
	)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestValidateConfigRejectsNegativeWeight(t *testing.T) {
	err := ValidateConfig(
		map[string]int{"religion": 120, "location": -20},
		map[string]float64{},
	)
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestValidateConfigRejectsNegativeThreshold(t *testing.T) {
	err := ValidateConfig(
		map[string]int{"religion": 100},
		map[string]float64{"max_age_gap_years": -1},
	)
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestValidateConfigToleratesUnknownFactorNames(t *testing.T) {
	// Unknown factors are allowed at write time; the engine logs and
	// skips them at evaluation time.
	err := ValidateConfig(
		map[string]int{"religion": 50, "zodiac_sign": 50},
		map[string]float64{},
	)
	assert.NoError(t, err)
}
