package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"skips NaN", []float64{math.NaN(), 5, 1}, 3},
		{"single", []float64{7}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.values))
		})
	}

	assert.True(t, math.IsNaN(Median(nil)))
	assert.True(t, math.IsNaN(Median([]float64{math.NaN()})))
}

func TestSumAndMax(t *testing.T) {
	assert.Equal(t, 6.0, Sum([]float64{1, math.NaN(), 5}))
	assert.Equal(t, 0.0, Sum([]float64{math.NaN()}))
	assert.Equal(t, 5.0, Max([]float64{1, math.NaN(), 5, -2}))
	assert.True(t, math.IsNaN(Max(nil)))
}

func TestRoundHalfEven(t *testing.T) {
	assert.Equal(t, 2.0, RoundHalfEven(2.0, 1))
	assert.Equal(t, 2.5, RoundHalfEven(2.5, 1))
	assert.Equal(t, 2.0, RoundHalfEven(2.5, 0))
	assert.Equal(t, 2.0, RoundHalfEven(1.5, 0))
	assert.Equal(t, 4.0, RoundHalfEven(4.5, 0))
	assert.Equal(t, 3.2, RoundHalfEven(3.25, 1))
	assert.Equal(t, 3.8, RoundHalfEven(3.75, 1))
	assert.True(t, math.IsNaN(RoundHalfEven(math.NaN(), 1)))
}
