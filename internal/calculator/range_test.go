package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanMaxMin(t *testing.T) {
	tests := []struct {
		name           string
		in             []float64
		mean, max, min float64
	}{
		{"single", []float64{3}, 3, 3, 3},
		{"mixed", []float64{1, 5, 3}, 3, 5, 1},
		{"zeros", []float64{0, 0}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.mean, Mean(tt.in), 1e-12)
			assert.Equal(t, tt.max, Max(tt.in))
			assert.Equal(t, tt.min, Min(tt.in))
		})
	}
}

func TestEmptyRange(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsInf(Max(nil), -1))
	assert.True(t, math.IsInf(Min(nil), 1))
}
