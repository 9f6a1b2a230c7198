package reviewControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRating(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want float64
	}{
		{"whole number", 4.0, 4.0},
		{"rounds down", 4.24, 4.2},
		{"rounds up", 4.26, 4.3},
		{"halfway rounds up", 4.25, 4.3},
		{"zero", 0, 0},
		{"five stays five", 5.0, 5.0},
		{"thirds", 11.0 / 3.0, 3.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundRating(tt.avg))
		})
	}
}
