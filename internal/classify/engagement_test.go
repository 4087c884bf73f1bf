package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name                   string
		views, likes, comments int64
		want                   float64
	}{
		{"zero views", 0, 50, 50, 0.0},
		{"zero views zero interactions", 0, 0, 0, 0.0},
		{"ten percent", 200, 10, 10, 10.0},
		{"no interactions", 1000, 0, 0, 0.0},
		{"rounded to four decimals", 3, 1, 0, 33.3333},
		{"over one hundred percent", 10, 15, 5, 200.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EngagementRate(tt.views, tt.likes, tt.comments), 1e-9)
		})
	}
}

func TestEngagementRate_ZeroViewsAnyInteractions(t *testing.T) {
	for _, likes := range []int64{0, 1, 1000, 1 << 40} {
		for _, comments := range []int64{0, 7, 99999} {
			assert.Zero(t, EngagementRate(0, likes, comments))
		}
	}
}
