package utils

import (
	"math"
	"testing"
)

func TestLerpDegrees_ShortestArc(t *testing.T) {
	cases := []struct {
		from, to, t, want float64
	}{
		{0, 90, 0.5, 45},
		{350, 10, 0.5, 0},
		{10, 350, 0.5, 0},
		{90, 270, 0, 90},
		{30, 60, 1, 60},
	}
	for _, c := range cases {
		got := LerpDegrees(c.from, c.to, c.t)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("LerpDegrees(%v, %v, %v): expected %v, got %v", c.from, c.to, c.t, c.want, got)
		}
	}
}
