package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBand(t *testing.T) {
	cases := []struct {
		raw  int
		band float64
	}{
		{40, 9.0},
		{39, 9.0},
		{38, 8.5},
		{37, 8.5},
		{35, 8.0},
		{33, 7.5},
		{30, 7.0},
		{27, 6.5},
		{23, 6.0},
		{22, 5.5},
		{19, 5.5},
		{15, 5.0},
		{13, 4.5},
		{10, 4.0},
		{8, 3.5},
		{6, 3.0},
		{4, 2.5},
		{3, 0.0},
		{0, 0.0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.band, ToBand(tc.raw), "raw score %d", tc.raw)
	}
}

func TestToBandMonotonic(t *testing.T) {
	prev := ToBand(0)
	for raw := 1; raw <= 40; raw++ {
		band := ToBand(raw)
		assert.GreaterOrEqual(t, band, prev, "band must not decrease at raw score %d", raw)
		prev = band
	}
}
