package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTwoSidedTPValue(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		n        int
		expected float64
		delta    float64
	}{
		{
			name:     "too few observations",
			r:        0.9,
			n:        2,
			expected: 1,
			delta:    0,
		},
		{
			name:     "zero correlation",
			r:        0,
			n:        10,
			expected: 1,
			delta:    1e-9,
		},
		{
			name:     "perfect correlation",
			r:        1,
			n:        10,
			expected: 0,
			delta:    0,
		},
		{
			// r = sqrt(0.5) with df=2 gives t = 2, where the beta form
			// reduces to 1 - sqrt(0.5).
			name:     "closed form df 2",
			r:        0.7071067811865476,
			n:        4,
			expected: 0.29289321881345254,
			delta:    1e-9,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := twoSidedTPValue(tc.r, tc.n)
			assert.InDelta(t, tc.expected, result, tc.delta)
		})
	}
}

func TestTwoSidedTPValueMonotonicInCorrelation(t *testing.T) {
	// Stronger correlation over the same sample must never raise the
	// p-value.
	prev := 1.1
	for _, r := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.99} {
		p := twoSidedTPValue(r, 12)
		assert.Less(t, p, prev, "p-value should shrink as r grows (r=%v)", r)
		prev = p
	}
}

func TestTwoSidedTPValueSignificance(t *testing.T) {
	// A strong correlation over a decent sample is significant; a weak one
	// over a tiny sample is not.
	assert.Less(t, twoSidedTPValue(0.9, 20), 0.05)
	assert.Greater(t, twoSidedTPValue(0.2, 5), 0.05)
}

func TestRegularizedIncompleteBeta(t *testing.T) {
	tests := []struct {
		name     string
		a, b, x  float64
		expected float64
	}{
		{name: "x at zero", a: 2, b: 3, x: 0, expected: 0},
		{name: "x at one", a: 2, b: 3, x: 1, expected: 1},
		// I_x(1, 1) = x.
		{name: "uniform case", a: 1, b: 1, x: 0.3, expected: 0.3},
		// I_x(1, b) = 1 - (1-x)^b.
		{name: "a equals one", a: 1, b: 0.5, x: 0.5, expected: 0.2928932188134525},
		// Arcsine distribution midpoint.
		{name: "symmetric half", a: 0.5, b: 0.5, x: 0.5, expected: 0.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := regularizedIncompleteBeta(tc.a, tc.b, tc.x)
			assert.InDelta(t, tc.expected, result, 1e-9)
		})
	}
}
