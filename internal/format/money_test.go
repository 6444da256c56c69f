package format

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.500.000,00", FormatBRL(1500000))
	assert.Equal(t, "R$ 0,00", FormatBRL(0))
	assert.Equal(t, "R$ 320.000,50", FormatBRL(320000.5))
	assert.Equal(t, "1.500.000,00", FormatAmount(1500000))
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"10.000,00", 10000},
		{"10000,5", 10000.5},
		{"R$ 1.500.000,00", 1500000},
		{"  1500 ", 1500},
		{"", 0},
		{"abc", 0},
		{"12,3x", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseAmount(tt.input), 1e-9)
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	amounts := []float64{0, 0.01, 0.1, 1, 9.99, 999.99, 1000, 1234.56, 1500000, 987654321.12}
	for i := 0; i < 1000; i++ {
		cents := rng.Int63n(1_000_000_000_00)
		amounts = append(amounts, float64(cents)/100)
	}

	for _, amount := range amounts {
		got := ParseAmount(FormatBRL(amount))
		assert.InDelta(t, amount, got, 1e-6, "round trip of %v via %q", amount, FormatBRL(amount))

		got = ParseAmount(FormatAmount(amount))
		assert.True(t, math.Abs(amount-got) < 1e-6, "round trip of %v via %q", amount, FormatAmount(amount))
	}
}
