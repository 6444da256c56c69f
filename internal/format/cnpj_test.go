package format

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCNPJ(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "masked valid", input: "11.222.333/0001-81", want: true},
		{name: "digits valid", input: "11222333000181", want: true},
		{name: "wrong first check digit", input: "11222333000191", want: false},
		{name: "wrong second check digit", input: "11222333000182", want: false},
		{name: "all identical digits", input: "11111111111111", want: false},
		{name: "all zeros", input: "00.000.000/0000-00", want: false},
		{name: "too short", input: "1122233300018", want: false},
		{name: "too long", input: "112223330001811", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidCNPJ(tt.input))
		})
	}
}

func TestCNPJCheckDigits_ConstructedNumbersValidate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		var b strings.Builder
		for j := 0; j < 12; j++ {
			b.WriteString(strconv.Itoa(rng.Intn(10)))
		}
		base := b.String()
		if strings.Count(base, base[:1]) == len(base) {
			continue
		}

		first, second, ok := CNPJCheckDigits(base)
		require.True(t, ok)

		cnpj := base + strconv.Itoa(first) + strconv.Itoa(second)
		assert.True(t, ValidCNPJ(cnpj), "constructed %s should validate", cnpj)

		badFirst := base + strconv.Itoa((first+1)%10) + strconv.Itoa(second)
		assert.False(t, ValidCNPJ(badFirst), "mutated first digit %s should fail", badFirst)

		badSecond := base + strconv.Itoa(first) + strconv.Itoa((second+1)%10)
		assert.False(t, ValidCNPJ(badSecond), "mutated second digit %s should fail", badSecond)
	}
}

func TestCNPJCheckDigits_RejectsBadBase(t *testing.T) {
	_, _, ok := CNPJCheckDigits("12345")
	assert.False(t, ok)

	_, _, ok = CNPJCheckDigits("11.222.333/0")
	assert.False(t, ok)
}

func TestMaskCNPJ(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"11", "11"},
		{"112", "11.2"},
		{"112223", "11.222.3"},
		{"112223330", "11.222.333/0"},
		{"1122233300018", "11.222.333/0001-8"},
		{"11222333000181", "11.222.333/0001-81"},
		{"11.222.333/0001-81999", "11.222.333/0001-81"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskCNPJ(tt.input))
		})
	}
}

func TestDigits(t *testing.T) {
	assert.Equal(t, "11222333000181", Digits("11.222.333/0001-81"))
	assert.Equal(t, "", Digits("abc"))
}
