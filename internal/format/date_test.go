package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"2025-01-10", "10/01/2025", "2025-01-10T00:00:00Z", "2025-01-10T00:00:00"} {
		got, err := ParseDate(input)
		require.NoError(t, err, input)
		assert.True(t, want.Equal(got), "%s parsed as %v", input, got)
	}

	got, err := ParseDate("  ")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("31/31/2025")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "10/01/2025", FormatDate(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Equal(t, "2025-01-10", ISO(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", ISO(time.Time{}))
}
