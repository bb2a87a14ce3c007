package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("plain integer", func(t *testing.T) {
		d, err := ParseAmount("60")
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.NewFromInt(60)))
	})

	t.Run("decimal with whitespace", func(t *testing.T) {
		d, err := ParseAmount("  49.60 ")
		require.NoError(t, err)
		assert.Equal(t, "49.6", d.String())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ParseAmount("   ")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := ParseAmount("sixty")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestParseRate(t *testing.T) {
	rate, err := ParseRate("0.20")
	require.NoError(t, err)
	assert.Equal(t, "0.2", rate.String())

	_, err = ParseRate("1.5")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseRate("-0.1")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "62", Format(decimal.NewFromInt(62)))
	assert.Equal(t, "12.5", Format(decimal.RequireFromString("12.50")))
	assert.Equal(t, "49.60", FormatFixed(decimal.RequireFromString("49.6")))
	assert.Equal(t, "0.00", FormatFixed(decimal.Zero))
}

func TestSum_NoFloatDrift(t *testing.T) {
	total := Sum(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"))
	assert.Equal(t, "0.3", Format(total))
}

func TestRoundToCents(t *testing.T) {
	assert.Equal(t, "10.01", RoundToCents(decimal.RequireFromString("10.005")).String())
	assert.Equal(t, "-10.01", RoundToCents(decimal.RequireFromString("-10.005")).String())
}
