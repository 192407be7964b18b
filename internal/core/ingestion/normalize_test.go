package ingestion

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"french thousands and decimal comma", "1.234,50", "1234.5"},
		{"anglo thousands and decimal period", "1,234.50", "1234.5"},
		{"bare decimal comma", "1,5", "1.5"},
		{"comma as thousands only", "1,234", "1234"},
		{"space thousands", "1 234,50", "1234.5"},
		{"plain integer", "1000", "1000"},
		{"plain decimal", "12.34", "12.34"},
		{"currency noise", "€ 45,00", "45"},
		{"negative", "-12,30", "-12.3"},
		{"garbage", "n/a", "0"},
		{"empty string", "", "0"},
		{"nil cell", nil, "0"},
		{"numeric cell", 1234.5, "1234.5"},
		{"int cell", 42, "42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeAmount(tc.in)
			want := decimal.RequireFromString(tc.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestNormalizeAmountRoundTrip(t *testing.T) {
	// The same value formatted in either convention parses back equal.
	french := normalizeAmount("1.234,56")
	anglo := normalizeAmount("1,234.56")
	assert.True(t, french.Equal(anglo), "french %s != anglo %s", french, anglo)
}

func TestNormalizeDate(t *testing.T) {
	fixedNow := func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	}

	t.Run("french layout", func(t *testing.T) {
		got := normalizeDate("05/01/2024", fixedNow)
		assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("iso layout", func(t *testing.T) {
		got := normalizeDate("2024-01-05", fixedNow)
		assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("serial number cell", func(t *testing.T) {
		got := normalizeDate(float64(45292), fixedNow)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("serial rendered as text", func(t *testing.T) {
		got := normalizeDate("45292", fixedNow)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("date cell passthrough", func(t *testing.T) {
		d := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, d, normalizeDate(d, fixedNow))
	})

	t.Run("unparsable falls back to import date", func(t *testing.T) {
		assert.Equal(t, fixedNow(), normalizeDate("demain", fixedNow))
	})

	t.Run("nil falls back to import date", func(t *testing.T) {
		assert.Equal(t, fixedNow(), normalizeDate(nil, fixedNow))
	})
}
