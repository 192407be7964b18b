package ingestion

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julytbn/achats-import/internal/domain"
)

// The normalizers apply the engine's default policy on malformed input:
// an unparsable amount becomes zero and an unparsable date becomes the
// import date. Neither ever fails; the row validator decides whether the
// defaulted value invalidates the row.

// normalizeAmount turns a raw cell into a signed decimal amount.
func normalizeAmount(c domain.Cell) decimal.Decimal {
	switch v := c.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		return parseAmountString(v)
	default:
		return decimal.Zero
	}
}

// parseAmountString handles free-form numeric text in either the French
// convention ("1.234,50") or the anglo one ("1,234.50"). When a comma is
// present and the digits after the last comma look like cents (1 or 2 of
// them), the comma is the decimal separator and periods are thousands
// marks; otherwise commas are thousands marks.
func parseAmountString(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	negative := strings.HasPrefix(s, "-")
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return decimal.Zero
	}
	if last := strings.LastIndex(cleaned, ","); last >= 0 {
		frac := cleaned[last+1:]
		if len(frac) >= 1 && len(frac) <= 2 && allDigits(frac) {
			intPart := strings.NewReplacer(",", "", ".", "").Replace(cleaned[:last])
			cleaned = intPart + "." + frac
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// excelEpoch is day 0 of the spreadsheet serial-date scheme.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date layouts tried in order; dd/mm/yyyy variants come first because the
// dashboard's uploads are French, ISO afterwards.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"02/01/06",
	"2006-01-02T15:04:05",
}

// normalizeDate turns a raw cell into a calendar date. Numeric cells are
// spreadsheet serial day counts from the 1899-12-30 epoch. Anything
// unrecognized falls back to the defaultImportDate policy.
func normalizeDate(c domain.Cell, now func() time.Time) time.Time {
	switch v := c.(type) {
	case time.Time:
		return v
	case float64:
		return serialDate(v)
	case int:
		return serialDate(float64(v))
	case string:
		if t, ok := parseDateString(v); ok {
			return t
		}
		return defaultImportDate(now)
	default:
		return defaultImportDate(now)
	}
}

// parseDateString tries the known layouts, then a serial day count that
// arrived rendered as text (the usual shape of date cells read back from
// xlsx as strings).
func parseDateString(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if allDigits(s) {
		if d, err := decimal.NewFromString(s); err == nil {
			f, _ := d.Float64()
			return serialDate(f), true
		}
	}
	return time.Time{}, false
}

// serialDate converts a day-count serial into a date by adding whole days
// to the epoch; a fractional part is an intra-day time and is dropped.
func serialDate(serial float64) time.Time {
	return excelEpoch.AddDate(0, 0, int(serial))
}

// defaultImportDate is the engine's explicit policy for rows whose date
// is missing or unparsable: attribute the line to the day of the import.
// Kept as a named function so tests can target the policy directly.
func defaultImportDate(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return now()
}
