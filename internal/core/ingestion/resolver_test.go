package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapping(pairs ...[2]any) *RowMapping {
	m := NewRowMapping()
	for _, p := range pairs {
		m.Set(p[0].(string), p[1])
	}
	return m
}

func TestResolveField(t *testing.T) {
	t.Run("exact key wins", func(t *testing.T) {
		m := mapping([2]any{"Montant", "20"}, [2]any{"Montant HT", "10"})
		v, ok := resolveField(m, []string{"Montant"})
		require.True(t, ok)
		assert.Equal(t, "20", v)
	})

	t.Run("case and spacing normalized", func(t *testing.T) {
		m := mapping([2]any{" DATE ", "2024-01-05"})
		v, ok := resolveField(m, []string{"Date"})
		require.True(t, ok)
		assert.Equal(t, "2024-01-05", v)
	})

	t.Run("fuzzy word overlap across separators", func(t *testing.T) {
		m := mapping([2]any{"RAISON_SOCIAL", "ACME"})
		v, ok := resolveField(m, []string{"Raison Sociale"})
		require.True(t, ok)
		assert.Equal(t, "ACME", v)
	})

	t.Run("partial word overlap is not enough", func(t *testing.T) {
		m := mapping([2]any{"Montant", "500"})
		_, ok := resolveField(m, []string{"Montant HT"})
		assert.False(t, ok, "HT has no counterpart in the header, must not match")
	})

	t.Run("exact pass beats fuzzy pass regardless of spelling order", func(t *testing.T) {
		// "Montant TVA" would fuzzy-match the first spelling, but the
		// second spelling matches a key exactly: exact wins.
		m := mapping([2]any{"Montant TVA extra", "fuzzy"}, [2]any{"TVA", "exact"})
		v, ok := resolveField(m, []string{"Montant TVA", "TVA"})
		require.True(t, ok)
		assert.Equal(t, "exact", v)
	})

	t.Run("ties resolve to first header in row order", func(t *testing.T) {
		first := mapping([2]any{"Montant TVA 1", "a"}, [2]any{"Montant TVA 2", "b"})
		v, ok := resolveField(first, []string{"Montant TVA"})
		require.True(t, ok)
		assert.Equal(t, "a", v)

		reversed := mapping([2]any{"Montant TVA 2", "b"}, [2]any{"Montant TVA 1", "a"})
		v, ok = resolveField(reversed, []string{"Montant TVA"})
		require.True(t, ok)
		assert.Equal(t, "b", v)
	})

	t.Run("empty cell is not a match", func(t *testing.T) {
		m := mapping([2]any{"Date", ""}, [2]any{"DATE ", "2024-01-05"})
		v, ok := resolveField(m, []string{"Date"})
		require.True(t, ok)
		assert.Equal(t, "2024-01-05", v)
	})

	t.Run("not found is distinct from empty", func(t *testing.T) {
		m := mapping([2]any{"Date", "2024-01-05"})
		v, ok := resolveField(m, []string{"TVA"})
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("duplicate label keeps first value", func(t *testing.T) {
		m := NewRowMapping()
		m.Set("Montant", "1")
		m.Set("Montant", "2")
		v, ok := resolveField(m, []string{"Montant"})
		require.True(t, ok)
		assert.Equal(t, "1", v)
		assert.Equal(t, 1, m.Len())
	})
}
