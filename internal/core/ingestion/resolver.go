package ingestion

import (
	"fmt"
	"strings"

	"github.com/julytbn/achats-import/internal/domain"
)

// RowMapping is one data row represented as insertion-ordered
// header-label → raw-cell pairs. Headers keep the exact spelling found in
// the sheet; interpretation happens later, in the alias resolver, which
// is the single seam between free-form headers and typed fields.
type RowMapping struct {
	labels []string
	values map[string]domain.Cell
}

// NewRowMapping returns an empty mapping.
func NewRowMapping() *RowMapping {
	return &RowMapping{values: make(map[string]domain.Cell)}
}

// Set records a label/value pair. The first occurrence of a duplicated
// label wins, matching the "first in row order" rule of the resolver.
func (m *RowMapping) Set(label string, value domain.Cell) {
	if _, exists := m.values[label]; exists {
		return
	}
	m.labels = append(m.labels, label)
	m.values[label] = value
}

// Get returns the raw cell stored under the exact label.
func (m *RowMapping) Get(label string) (domain.Cell, bool) {
	v, ok := m.values[label]
	return v, ok
}

// Labels returns the header labels in insertion order.
func (m *RowMapping) Labels() []string {
	return m.labels
}

// Len reports how many columns the mapping holds.
func (m *RowMapping) Len() int {
	return len(m.labels)
}

// cellEmpty reports whether a raw cell holds no usable value.
func cellEmpty(c domain.Cell) bool {
	if c == nil {
		return true
	}
	if s, ok := c.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// cellString renders a raw cell as text.
func cellString(c domain.Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// normalizeLabel lowercases and collapses the spacing of a header label
// for the case/space-insensitive pass.
func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// splitWords cuts a label into words on whitespace, underscores and
// hyphens, lowercased. "RAISON_SOCIAL" and "Raison Sociale" both split
// into two comparable words.
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '_' || r == '-'
	})
}

// wordsCover reports whether every candidate word matches at least one
// header word, where matching means one is a substring of the other.
func wordsCover(candidate, header []string) bool {
	if len(candidate) == 0 || len(header) == 0 {
		return false
	}
	for _, cw := range candidate {
		matched := false
		for _, hw := range header {
			if strings.Contains(hw, cw) || strings.Contains(cw, hw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// resolveField finds the best cell for a logical field given its accepted
// spellings, in three passes of decreasing strictness: exact key, then
// case/space-normalized equality, then fuzzy word overlap. Each pass runs
// over all spellings in listed order and scans headers in row order, so
// the outcome is deterministic even when several headers could match.
// Returns the first non-empty value, or false when nothing matched; a
// header that exists but holds an empty cell does not count as a match.
func resolveField(row *RowMapping, spellings []string) (domain.Cell, bool) {
	for _, s := range spellings {
		if v, ok := row.Get(s); ok && !cellEmpty(v) {
			return v, true
		}
	}
	for _, s := range spellings {
		ns := normalizeLabel(s)
		if ns == "" {
			continue
		}
		for _, label := range row.Labels() {
			if normalizeLabel(label) == ns {
				if v, _ := row.Get(label); !cellEmpty(v) {
					return v, true
				}
			}
		}
	}
	for _, s := range spellings {
		cw := splitWords(s)
		if len(cw) == 0 {
			continue
		}
		for _, label := range row.Labels() {
			if wordsCover(cw, splitWords(label)) {
				if v, _ := row.Get(label); !cellEmpty(v) {
					return v, true
				}
			}
		}
	}
	return nil, false
}

// resolve is resolveField wired to the service vocabulary.
func (s *service) resolve(row *RowMapping, field Field) (domain.Cell, bool) {
	return resolveField(row, s.voc.FieldAliases[field])
}
