package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Field names the logical columns the resolver can target.
type Field string

const (
	FieldSupplierName Field = "SUPPLIER_NAME"
	FieldAmountPreTax Field = "AMOUNT_PRE_TAX"
	FieldAmountTax    Field = "AMOUNT_TAX"
	FieldAmountTotal  Field = "AMOUNT_TOTAL"
	FieldDate         Field = "DATE"
)

// SectionMarkers lists the phrases that label each tax-class section.
// A cell marks a section when every word of one phrase appears in the
// cell, case- and accent-insensitively.
type SectionMarkers struct {
	WithTax    []string `yaml:"with_tax"`
	WithoutTax []string `yaml:"without_tax"`
}

// Vocabulary is the static configuration of the engine: the accepted
// header spellings per logical field and the section marker phrases.
// Changing it widens or narrows recognition, never the algorithm.
type Vocabulary struct {
	FieldAliases   map[Field][]string `yaml:"field_aliases"`
	SectionMarkers SectionMarkers     `yaml:"section_markers"`
}

// DefaultVocabulary covers the header spellings seen in the dashboard's
// uploads so far. Exact spellings come first in each list; the generic
// ones ("Montant", "Total") stay last so they only win when nothing more
// specific matched.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		FieldAliases: map[Field][]string{
			FieldSupplierName: {"Raison Sociale", "RAISON_SOCIAL", "Fournisseur", "Nom", "Supplier"},
			FieldAmountPreTax: {"Montant HT", "MONTANT_HT", "HT", "Hors Taxe", "Montant"},
			FieldAmountTax:    {"Montant TVA", "MONTANT_TVA", "TVA"},
			FieldAmountTotal:  {"Montant TTC", "MONTANT_TTC", "TTC", "Total"},
			FieldDate:         {"Date", "DATE", "Date Facture", "Date Achat"},
		},
		SectionMarkers: SectionMarkers{
			WithTax:    []string{"ACHATS AVEC TVA", "AVEC TVA"},
			WithoutTax: []string{"ACHATS SANS TVA", "SANS TVA", "HORS TVA"},
		},
	}
}

// LoadVocabularyFile reads a YAML vocabulary file and merges it over the
// defaults: a field listed in the file replaces that field's aliases, an
// absent field keeps the default list, same for the marker lists.
func LoadVocabularyFile(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("lecture du fichier de vocabulaire: %w", err)
	}
	var overrides Vocabulary
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Vocabulary{}, fmt.Errorf("vocabulaire YAML invalide: %w", err)
	}
	voc := DefaultVocabulary()
	for field, aliases := range overrides.FieldAliases {
		if len(aliases) > 0 {
			voc.FieldAliases[field] = aliases
		}
	}
	if len(overrides.SectionMarkers.WithTax) > 0 {
		voc.SectionMarkers.WithTax = overrides.SectionMarkers.WithTax
	}
	if len(overrides.SectionMarkers.WithoutTax) > 0 {
		voc.SectionMarkers.WithoutTax = overrides.SectionMarkers.WithoutTax
	}
	return voc, nil
}

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

// foldText uppercases, strips accents and collapses everything that is
// not alphanumeric to single spaces, so "Achats avec TVA " and
// "ACHATS AVEC TVA" compare equal.
func foldText(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// matchesMarker reports whether a cell carries one of the marker phrases:
// every word of the phrase must appear as a substring of the folded cell.
func matchesMarker(cell string, phrases []string) bool {
	folded := foldText(cell)
	if folded == "" {
		return false
	}
	for _, phrase := range phrases {
		words := strings.Fields(foldText(phrase))
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(folded, w) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
