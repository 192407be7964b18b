// Package suppliers matches imported supplier names against the
// dashboard's fournisseur directory so that entries land on known
// supplier records instead of free-text spellings.
package suppliers

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/schollz/closestmatch"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/julytbn/achats-import/internal/domain"
)

// Supplier is one row of the directory export: code;classification;name.
type Supplier struct {
	Code    string
	Classif string
	Name    string
}

// Service canonicalizes the supplier names of classified entries against
// a directory file. Matching is best effort: an unmatched name passes
// through untouched and never invalidates an entry.
type Service interface {
	CanonicalizeEntries(directoryFile io.Reader, entries []domain.ClassifiedEntry) ([]domain.ClassifiedEntry, error)
}

type service struct{}

// NewService creates a new supplier-matching service.
func NewService() Service {
	return &service{}
}

var nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
var whitespaceRegex = regexp.MustCompile(`\s+`)

func normalizeName(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

func (svc *service) CanonicalizeEntries(directoryFile io.Reader, entries []domain.ClassifiedEntry) ([]domain.ClassifiedEntry, error) {
	directory, keys, err := svc.loadDirectory(directoryFile)
	if err != nil {
		return nil, fmt.Errorf("lecture du fichier fournisseurs: %w", err)
	}

	var cm *closestmatch.ClosestMatch
	if len(keys) > 0 {
		cm = closestmatch.New(keys, []int{3, 4})
	}

	out := make([]domain.ClassifiedEntry, len(entries))
	for i, entry := range entries {
		if chosen, ok := svc.match(entry.SupplierName, directory, cm); ok {
			entry.SupplierName = chosen.Name
			entry.SupplierCode = chosen.Code
		}
		out[i] = entry
	}
	return out, nil
}

// loadDirectory reads the ISO8859-1 semicolon CSV export of the supplier
// directory and indexes it by normalized name.
func (svc *service) loadDirectory(file io.Reader) (map[string][]Supplier, []string, error) {
	decoder := charmap.ISO8859_1.NewDecoder()
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	directory := make(map[string][]Supplier)
	var keys []string
	seen := make(map[string]bool)

	for _, record := range records {
		if len(record) < 3 {
			continue
		}
		code := strings.TrimSpace(record[0])
		classif := strings.TrimSpace(record[1])
		name := strings.TrimSpace(record[2])
		key := normalizeName(name)
		if key == "" {
			continue
		}
		directory[key] = append(directory[key], Supplier{Code: code, Classif: classif, Name: name})
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return directory, keys, nil
}

// match looks the name up by exact normalized key first, then by
// closest-match proximity. Among homonyms the most specific
// classification wins.
func (svc *service) match(name string, directory map[string][]Supplier, cm *closestmatch.ClosestMatch) (Supplier, bool) {
	key := normalizeName(name)
	if key == "" {
		return Supplier{}, false
	}

	if candidates, ok := directory[key]; ok && len(candidates) > 0 {
		return pickMostSpecific(candidates), true
	}

	if cm != nil {
		if found := cm.Closest(key); found != "" {
			if candidates := directory[found]; len(candidates) > 0 {
				return pickMostSpecific(candidates), true
			}
		}
	}
	return Supplier{}, false
}

func pickMostSpecific(candidates []Supplier) Supplier {
	sorted := make([]Supplier, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i].Classif) > len(sorted[j].Classif)
	})
	return sorted[0]
}
