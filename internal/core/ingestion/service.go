// Package ingestion is the heuristic engine that turns a loosely
// structured spreadsheet grid into classified purchase entries: achats
// avec TVA and achats sans TVA. It locates labeled sections (stacked or
// side by side), resolves free-form headers against a configured
// vocabulary, normalizes amounts and dates, and falls back to per-row
// classification when the expected structure is absent.
//
// The engine is purely computational: no I/O, no state between calls, so
// independent grids may be ingested concurrently without locking.
package ingestion

import (
	"time"

	"github.com/julytbn/achats-import/internal/domain"
)

// Service ingests one cell grid per call. It always returns a result:
// an unusable grid yields zero entries, never an error.
type Service interface {
	Ingest(grid domain.Grid) domain.IngestionResult
}

type service struct {
	voc        Vocabulary
	strategies []sectionStrategy
	now        func() time.Time
}

// NewService creates an ingestion engine over the given vocabulary.
func NewService(voc Vocabulary) Service {
	s := &service{voc: voc, now: time.Now}
	s.strategies = []sectionStrategy{
		s.locateStackedSections,
		s.locateSideBySideSections,
	}
	return s
}

func (s *service) Ingest(grid domain.Grid) domain.IngestionResult {
	result := domain.IngestionResult{
		Entries:     []domain.ClassifiedEntry{},
		SkippedRows: []domain.SkippedRow{},
	}
	if len(grid) == 0 {
		return result
	}

	var sections []sectionDescriptor
	for _, locate := range s.strategies {
		if sections = locate(grid); len(sections) > 0 {
			break
		}
	}

	if len(sections) > 0 {
		for _, sec := range sections {
			for _, ir := range s.extractRows(grid, sec) {
				s.appendRow(&result, ir, sec.class)
			}
		}
		return result
	}

	for _, cr := range s.classifyGenericRows(grid) {
		s.appendRow(&result, cr.indexedRow, cr.class)
	}
	return result
}

// appendRow funnels every processed row into exactly one of the two
// result lists, which is what keeps entries + skipped equal to the
// number of rows processed.
func (s *service) appendRow(result *domain.IngestionResult, ir indexedRow, class domain.TaxClass) {
	entry, skipped := s.convertRow(ir, class)
	if skipped != nil {
		result.SkippedRows = append(result.SkippedRows, *skipped)
		return
	}
	result.Entries = append(result.Entries, entry)
}
