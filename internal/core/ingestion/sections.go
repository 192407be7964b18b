package ingestion

import (
	"github.com/julytbn/achats-import/internal/domain"
)

// sectionDescriptor bounds one labeled block of the grid. colOffset and
// colCount are non-zero only for side-by-side layouts; dataEnd is
// exclusive. Two descriptors never overlap: by row range when stacked,
// by column range when side by side.
type sectionDescriptor struct {
	headerRow int
	dataStart int
	dataEnd   int
	colOffset int
	colCount  int
	class     domain.TaxClass
}

// sectionStrategy is one way of locating labeled sections in a grid.
// Strategies are tried in order and the engine commits to the first one
// that yields at least one section; returning nil means "no match" and
// hands over to the next strategy. Adding a detection scheme means
// appending to the strategy list, nothing else.
type sectionStrategy func(grid domain.Grid) []sectionDescriptor

// firstCell returns the text of a row's cell at the given column.
func firstCell(row []domain.Cell, col int) string {
	if col >= len(row) {
		return ""
	}
	return cellString(row[col])
}

// locateStackedSections scans every row's first cell for the section
// marker phrases. The row below a marker is that section's header row;
// its data runs until the other section's marker row or the end of the
// grid.
func (s *service) locateStackedSections(grid domain.Grid) []sectionDescriptor {
	withRow, withoutRow := -1, -1
	for i, row := range grid {
		cell := firstCell(row, 0)
		switch {
		case withRow < 0 && matchesMarker(cell, s.voc.SectionMarkers.WithTax):
			withRow = i
		case withoutRow < 0 && matchesMarker(cell, s.voc.SectionMarkers.WithoutTax):
			withoutRow = i
		}
	}

	build := func(markerRow, otherRow int, class domain.TaxClass) (sectionDescriptor, bool) {
		headerRow := markerRow + 1
		if headerRow >= len(grid) {
			return sectionDescriptor{}, false
		}
		dataEnd := len(grid)
		if otherRow > markerRow {
			dataEnd = otherRow
		}
		return sectionDescriptor{
			headerRow: headerRow,
			dataStart: headerRow + 1,
			dataEnd:   dataEnd,
			class:     class,
		}, true
	}

	var sections []sectionDescriptor
	if withRow >= 0 {
		if sec, ok := build(withRow, withoutRow, domain.TaxClassWithTax); ok {
			sections = append(sections, sec)
		}
	}
	if withoutRow >= 0 {
		if sec, ok := build(withoutRow, withRow, domain.TaxClassWithoutTax); ok {
			sections = append(sections, sec)
		}
	}
	// Emit in grid order so ingestion output is stable.
	if len(sections) == 2 && sections[0].headerRow > sections[1].headerRow {
		sections[0], sections[1] = sections[1], sections[0]
	}
	return sections
}

// locateSideBySideSections scans the first grid row, column by column,
// for the same marker phrases. A matching column becomes that section's
// column offset; the header row is fixed at row 1 and the column count is
// the run of non-empty header cells from the offset, stopping before the
// other section's marker column.
func (s *service) locateSideBySideSections(grid domain.Grid) []sectionDescriptor {
	if len(grid) < 2 {
		return nil
	}
	withCol, withoutCol := -1, -1
	for j := range grid[0] {
		cell := cellString(grid[0][j])
		switch {
		case withCol < 0 && matchesMarker(cell, s.voc.SectionMarkers.WithTax):
			withCol = j
		case withoutCol < 0 && matchesMarker(cell, s.voc.SectionMarkers.WithoutTax):
			withoutCol = j
		}
	}

	header := grid[1]
	countColumns := func(offset, otherCol int) int {
		count := 0
		for j := offset; j < len(header); j++ {
			if j == otherCol || cellEmpty(header[j]) {
				break
			}
			count++
		}
		return count
	}

	build := func(offset, otherCol int, class domain.TaxClass) (sectionDescriptor, bool) {
		count := countColumns(offset, otherCol)
		if count == 0 {
			return sectionDescriptor{}, false
		}
		return sectionDescriptor{
			headerRow: 1,
			dataStart: 2,
			dataEnd:   len(grid),
			colOffset: offset,
			colCount:  count,
			class:     class,
		}, true
	}

	var sections []sectionDescriptor
	if withCol >= 0 {
		if sec, ok := build(withCol, withoutCol, domain.TaxClassWithTax); ok {
			sections = append(sections, sec)
		}
	}
	if withoutCol >= 0 {
		if sec, ok := build(withoutCol, withCol, domain.TaxClassWithoutTax); ok {
			sections = append(sections, sec)
		}
	}
	if len(sections) == 2 && sections[0].colOffset > sections[1].colOffset {
		sections[0], sections[1] = sections[1], sections[0]
	}
	return sections
}

// indexedRow carries a row mapping together with the grid row it came
// from, so skip diagnostics can point at the original line.
type indexedRow struct {
	index int
	row   *RowMapping
}

// extractRows builds one RowMapping per data row of a section, slicing
// the row to the section's columns for side-by-side layouts. Rows whose
// first relevant cell is empty, or whose mapping comes out empty, are
// not financial rows and are skipped without a diagnostic.
func (s *service) extractRows(grid domain.Grid, sec sectionDescriptor) []indexedRow {
	if sec.headerRow >= len(grid) {
		return nil
	}
	header := grid[sec.headerRow]
	labels := header
	if sec.colOffset > 0 || sec.colCount > 0 {
		if sec.colOffset >= len(header) {
			return nil
		}
		end := sec.colOffset + sec.colCount
		if end > len(header) {
			end = len(header)
		}
		labels = header[sec.colOffset:end]
	}

	var rows []indexedRow
	for i := sec.dataStart; i < sec.dataEnd && i < len(grid); i++ {
		row := grid[i]
		if sec.colOffset >= len(row) || cellEmpty(row[sec.colOffset]) {
			continue
		}
		m := NewRowMapping()
		for k, labelCell := range labels {
			label := cellString(labelCell)
			if foldText(label) == "" {
				continue
			}
			var value domain.Cell
			if idx := sec.colOffset + k; idx < len(row) {
				value = row[idx]
			}
			m.Set(label, value)
		}
		if m.Len() == 0 {
			continue
		}
		if v, _ := m.Get(m.Labels()[0]); cellEmpty(v) {
			continue
		}
		rows = append(rows, indexedRow{index: i, row: m})
	}
	return rows
}

// classifiedRow is the fallback classifier's output: a generic row plus
// the tax class inferred from which fields it carries.
type classifiedRow struct {
	indexedRow
	class domain.TaxClass
}

// classifyGenericRows is the degraded-confidence path taken when no
// labeled section was found anywhere. Row 0 is assumed to be the header
// and every following row becomes one full-width mapping. A row with no
// resolvable amount at all is not a financial row and is dropped; a row
// whose tax field resolves is WITH_TAX, anything else WITHOUT_TAX.
func (s *service) classifyGenericRows(grid domain.Grid) []classifiedRow {
	if len(grid) < 2 {
		return nil
	}
	header := grid[0]

	var out []classifiedRow
	for i := 1; i < len(grid); i++ {
		row := grid[i]
		empty := true
		for _, c := range row {
			if !cellEmpty(c) {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		m := NewRowMapping()
		for j, labelCell := range header {
			label := cellString(labelCell)
			if foldText(label) == "" {
				continue
			}
			var value domain.Cell
			if j < len(row) {
				value = row[j]
			}
			m.Set(label, value)
		}
		if m.Len() == 0 {
			continue
		}
		_, hasPre := s.resolve(m, FieldAmountPreTax)
		_, hasTax := s.resolve(m, FieldAmountTax)
		_, hasTotal := s.resolve(m, FieldAmountTotal)
		if !hasPre && !hasTax && !hasTotal {
			continue
		}
		class := domain.TaxClassWithoutTax
		if hasTax {
			class = domain.TaxClassWithTax
		}
		out = append(out, classifiedRow{indexedRow: indexedRow{index: i, row: m}, class: class})
	}
	return out
}
