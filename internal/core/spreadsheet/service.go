// Package spreadsheet decodes uploaded tabular files (.xlsx, .xls, .csv)
// into the neutral cell grid the ingestion engine consumes. Decoding is
// deliberately dumb: cells come out as strings and all interpretation is
// left to the engine's normalizers.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/julytbn/achats-import/internal/domain"
)

// Service turns an uploaded file into a cell grid.
type Service interface {
	Decode(file io.Reader, filename string) (domain.Grid, error)
}

type service struct{}

// NewService creates a new decoding service.
func NewService() Service {
	return &service{}
}

func (svc *service) Decode(file io.Reader, filename string) (domain.Grid, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return svc.decodeXLSX(file)
	case ".xls":
		return svc.decodeXLS(file)
	case ".csv":
		return svc.decodeCSV(file)
	default:
		return nil, fmt.Errorf("format de fichier non supporté: %s", ext)
	}
}

func (svc *service) decodeXLSX(file io.Reader) (domain.Grid, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("classeur sans feuille")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return stringsToGrid(rows), nil
}

// decodeXLS reads a legacy Excel workbook. Banks and accounting tools
// still export "faux" .xls files that are really xlsx, so an unreadable
// BIFF stream gets one retry through the xlsx path before failing.
func (svc *service) decodeXLS(file io.Reader) (domain.Grid, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		if grid, errX := svc.decodeXLSX(bytes.NewReader(data)); errX == nil {
			return grid, nil
		}
		return nil, err
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("classeur sans feuille")
	}
	sheet := sheets[0]

	var grid domain.Grid
	for _, row := range sheet.GetRows() {
		var cells []domain.Cell
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// decodeCSV reads a semicolon-separated export. The dashboard's sources
// produce ISO8859-1 files, so input goes through the charmap decoder the
// same way the rest of the pipeline reads accounting CSVs.
func (svc *service) decodeCSV(file io.Reader) (domain.Grid, error) {
	decoder := charmap.ISO8859_1.NewDecoder()
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return stringsToGrid(records), nil
}

func stringsToGrid(rows [][]string) domain.Grid {
	grid := make(domain.Grid, len(rows))
	for i, row := range rows {
		cells := make([]domain.Cell, len(row))
		for j, v := range row {
			cells[j] = v
		}
		grid[i] = cells
	}
	return grid
}
