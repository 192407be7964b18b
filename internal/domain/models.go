// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cell is one raw spreadsheet cell as delivered by the decoding layer:
// a string, a float64, a time.Time, or nil for an empty cell.
type Cell = any

// Grid holds the decoded rows and columns of a tabular document, row-major
// and possibly ragged. It is read-only input for the ingestion engine.
type Grid [][]Cell

// TaxClass separates purchases that carry a deductible TVA amount from
// purchases recorded without any tax component.
type TaxClass string

const (
	TaxClassWithTax    TaxClass = "WITH_TAX"
	TaxClassWithoutTax TaxClass = "WITHOUT_TAX"
)

// ClassifiedEntry is one validated, normalized purchase line.
// When both AmountPreTax and AmountTax are present, AmountTotal is their sum.
type ClassifiedEntry struct {
	Date           time.Time        `json:"date"`
	SupplierName   string           `json:"supplier_name"`
	SupplierCode   string           `json:"supplier_code,omitempty"`
	AmountPreTax   decimal.Decimal  `json:"amount_pre_tax"`
	AmountTax      decimal.Decimal  `json:"amount_tax"`
	AmountTotal    decimal.Decimal  `json:"amount_total"`
	TaxRatePercent *decimal.Decimal `json:"tax_rate_percent,omitempty"`
	TaxClass       TaxClass         `json:"tax_class"`
}

// SkippedRow records why one data row was rejected during ingestion.
// RowIndex is the 0-based index of the row in the uploaded grid.
type SkippedRow struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}

// IngestionResult aggregates everything one ingestion call produced.
// A result with zero entries is not an error; the caller decides what
// "nothing importable" means for the end user.
type IngestionResult struct {
	Entries     []ClassifiedEntry `json:"entries"`
	SkippedRows []SkippedRow      `json:"skipped_rows"`
}
