package ingestion

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/julytbn/achats-import/internal/domain"
)

// sentinelSupplier is the placeholder a row gets when no supplier column
// resolved. The validator rejects it, so it only ever shows up inside a
// skip reason, never in an emitted entry.
const sentinelSupplier = "unnamed"

var percent = decimal.NewFromInt(100)

// convertRow resolves and normalizes one row mapping into a classified
// entry, or a skip diagnostic when the row fails validation. A malformed
// row never aborts the ingestion call; this is the boundary no failure
// crosses.
func (s *service) convertRow(ir indexedRow, class domain.TaxClass) (domain.ClassifiedEntry, *domain.SkippedRow) {
	row := ir.row

	supplier := sentinelSupplier
	if c, ok := s.resolve(row, FieldSupplierName); ok {
		supplier = strings.TrimSpace(cellString(c))
	}

	date := defaultImportDate(s.now)
	if c, ok := s.resolve(row, FieldDate); ok {
		date = normalizeDate(c, s.now)
	}

	var preTax, tax, total decimal.Decimal
	if c, ok := s.resolve(row, FieldAmountPreTax); ok {
		preTax = normalizeAmount(c)
	}
	if c, ok := s.resolve(row, FieldAmountTax); ok {
		tax = normalizeAmount(c)
	}
	if c, ok := s.resolve(row, FieldAmountTotal); ok {
		total = normalizeAmount(c)
	}
	if total.IsZero() && (!preTax.IsZero() || !tax.IsZero()) {
		total = preTax.Add(tax)
	}

	var reasons []string
	if !preTax.IsPositive() && !tax.IsPositive() && !total.IsPositive() {
		reasons = append(reasons, "aucun montant positif (HT, TVA et TTC nuls ou illisibles)")
	}
	if supplier == "" || supplier == sentinelSupplier {
		reasons = append(reasons, "nom du fournisseur manquant")
	}
	if len(reasons) > 0 {
		return domain.ClassifiedEntry{}, &domain.SkippedRow{
			RowIndex: ir.index,
			Reason:   strings.Join(reasons, "; "),
		}
	}

	entry := domain.ClassifiedEntry{
		Date:         date,
		SupplierName: supplier,
		AmountPreTax: preTax,
		AmountTax:    tax,
		AmountTotal:  total,
		TaxClass:     class,
	}
	if tax.IsPositive() && preTax.IsPositive() {
		rate := tax.Div(preTax).Mul(percent)
		entry.TaxRatePercent = &rate
	}
	return entry, nil
}
