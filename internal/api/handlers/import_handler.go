// internal/api/handlers/import_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/julytbn/achats-import/internal/api/responses"
	"github.com/julytbn/achats-import/internal/core/ingestion"
	"github.com/julytbn/achats-import/internal/core/spreadsheet"
	"github.com/julytbn/achats-import/internal/core/suppliers"
	"github.com/julytbn/achats-import/internal/domain"
)

// ImportHandler exposes the achats import over HTTP.
type ImportHandler struct {
	ingest    ingestion.Service
	sheets    spreadsheet.Service
	suppliers suppliers.Service
}

// NewImportHandler creates a new import handler.
func NewImportHandler(ingest ingestion.Service, sheets spreadsheet.Service, sup suppliers.Service) *ImportHandler {
	return &ImportHandler{
		ingest:    ingest,
		sheets:    sheets,
		suppliers: sup,
	}
}

// HandleAchatsImport ingests an uploaded purchase spreadsheet.
//
// Multipart form fields:
//   - achatsFile (required): the spreadsheet (.xlsx, .xls or .csv).
//   - fournisseursFile (optional): supplier directory CSV; when present,
//     supplier names in the result are canonicalized against it.
//
// Zero extracted entries is still a 200: the frontend decides how to
// present "rien à importer" to the user.
func (h *ImportHandler) HandleAchatsImport(c *gin.Context) {
	achatsHeader, err := c.FormFile("achatsFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Fichier d'achats manquant ou invalide")
		return
	}
	achatsFile, err := achatsHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Impossible d'ouvrir le fichier d'achats")
		return
	}
	defer achatsFile.Close()

	grid, err := h.sheets.Decode(achatsFile, achatsHeader.Filename)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Impossible de lire le fichier d'achats", err.Error())
		return
	}

	result := h.ingest.Ingest(grid)

	if dirHeader, err := c.FormFile("fournisseursFile"); err == nil {
		dirFile, err := dirHeader.Open()
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Impossible d'ouvrir le fichier fournisseurs")
			return
		}
		defer dirFile.Close()

		entries, err := h.suppliers.CanonicalizeEntries(dirFile, result.Entries)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "Impossible de lire le fichier fournisseurs", err.Error())
			return
		}
		result.Entries = entries
	}

	importID := uuid.New().String()
	withTax, withoutTax := countByClass(result.Entries)

	responses.Logger().Info("import achats terminé",
		zap.String("import_id", importID),
		zap.String("fichier", achatsHeader.Filename),
		zap.Int("entries", len(result.Entries)),
		zap.Int("skipped", len(result.SkippedRows)),
	)

	responses.OK(c, gin.H{
		"import_id":         importID,
		"entries":           result.Entries,
		"skipped_rows":      result.SkippedRows,
		"with_tax_count":    withTax,
		"without_tax_count": withoutTax,
	})
}

func countByClass(entries []domain.ClassifiedEntry) (withTax, withoutTax int) {
	for _, e := range entries {
		if e.TaxClass == domain.TaxClassWithTax {
			withTax++
		} else {
			withoutTax++
		}
	}
	return withTax, withoutTax
}
