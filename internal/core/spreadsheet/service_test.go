package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCSV(t *testing.T) {
	svc := NewService()

	// ISO8859-1 payload: 0xC9 is É.
	raw := []byte("Date;Raison Sociale;Montant\n05/01/2024;ACM\xc9;1 234,50\n")
	grid, err := svc.Decode(bytes.NewReader(raw), "achats.csv")
	require.NoError(t, err)

	require.Len(t, grid, 2)
	assert.Equal(t, "Raison Sociale", grid[0][1])
	assert.Equal(t, "ACMÉ", grid[1][1])
	assert.Equal(t, "1 234,50", grid[1][2])
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	svc := NewService()

	raw := []byte("Date;Fournisseur;Montant\n05/01/2024;BETA\n")
	grid, err := svc.Decode(bytes.NewReader(raw), "export.csv")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Len(t, grid[1], 2)
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	svc := NewService()

	_, err := svc.Decode(strings.NewReader("n'importe quoi"), "achats.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".pdf")
}

func TestDecodeXLSXRejectsGarbage(t *testing.T) {
	svc := NewService()

	_, err := svc.Decode(strings.NewReader("pas un classeur"), "achats.xlsx")
	assert.Error(t, err)
}
