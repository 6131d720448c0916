package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "My classes",
		Headers: []string{"Subject", "Section", "URL"},
		Rows: [][]string{
			{"CC104", "IST 1 A", "/classes/c1/m1/s1"},
			{"CC104", "HN 1 A", "/classes/c1/m2/s1"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, "Subject,Section,URL\nCC104,IST 1 A,/classes/c1/m1/s1\nCC104,HN 1 A,/classes/c1/m2/s1\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	data := sampleDataset()
	data.Rows = append(data.Rows, []string{"only-one"})

	_, err := NewCSVExporter().Render(data)
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestColumnWidthsFillPage(t *testing.T) {
	widths := columnWidths(sampleDataset())

	var total float64
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pageBodyWidth, total, 0.001)
	assert.Greater(t, widths[2], widths[0])
}

func TestForFormat(t *testing.T) {
	csvRenderer, err := ForFormat(FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "csv", csvRenderer.Extension())

	pdfRenderer, err := ForFormat(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfRenderer.ContentType())

	_, err = ForFormat("xlsx")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
