package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:      "Hostel Roster",
		Subtitle:   "Generated 2024-05-20 08:30 UTC",
		Columns:    []Column{{Header: "Name", Weight: 2}, {Header: "Department"}, {Header: "Status"}},
		Rows:       [][]string{{"Alex Thompson", "CSE", "PRESENT"}, {"Sarah Miller", "AI&DS", "ABSENT"}},
		TintColumn: 2,
		Tints:      map[string]RGB{"PRESENT": {R: 220, G: 245, B: 220}},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "Name,Department,Status\nAlex Thompson,CSE,PRESENT\nSarah Miller,AI&DS,ABSENT\n", string(out))
}

func TestCSVExporterBOM(t *testing.T) {
	out, err := (&CSVExporter{BOM: true}).Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
}

func TestRenderRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"only one"})

	_, err := NewCSVExporter().Render(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3 has 1 cells, want 3")

	_, err = NewPDFExporter().Render(table)
	require.Error(t, err)
}

func TestRenderRequiresColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Table{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	table := sampleTable()
	for i := 0; i < 80; i++ {
		table.Rows = append(table.Rows, []string{"Resident", "EEE", "ABSENT"})
	}
	out, err := NewPDFExporter().Render(table)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestColumnWidthsFollowWeights(t *testing.T) {
	widths := columnWidths([]Column{{Weight: 2}, {}, {Weight: -1}}, 100)
	require.Len(t, widths, 3)
	assert.InDelta(t, 50, widths[0], 0.001)
	assert.InDelta(t, 25, widths[1], 0.001)
	assert.InDelta(t, 25, widths[2], 0.001)
}
