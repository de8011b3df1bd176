package export

import "fmt"

// Column is one table column. Weight sizes the column relative to the others
// in PDF output; zero counts as 1.
type Column struct {
	Header string
	Weight float64
}

// Table is ordered tabular export content.
type Table struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     [][]string

	// TintColumn selects the cell whose value picks a row background from Tints.
	// A negative value disables tinting.
	TintColumn int
	Tints      map[string]RGB
}

// RGB is a fill colour.
type RGB struct {
	R, G, B int
}

// Headers returns the column headers in order.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table requires at least one column")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(t.Columns))
		}
	}
	return nil
}

func (t Table) tint(row []string) (RGB, bool) {
	if t.TintColumn < 0 || t.TintColumn >= len(row) || len(t.Tints) == 0 {
		return RGB{}, false
	}
	c, ok := t.Tints[row[t.TintColumn]]
	return c, ok
}
