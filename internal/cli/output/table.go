package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/oleg578/csvrecord"
)

// TableRenderer is implemented by types that can render themselves as a table.
type TableRenderer interface {
	// Headers returns the column headers for the table.
	Headers() []string
	// Rows returns the data rows for the table.
	Rows() [][]string
}

// PrintTable writes data as a formatted table to the writer.
func PrintTable(w io.Writer, data TableRenderer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.Headers())

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, row := range data.Rows() {
		table.Append(row)
	}

	table.Render()
	return nil
}

// RecordTable collects csvrecord records for table output. Columns come from
// the header when one is given, otherwise from the widest positional record.
type RecordTable struct {
	header []string
	width  int
	rows   [][]string
}

// NewRecordTable creates a RecordTable. A nil header numbers the columns from 1.
func NewRecordTable(header []string) *RecordTable {
	return &RecordTable{header: header, width: len(header), rows: make([][]string, 0)}
}

// Add appends rec. Keyed records are laid out by header name when a header is set.
func (t *RecordTable) Add(rec csvrecord.Record) {
	if t.header != nil && rec.Kind() == csvrecord.Keyed {
		row := make([]string, len(t.header))
		for i, key := range t.header {
			row[i], _ = rec.Get(key)
		}
		t.rows = append(t.rows, row)
		return
	}
	row := append([]string(nil), rec.Fields()...)
	if len(row) > t.width {
		t.width = len(row)
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows added.
func (t *RecordTable) Len() int {
	return len(t.rows)
}

// Headers implements TableRenderer.
func (t *RecordTable) Headers() []string {
	if t.header != nil {
		return t.header
	}
	headers := make([]string, t.width)
	for i := range headers {
		headers[i] = strconv.Itoa(i + 1)
	}
	return headers
}

// Rows implements TableRenderer. Short rows are padded to the table width.
func (t *RecordTable) Rows() [][]string {
	width := len(t.Headers())
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		rows[i] = row
	}
	return rows
}

// SimpleTable prints a simple key-value table.
func SimpleTable(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, pair := range pairs {
		table.Append([]string{pair[0], pair[1]})
	}

	table.Render()
	return nil
}
