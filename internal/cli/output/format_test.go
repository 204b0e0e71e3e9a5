package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: " JSON ", want: FormatJSON},
		{in: "yml", want: FormatYAML},
		{in: "csv", want: FormatCSV},
		{in: "xml", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPrinterPrint(t *testing.T) {
	data := map[string]string{"name": "Alice"}

	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, FormatJSON).Print(data))
	assert.JSONEq(t, `{"name":"Alice"}`, buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatYAML).Print(data))
	assert.Equal(t, "name: Alice\n", buf.String())

	buf.Reset()
	require.NoError(t, NewPrinter(&buf, FormatTable).Print(data))
	assert.JSONEq(t, `{"name":"Alice"}`, buf.String())

	assert.Error(t, NewPrinter(&buf, FormatCSV).Print(data))
}
