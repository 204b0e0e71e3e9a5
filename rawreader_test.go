package csvrecord

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawReaderReadRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		comma  byte
		quote  byte
		escape byte
		want   [][]string
	}{
		{
			name:  "basicRecords",
			input: "one,two\nthree,four\n",
			want: [][]string{
				{"one", "two"},
				{"three", "four"},
			},
		},
		{
			name:  "finalRecordWithoutTerminator",
			input: "alpha,beta,gamma",
			want: [][]string{
				{"alpha", "beta", "gamma"},
			},
		},
		{
			name:  "windowsLineEndings",
			input: "a,b\r\nc,d\r\n",
			want: [][]string{
				{"a", "b"},
				{"c", "d"},
			},
		},
		{
			name:  "quotedComma",
			input: "a,\"b,b\",c\n",
			want: [][]string{
				{"a", "b,b", "c"},
			},
		},
		{
			name:  "escapedQuote",
			input: "a,\"b\"\"c\",d\n",
			want: [][]string{
				{"a", "b\"c", "d"},
			},
		},
		{
			name:  "embeddedNewline",
			input: "a,\"b\nc\",d\n",
			want: [][]string{
				{"a", "b\nc", "d"},
			},
		},
		{
			name:  "emptyFields",
			input: ",,\n",
			want: [][]string{
				{"", "", ""},
			},
		},
		{
			name:  "blankLine",
			input: "a\n\nb\n",
			want: [][]string{
				{"a"},
				{""},
				{"b"},
			},
		},
		{
			name:  "customComma",
			input: "left;right\nup;down\n",
			comma: ';',
			want: [][]string{
				{"left", "right"},
				{"up", "down"},
			},
		},
		{
			name:  "customQuote",
			input: "alpha,'beta''gamma',delta\n",
			quote: '\'',
			want: [][]string{
				{"alpha", "beta'gamma", "delta"},
			},
		},
		{
			name:   "escapeBeforeQuote",
			input:  "a,\"say \\\"hi\\\"\",c\n",
			escape: '\\',
			want: [][]string{
				{"a", "say \"hi\"", "c"},
			},
		},
		{
			name:   "escapeBeforeEscape",
			input:  "\"C:\\\\temp\\\\\",x\n",
			escape: '\\',
			want: [][]string{
				{"C:\\temp\\", "x"},
			},
		},
		{
			name:   "escapeBeforeOtherIsLiteral",
			input:  "\"a\\nb\"\n",
			escape: '\\',
			want: [][]string{
				{"a\\nb"},
			},
		},
		{
			name:   "escapeStillAllowsDoubling",
			input:  "\"x\"\"y\"\n",
			escape: '\\',
			want: [][]string{
				{"x\"y"},
			},
		},
		{
			name:   "escapeOutsideQuotesIsLiteral",
			input:  "a\\b,c\n",
			escape: '\\',
			want: [][]string{
				{"a\\b", "c"},
			},
		},
		{
			name:  "quotedEOF",
			input: "\"quoted\"",
			want: [][]string{
				{"quoted"},
			},
		},
		{
			name:  "carriageReturnEOF",
			input: "one\rtwo",
			want: [][]string{
				{"one"},
				{"two"},
			},
		},
		{
			name:  "carriageReturnBeforeQuotedField",
			input: "x\r\"q\"\r",
			want: [][]string{
				{"x"},
				{"q"},
			},
		},
		{
			name:  "mixedLineEndings",
			input: "a\r\"b,c\"\r\n\"d\"\ne\r",
			want: [][]string{
				{"a"},
				{"b,c"},
				{"d"},
				{"e"},
			},
		},
		{
			name:  "carriageReturnThenQuotedFieldWithSeparator",
			input: "1,x\r\"2\",\"y\"\r",
			want: [][]string{
				{"1", "x"},
				{"2", "y"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewRawReader(strings.NewReader(tc.input))
			if tc.comma != 0 {
				r.Comma = tc.comma
			}
			if tc.quote != 0 {
				r.Quote = tc.quote
			}
			r.Escape = tc.escape

			var records [][]string
			for {
				rec, err := r.Read()
				if errors.Is(err, io.EOF) {
					break
				}
				require.NoError(t, err)
				records = append(records, rec)
			}
			assert.Equal(t, tc.want, records)
		})
	}
}

func TestRawReaderFreshRecords(t *testing.T) {
	t.Parallel()

	r := NewRawReader(strings.NewReader("alpha\nbeta\n"))

	first, err := r.Read()
	require.NoError(t, err)
	second, err := r.Read()
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotSame(t, &first[0], &second[0])
	assert.Equal(t, "alpha", first[0])
	assert.Equal(t, "beta", second[0])

	_, err = r.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRawReaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		err    error
		line   int
		column int
	}{
		{
			name:   "bareQuote",
			input:  "a\"b,c\n",
			err:    ErrBareQuote,
			line:   1,
			column: 2,
		},
		{
			name:   "unterminatedQuoteSameLine",
			input:  "\"value",
			err:    ErrUnterminatedQuote,
			line:   1,
			column: 7,
		},
		{
			name:   "unterminatedQuoteMultiLine",
			input:  "\"alpha\nbeta",
			err:    ErrUnterminatedQuote,
			line:   2,
			column: 5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewRawReader(strings.NewReader(tc.input))
			_, err := r.Read()
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.ErrorIs(t, perr.Err, tc.err)
			assert.Equal(t, tc.line, perr.Line)
			assert.Equal(t, tc.column, perr.Column)
		})
	}
}

func TestRawReaderReadAll(t *testing.T) {
	t.Parallel()

	const input = "a,b,c\n\"d\",\"e,f\",\"g\"\"h\"\nlast,row,\n"
	want := [][]string{
		{"a", "b", "c"},
		{"d", "e,f", "g\"h"},
		{"last", "row", ""},
	}

	records, err := NewRawReader(strings.NewReader(input)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, want, records)
}

func TestRawReaderReadAllError(t *testing.T) {
	t.Parallel()

	records, err := NewRawReader(strings.NewReader("a,\"b\n")).ReadAll()
	assert.Nil(t, records)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, perr.Err, ErrUnterminatedQuote)
}

func TestRawReaderInputOffset(t *testing.T) {
	t.Parallel()

	const input = "id,name\r\n1,\"Al,ice\"\n2,Bob"
	r := NewRawReader(strings.NewReader(input))
	assert.Equal(t, int64(0), r.InputOffset())

	_, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(len("id,name\r\n")), r.InputOffset())
	assert.Equal(t, 2, r.Line())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(len("id,name\r\n1,\"Al,ice\"\n")), r.InputOffset())

	_, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(len(input)), r.InputOffset())
}

func TestRawReaderInputOffsetAcrossBuffers(t *testing.T) {
	t.Parallel()

	line := strings.Repeat("x", defaultBufferSize/3) + "," + strings.Repeat("y", defaultBufferSize/2) + "\n"
	input := strings.Repeat(line, 5)
	r := NewRawReader(strings.NewReader(input))

	for i := 1; i <= 5; i++ {
		_, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, int64(i*len(line)), r.InputOffset(), "after record %d", i)
	}
}

func TestRawReaderCarriageReturnAcrossBuffers(t *testing.T) {
	t.Parallel()

	const pair = "x\r\"q\"\r"
	const pairs = 400
	input := strings.Repeat(pair, pairs)
	require.Greater(t, len(input), defaultBufferSize)

	r := NewRawReader(strings.NewReader(input))
	for i := 1; i <= 2*pairs; i++ {
		rec, err := r.Read()
		require.NoError(t, err, "record %d", i)

		p := int64((i - 1) / 2 * len(pair))
		if i%2 == 1 {
			require.Equal(t, []string{"x"}, rec, "record %d", i)
			require.Equal(t, p+2, r.InputOffset(), "record %d", i)
		} else {
			require.Equal(t, []string{"q"}, rec, "record %d", i)
			require.Equal(t, p+int64(len(pair)), r.InputOffset(), "record %d", i)
		}
	}
	_, err := r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestRawReaderMixedLineEndingsAcrossBuffers(t *testing.T) {
	t.Parallel()

	chunk := "a\r\"b,c\"\r\n\"d\"\ne\r"
	input := strings.Repeat(chunk, defaultBufferSize/len(chunk)*3)

	got, err := NewRawReader(strings.NewReader(input)).ReadAll()
	require.NoError(t, err)

	var want [][]string
	for i := 0; i < defaultBufferSize/len(chunk)*3; i++ {
		want = append(want, []string{"a"}, []string{"b,c"}, []string{"d"}, []string{"e"})
	}
	assert.Equal(t, want, got)
}

func TestRawReaderReset(t *testing.T) {
	t.Parallel()

	src := strings.NewReader("h1,h2\na,b\nc,d\n")
	r := NewRawReader(src)

	_, err := r.Read()
	require.NoError(t, err)
	start := r.InputOffset()

	rest, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rest, 2)

	_, err = src.Seek(start, io.SeekStart)
	require.NoError(t, err)
	r.Reset(src, start, 2)
	assert.Equal(t, start, r.InputOffset())
	assert.Equal(t, 2, r.Line())

	again, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, rest, again)
}

func TestParseErrorMethods(t *testing.T) {
	t.Parallel()

	err := &ParseError{Line: 3, Column: 7, Err: ErrBareQuote}
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "column 7")
	assert.ErrorIs(t, err, ErrBareQuote)
	assert.ErrorIs(t, err.Unwrap(), ErrBareQuote)

	var nilErr *ParseError
	assert.Empty(t, nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestNewRawReaderNilPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewRawReader(nil) })
}
