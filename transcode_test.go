package csvrecord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEncoding(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"UTF-8", "utf-8", "utf8", "ISO-8859-1", "latin1", "windows-1252", "UTF-16LE", "Shift_JIS"} {
		assert.True(t, EncodingSupported(name), name)
	}
	for _, name := range []string{"", "  ", "not-an-encoding"} {
		assert.False(t, EncodingSupported(name), name)
		_, err := LookupEncoding(name)
		assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	}
}

func TestTranscode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    string
		from, to string
		want     string
	}{
		{name: "identity", value: "M\xe9lanie", from: "UTF-8", to: "utf-8", want: "M\xe9lanie"},
		{name: "latin1ToUTF8", value: "M\xe9lanie", from: "ISO-8859-1", to: "UTF-8", want: "Mélanie"},
		{name: "utf8ToLatin1", value: "Mélanie", from: "UTF-8", to: "ISO-8859-1", want: "M\xe9lanie"},
		{name: "windows1252Euro", value: "\x80", from: "windows-1252", to: "UTF-8", want: "€"},
		{name: "empty", value: "", from: "ISO-8859-1", to: "UTF-8", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := Transcode(tc.value, tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTranscodeErrors(t *testing.T) {
	t.Parallel()

	_, err := Transcode("x", "bogus", "UTF-8")
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	assert.Equal(t, "bogus", encErr.From)

	_, err = Transcode("日本", "UTF-8", "ISO-8859-1")
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "日本", encErr.Value)
	assert.Contains(t, encErr.Error(), "ISO-8859-1")
}

func TestTranscoderFields(t *testing.T) {
	t.Parallel()

	tr, err := NewTranscoder("ISO-8859-1", "UTF-8")
	require.NoError(t, err)
	assert.False(t, tr.Identity())
	assert.Equal(t, "ISO-8859-1", tr.From())
	assert.Equal(t, "UTF-8", tr.To())

	fields := []string{"caf\xe9", "plain"}
	require.NoError(t, tr.TranscodeFields(fields))
	assert.Equal(t, []string{"café", "plain"}, fields)

	var zero *Transcoder
	assert.True(t, zero.Identity())
}
