package csvrecord

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// LookupEncoding resolves an encoding by IANA name or alias, falling back to the WHATWG
// labels used by browsers (so "latin1" and "utf8" also work).
func LookupEncoding(name string) (encoding.Encoding, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrUnsupportedEncoding
	}
	if enc, err := ianaindex.IANA.Encoding(trimmed); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(trimmed); err == nil && enc != nil {
		return enc, nil
	}
	return nil, ErrUnsupportedEncoding
}

// EncodingSupported reports whether name resolves to an encoding this host can convert.
func EncodingSupported(name string) bool {
	_, err := LookupEncoding(name)
	return err == nil
}

// Transcoder converts field values from one encoding to another. The zero value and
// transcoders built from equal names pass values through unchanged.
type Transcoder struct {
	from, to       string
	fromEnc, toEnc encoding.Encoding
	identity       bool
}

// NewTranscoder validates both encoding names. Names that compare equal ignoring case
// are not looked up at all.
func NewTranscoder(from, to string) (*Transcoder, error) {
	t := &Transcoder{from: from, to: to}
	if strings.EqualFold(strings.TrimSpace(from), strings.TrimSpace(to)) {
		t.identity = true
		return t, nil
	}

	fromEnc, err := LookupEncoding(from)
	if err != nil {
		return nil, &ConfigError{Role: "from encoding", Value: from, Err: err}
	}
	toEnc, err := LookupEncoding(to)
	if err != nil {
		return nil, &ConfigError{Role: "to encoding", Value: to, Err: err}
	}
	t.fromEnc = fromEnc
	t.toEnc = toEnc
	return t, nil
}

// Identity reports whether Transcode is a no-op.
func (t *Transcoder) Identity() bool {
	return t == nil || t.identity || (t.fromEnc == nil && t.toEnc == nil)
}

// From returns the source encoding name.
func (t *Transcoder) From() string { return t.from }

// To returns the target encoding name.
func (t *Transcoder) To() string { return t.to }

// Transcode decodes value from the source encoding and re-encodes it in the target encoding.
func (t *Transcoder) Transcode(value string) (string, error) {
	if t.Identity() || value == "" {
		return value, nil
	}
	decoded, err := t.fromEnc.NewDecoder().String(value)
	if err != nil {
		return "", &EncodingError{From: t.from, To: t.to, Value: value, Err: err}
	}
	encoded, err := t.toEnc.NewEncoder().String(decoded)
	if err != nil {
		return "", &EncodingError{From: t.from, To: t.to, Value: value, Err: err}
	}
	return encoded, nil
}

// TranscodeFields transcodes every element of fields in place.
func (t *Transcoder) TranscodeFields(fields []string) error {
	if t.Identity() {
		return nil
	}
	for i, field := range fields {
		converted, err := t.Transcode(field)
		if err != nil {
			return err
		}
		fields[i] = converted
	}
	return nil
}

// Transcode converts value between two named encodings. Unknown names yield an *EncodingError.
func Transcode(value, from, to string) (string, error) {
	t, err := NewTranscoder(from, to)
	if err != nil {
		return "", &EncodingError{From: from, To: to, Value: value, Err: ErrUnsupportedEncoding}
	}
	return t.Transcode(value)
}
