package csvrecord

import (
	"fmt"
	"io"
)

// Default dialect settings.
const (
	DefaultSeparator = ','
	DefaultEnclosure = '"'
	DefaultEncoding  = "UTF-8"
)

// Dialect describes how CSV lines are tokenized and which encodings field values move between.
// A Dialect is immutable once NewDialect returns it.
type Dialect struct {
	separator    byte
	enclosure    byte
	escape       byte
	fromEncoding string
	toEncoding   string

	transcoder *Transcoder
}

// DialectOption customises a Dialect under construction.
type DialectOption func(*Dialect)

// WithSeparator sets the field separator.
func WithSeparator(c byte) DialectOption {
	return func(d *Dialect) { d.separator = c }
}

// WithEnclosure sets the character that wraps fields containing separators or line breaks.
func WithEnclosure(c byte) DialectOption {
	return func(d *Dialect) { d.enclosure = c }
}

// WithEscape sets the character that escapes the enclosure inside an enclosed field.
// Zero disables it so enclosures are escaped by doubling.
func WithEscape(c byte) DialectOption {
	return func(d *Dialect) { d.escape = c }
}

// WithEncoding sets the encoding of the stream (from) and the encoding values are converted to (to).
func WithEncoding(from, to string) DialectOption {
	return func(d *Dialect) {
		d.fromEncoding = from
		d.toEncoding = to
	}
}

// NewDialect builds a validated Dialect. Unsupported encodings and conflicting
// characters are reported as *ConfigError.
func NewDialect(opts ...DialectOption) (*Dialect, error) {
	d := &Dialect{
		separator:    DefaultSeparator,
		enclosure:    DefaultEnclosure,
		fromEncoding: DefaultEncoding,
		toEncoding:   DefaultEncoding,
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.validateChars(); err != nil {
		return nil, err
	}
	t, err := NewTranscoder(d.fromEncoding, d.toEncoding)
	if err != nil {
		return nil, err
	}
	d.transcoder = t
	return d, nil
}

// DefaultDialect returns the comma-separated, double-quoted, UTF-8 dialect.
func DefaultDialect() *Dialect {
	d, err := NewDialect()
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dialect) validateChars() error {
	switch {
	case d.separator == 0:
		return &ConfigError{Role: "separator", Value: "", Err: ErrInvalidDialect}
	case d.enclosure == 0:
		return &ConfigError{Role: "enclosure", Value: "", Err: ErrInvalidDialect}
	case isLineBreak(d.separator):
		return &ConfigError{Role: "separator", Value: string(d.separator), Err: fmt.Errorf("%w: line break", ErrInvalidDialect)}
	case isLineBreak(d.enclosure):
		return &ConfigError{Role: "enclosure", Value: string(d.enclosure), Err: fmt.Errorf("%w: line break", ErrInvalidDialect)}
	case d.separator == d.enclosure:
		return &ConfigError{Role: "enclosure", Value: string(d.enclosure), Err: fmt.Errorf("%w: same as separator", ErrInvalidDialect)}
	case d.escape != 0 && (d.escape == d.separator || isLineBreak(d.escape)):
		return &ConfigError{Role: "escape", Value: string(d.escape), Err: fmt.Errorf("%w: conflicts with separator or line break", ErrInvalidDialect)}
	}
	return nil
}

func isLineBreak(c byte) bool {
	return c == '\n' || c == '\r'
}

// Separator returns the field separator.
func (d *Dialect) Separator() byte { return d.separator }

// Enclosure returns the enclosure character.
func (d *Dialect) Enclosure() byte { return d.enclosure }

// Escape returns the escape character, or zero when enclosures are escaped by doubling.
func (d *Dialect) Escape() byte { return d.escape }

// FromEncoding returns the encoding of the CSV stream.
func (d *Dialect) FromEncoding() string { return d.fromEncoding }

// ToEncoding returns the encoding field values are converted to.
func (d *Dialect) ToEncoding() string { return d.toEncoding }

// Transcoder returns the converter between FromEncoding and ToEncoding.
func (d *Dialect) Transcoder() *Transcoder { return d.transcoder }

func (d *Dialect) newRawReader(src io.Reader) *RawReader {
	r := NewRawReader(src)
	r.Comma = d.separator
	r.Quote = d.enclosure
	r.Escape = d.escape
	return r
}

func (d *Dialect) newRawWriter(dst io.Writer) *RawWriter {
	w := NewRawWriter(dst)
	w.Comma = d.separator
	w.Quote = d.enclosure
	w.Escape = d.escape
	return w
}
