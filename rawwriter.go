package csvrecord

import (
	"bufio"
	"errors"
	"io"
)

var (
	errNilWriter      = errors.New("csvrecord: writer is nil")
	errWriterNoTarget = errors.New("csvrecord: writer destination cannot be nil")
)

// RawWriter provides high-throughput CSV emission with configurable delimiters and quoting rules.
type RawWriter struct {
	dst *bufio.Writer

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the enclosure character. Default is '"'.
	Quote byte
	// Escape, when non-zero and different from Quote, is written before every Quote (and every Escape)
	// inside an enclosed field instead of doubling the Quote.
	Escape byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool
	// AlwaysQuote forces quoting for all fields when enabled.
	AlwaysQuote bool

	err error
}

// NewRawWriter creates a new RawWriter with internal buffering tuned for bulk writes.
func NewRawWriter(w io.Writer) *RawWriter {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &RawWriter{
		dst:   bufio.NewWriterSize(w, defaultBufferSize),
		Comma: ',',
		Quote: '"',
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
func (w *RawWriter) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.err = nil
}

// WriteRaw emits b verbatim, bypassing quoting. It is used for byte-order marks.
func (w *RawWriter) WriteRaw(b []byte) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if _, err := w.dst.Write(b); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Write emits a single CSV record. The record is terminated with the configured newline sequence.
func (w *RawWriter) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	comma := w.Comma
	if comma == 0 {
		comma = ','
	}
	quote := w.Quote
	if quote == 0 {
		quote = '"'
	}
	escape := w.Escape
	if escape == quote {
		escape = 0
	}

	for i := range record {
		if i > 0 {
			if err := w.dst.WriteByte(comma); err != nil {
				w.err = err
				return err
			}
		}
		if err := w.writeField(record[i], comma, quote, escape); err != nil {
			w.err = err
			return err
		}
	}

	if w.UseCRLF {
		if _, err := w.dst.Write([]byte{'\r', '\n'}); err != nil {
			w.err = err
			return err
		}
	} else {
		if err := w.dst.WriteByte('\n'); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// WriteAll writes multiple records, stopping at the first error.
func (w *RawWriter) WriteAll(records [][]string) error {
	if w == nil {
		return errNilWriter
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *RawWriter) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *RawWriter) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

func (w *RawWriter) writeField(field string, comma, quote, escape byte) error {
	needsQuote := w.AlwaysQuote
	if !needsQuote {
		needsQuote = fieldNeedsQuote(field, comma, quote)
	}
	if !needsQuote {
		_, err := w.dst.WriteString(field)
		return err
	}
	if err := w.dst.WriteByte(quote); err != nil {
		return err
	}

	start := 0
	for i := 0; i < len(field); i++ {
		c := field[i]
		if c != quote && (escape == 0 || c != escape) {
			continue
		}
		if start < i {
			if _, err := w.dst.WriteString(field[start:i]); err != nil {
				return err
			}
		}
		prefix := quote
		if escape != 0 {
			prefix = escape
		}
		if _, err := w.dst.Write([]byte{prefix, c}); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(field) {
		if _, err := w.dst.WriteString(field[start:]); err != nil {
			return err
		}
	}
	return w.dst.WriteByte(quote)
}

func fieldNeedsQuote(field string, comma, quote byte) bool {
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case quote, comma, '\n', '\r':
			return true
		}
	}
	return false
}
