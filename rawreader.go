package csvrecord

import (
	"bytes"
	"io"
)

const defaultBufferSize = 1 << 10 // 1024 bytes

// RawReader tokenizes CSV lines into string fields with customizable separator, enclosure and escape bytes.
// It keeps track of how many bytes of the source it has consumed so callers can seek back to a line boundary.
type RawReader struct {
	src io.Reader

	// Comma is the field delimiter. Default is ','.
	Comma byte
	// Quote is the enclosure character. Default is '"'.
	Quote byte
	// Escape, when non-zero and different from Quote, escapes Quote (or itself) inside an enclosed field.
	// Zero means enclosures are escaped by doubling only.
	Escape byte

	buf    []byte
	bufPos int
	bufLen int
	bufErr error
	// total bytes pulled from src, including the offset src was positioned at on reset
	pulled int64

	record      []string
	dataBuf     []byte
	fieldBounds []int
	finished    bool
	line        int
}

// NewRawReader creates a RawReader that consumes CSV data from r, panicking if r is nil,
// and initialises internal buffers sized for high-throughput parsing.
func NewRawReader(r io.Reader) *RawReader {
	if r == nil {
		panic("csvrecord: reader source cannot be nil")
	}

	return &RawReader{
		src:         r,
		Comma:       ',',
		Quote:       '"',
		buf:         make([]byte, defaultBufferSize),
		dataBuf:     make([]byte, 0, 512),
		fieldBounds: make([]int, 0, 32),
		line:        1,
	}
}

// Reset discards buffered input and continues from src, which the caller must have
// positioned at byte offset. line is the physical line number the next record starts on.
func (r *RawReader) Reset(src io.Reader, offset int64, line int) {
	if src == nil {
		panic("csvrecord: reader source cannot be nil")
	}
	r.src = src
	r.bufPos = 0
	r.bufLen = 0
	r.bufErr = nil
	r.pulled = offset
	r.finished = false
	if line < 1 {
		line = 1
	}
	r.line = line
}

// InputOffset returns the byte offset in the source of the first byte not yet parsed.
func (r *RawReader) InputOffset() int64 {
	return r.pulled - int64(r.bufLen-r.bufPos)
}

// Line returns the physical line number the next record starts on.
func (r *RawReader) Line() int {
	return r.line
}

// Read parses the next CSV record from the underlying stream. Each call returns a freshly
// allocated slice; io.EOF signals that no more records remain.
func (r *RawReader) Read() (dst []string, err error) {
	if r == nil || r.src == nil {
		return nil, io.EOF
	}
	if r.finished {
		return nil, io.EOF
	}

	comma := r.Comma
	if comma == 0 {
		comma = ','
	}
	quote := r.Quote
	if quote == 0 {
		quote = '"'
	}
	escape := r.Escape
	if escape == quote {
		escape = 0
	}

	r.record = nil
	r.dataBuf = r.dataBuf[:0]
	r.fieldBounds = r.fieldBounds[:0]

	inQuotes := false
	sawQuotedField := false
	column := 1
	fieldStart := 0

	for {
		// Ensure the working buffer has data before parsing the next byte.
		if r.bufPos >= r.bufLen {
			if r.bufErr != nil {
				curColumn := column
				err := r.bufErr
				r.bufErr = nil
				if err == io.EOF {
					// Unterminated quotes at EOF are invalid.
					if inQuotes {
						r.finished = true
						return nil, r.wrapError(curColumn, ErrUnterminatedQuote)
					}
					// Flush a trailing field if data ended without a newline.
					if len(r.fieldBounds) > 0 || len(r.dataBuf) > 0 || sawQuotedField {
						r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
						r.finished = true
						return r.buildRecord(), nil
					}
					r.finished = true
					return nil, io.EOF
				}
				return nil, err
			}

			if err := r.fill(); err != nil {
				r.bufErr = err
			}
			continue
		}

		if !inQuotes {
			// Fast-path plain bytes until a quote or delimiter is encountered.
			data := r.buf[r.bufPos:r.bufLen]
			quoteIdx := bytes.IndexByte(data, quote)
			switch {
			case quoteIdx == -1:
				recordDone, err := r.consumePlain(comma, false, &column, &fieldStart, &sawQuotedField)
				if err != nil {
					return nil, err
				}
				if recordDone {
					return r.buildRecord(), nil
				}
				if r.bufPos >= r.bufLen {
					continue
				}
			case quoteIdx > 0:
				// Temporarily limit the buffer to process plain bytes up to the quote.
				originalLen := r.bufLen
				r.bufLen = r.bufPos + quoteIdx
				recordDone, err := r.consumePlain(comma, true, &column, &fieldStart, &sawQuotedField)
				r.bufLen = originalLen
				if err != nil {
					return nil, err
				}
				if recordDone {
					return r.buildRecord(), nil
				}
				if r.bufPos >= r.bufLen {
					continue
				}
			}
		}

		curColumn := column
		b := r.buf[r.bufPos]
		r.bufPos++

		if inQuotes {
			if escape != 0 && b == escape {
				// Escape only binds to the enclosure or to itself; otherwise it is literal.
				next, err := r.peekByte()
				if err == nil && (next == quote || next == escape) {
					r.bufPos++
					r.dataBuf = append(r.dataBuf, next)
					column = curColumn + 2
					continue
				}
				if err != nil && err != io.EOF {
					return nil, err
				}
				r.dataBuf = append(r.dataBuf, b)
				column = curColumn + 1
				continue
			}
			if b == quote {
				// Double quote inside quotes represents an escaped quote.
				next, err := r.peekByte()
				if err == nil && next == quote {
					r.bufPos++
					r.dataBuf = append(r.dataBuf, quote)
					column = curColumn + 2
					continue
				}
				if err != nil && err != io.EOF {
					return nil, err
				}
				inQuotes = false
				column = curColumn + 1
				continue
			}
			if b == '\n' {
				// Track logical line numbers for embedded newlines.
				r.dataBuf = append(r.dataBuf, b)
				r.line++
				column = 1
				continue
			}

			start := r.bufPos - 1
			run := 1
			if r.bufPos < r.bufLen {
				data := r.buf[r.bufPos:r.bufLen]
				for i := 0; i < len(data); i++ {
					c := data[i]
					if c == quote || c == '\n' || (escape != 0 && c == escape) {
						break
					}
					run++
				}
				r.bufPos += run - 1
			}
			column = curColumn + run
			r.dataBuf = append(r.dataBuf, r.buf[start:start+run]...)
			continue
		}

		switch b {
		case comma:
			r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
			fieldStart = len(r.dataBuf)
			sawQuotedField = false
			column = curColumn + 1
		case '\n':
			r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
			r.line++
			return r.buildRecord(), nil
		case '\r':
			next, err := r.peekByte()
			if err == nil && next == '\n' {
				r.bufPos++
			}
			if err != nil && err != io.EOF {
				return nil, err
			}
			r.fieldBounds = append(r.fieldBounds, fieldStart, len(r.dataBuf))
			r.line++
			return r.buildRecord(), nil
		case quote:
			// A quote starts a quoted field only if we have not buffered any characters yet.
			if len(r.dataBuf) == fieldStart && !sawQuotedField {
				inQuotes = true
				sawQuotedField = true
				column = curColumn + 1
				continue
			}
			return nil, r.wrapError(curColumn, ErrBareQuote)
		default:
			start := r.bufPos - 1
			run := 1
			if r.bufPos < r.bufLen {
				data := r.buf[r.bufPos:r.bufLen]
				for i := 0; i < len(data); i++ {
					c := data[i]
					if c == comma || c == '\n' || c == '\r' || c == quote {
						break
					}
					run++
				}
				r.bufPos += run - 1
			}
			column = curColumn + run
			r.dataBuf = append(r.dataBuf, r.buf[start:start+run]...)
		}
	}
}

// ReadAll exhausts the reader, repeatedly calling Read to collect records until io.EOF
// and returning the accumulated records slice plus the first non-EOF error encountered.
func (r *RawReader) ReadAll() (records [][]string, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

// buildRecord maps the accumulated fieldBounds onto a single string copy of the data buffer.
func (r *RawReader) buildRecord() []string {
	fieldCount := len(r.fieldBounds) / 2
	recordStr := string(r.dataBuf)
	r.record = make([]string, fieldCount)

	for i := 0; i < fieldCount; i++ {
		start := r.fieldBounds[2*i]
		end := r.fieldBounds[2*i+1]
		r.record[i] = recordStr[start:end]
	}
	return r.record
}

// wrapError attaches the current line and supplied column to err, producing a *ParseError.
func (r *RawReader) wrapError(column int, err error) error {
	return &ParseError{Line: r.line, Column: column, Err: err}
}

// consumePlain consumes unquoted field data, updating *column, *fieldStart, and *sawQuotedField.
// It reports whether a record terminator was seen and returns any read error encountered.
// windowed means r.bufLen was cut short at a quote, so the buffer must not be refilled.
func (r *RawReader) consumePlain(comma byte, windowed bool, column *int, fieldStart *int, sawQuotedField *bool) (bool, error) {
	for {
		if r.bufPos >= r.bufLen {
			return false, nil
		}

		// Locate the closest delimiter or record terminator within the buffered bytes.
		data := r.buf[r.bufPos:r.bufLen]
		idxComma := bytes.IndexByte(data, comma)
		idxNewline := bytes.IndexByte(data, '\n')
		idxCR := bytes.IndexByte(data, '\r')

		next := len(data)
		delim := byte(0)

		if idxComma >= 0 && idxComma < next {
			next = idxComma
			delim = comma
		}
		if idxNewline >= 0 && idxNewline < next {
			next = idxNewline
			delim = '\n'
		}
		if idxCR >= 0 && idxCR < next {
			next = idxCR
			delim = '\r'
		}

		if next > 0 {
			r.dataBuf = append(r.dataBuf, data[:next]...)
			r.bufPos += next
			*column += next
		}

		if delim == 0 {
			return false, nil
		}

		r.bufPos++
		switch delim {
		case comma:
			r.fieldBounds = append(r.fieldBounds, *fieldStart, len(r.dataBuf))
			*fieldStart = len(r.dataBuf)
			*sawQuotedField = false
			*column = *column + 1
		case '\n':
			r.fieldBounds = append(r.fieldBounds, *fieldStart, len(r.dataBuf))
			r.line++
			return true, nil
		case '\r':
			// A windowed CR is followed by the quote, never by '\n'.
			if windowed && r.bufPos >= r.bufLen {
				r.fieldBounds = append(r.fieldBounds, *fieldStart, len(r.dataBuf))
				r.line++
				return true, nil
			}
			// Support CRLF by peeking ahead for '\n' and consuming it together.
			nextByte, err := r.peekByte()
			if err == nil && nextByte == '\n' {
				r.bufPos++
			} else if err != nil && err != io.EOF {
				return false, err
			}
			r.fieldBounds = append(r.fieldBounds, *fieldStart, len(r.dataBuf))
			r.line++
			return true, nil
		}
	}
}

// fill pulls the next chunk from src into the working buffer. It returns the read error,
// if any, after any bytes that arrived with it have been made available.
func (r *RawReader) fill() error {
	n, err := r.src.Read(r.buf)
	if n > 0 {
		r.pulled += int64(n)
		r.bufPos = 0
		r.bufLen = n
	}
	return err
}

// peekByte returns the next buffered byte (refilling from src as needed) and propagates any read error.
func (r *RawReader) peekByte() (byte, error) {
	for {
		if r.bufPos < r.bufLen {
			return r.buf[r.bufPos], nil
		}
		if r.bufErr != nil {
			return 0, r.bufErr
		}
		if err := r.fill(); err != nil {
			r.bufErr = err
		}
	}
}
