package csvrecord

import (
	"errors"
	"fmt"
)

var (
	// ErrBareQuote is returned when an unexpected quote is found in an unquoted field.
	ErrBareQuote = errors.New("csvrecord: bare quote in non-quoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed before EOF or record end.
	ErrUnterminatedQuote = errors.New("csvrecord: unterminated quoted field")
	// ErrUnsupportedEncoding is wrapped by ConfigError and EncodingError when an encoding name cannot be resolved.
	ErrUnsupportedEncoding = errors.New("csvrecord: unsupported encoding")
	// ErrInvalidDialect is wrapped by ConfigError when separator, enclosure or escape characters conflict.
	ErrInvalidDialect = errors.New("csvrecord: invalid dialect")
	// ErrLockUnsupported is wrapped by ResourceError when a lock is required but the platform has none.
	ErrLockUnsupported = errors.New("csvrecord: advisory locking unsupported")
	// ErrClosed is returned by Reader operations after Close.
	ErrClosed = errors.New("csvrecord: reader closed")
)

// ParseError contains location information for CSV parsing errors.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

// Error formats the parse error message with the stored line, column, and Err values.
func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("csvrecord: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

// Unwrap returns the underlying Err so ParseError participates in errors.Unwrap.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ConfigError reports a dialect that cannot be used, either because an encoding
// name is unknown or because its characters conflict.
type ConfigError struct {
	// Role names the offending setting, e.g. "from encoding" or "separator".
	Role  string
	Value string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("csvrecord: %s %q: %v", e.Role, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ResourceError reports a stream that could not be opened, locked, read or written.
type ResourceError struct {
	Op   string
	Path string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("csvrecord: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("csvrecord: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// RecordShapeError is returned when a data line does not have as many fields as the header.
// Index is the 1-based position of the record since the last rewind.
type RecordShapeError struct {
	Expected int
	Actual   int
	Index    int
}

func (e *RecordShapeError) Error() string {
	return fmt.Sprintf("csvrecord: header has %d fields but record %d has %d", e.Expected, e.Index, e.Actual)
}

// EncodingError reports a field value that could not be transcoded.
type EncodingError struct {
	From  string
	To    string
	Value string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("csvrecord: transcode %q from %s to %s: %v", e.Value, e.From, e.To, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
