package csvrecord

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

type writerConfig struct {
	dialect *Dialect
	bom     string
	header  bool
	crlf    bool
	logger  *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*writerConfig)

// WithDialect sets the separator, enclosure, escape and encodings used for output.
// When the encodings differ, values are converted from FromEncoding to ToEncoding.
func WithDialect(d *Dialect) WriterOption {
	return func(c *writerConfig) { c.dialect = d }
}

// WithBOM writes a byte-order mark before anything else. Known names such as "UTF-8" or
// "UTF-16LE" are resolved to their bytes; anything else is written literally.
func WithBOM(nameOrLiteral string) WriterOption {
	return func(c *writerConfig) { c.bom = nameOrLiteral }
}

// WithWriterHeader controls whether a header line is inferred from the first keyed record.
// The default is true.
func WithWriterHeader(enabled bool) WriterOption {
	return func(c *writerConfig) { c.header = enabled }
}

// WithCRLF terminates lines with \r\n instead of \n.
func WithCRLF(enabled bool) WriterOption {
	return func(c *writerConfig) { c.crlf = enabled }
}

// WithWriterLogger sets the logger used for debug tracing.
func WithWriterLogger(l *slog.Logger) WriterOption {
	return func(c *writerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Writer serializes records as CSV lines.
type Writer struct {
	raw        *RawWriter
	transcoder *Transcoder
	cfg        writerConfig
	log        *slog.Logger

	started bool
	header  []string
	scratch []string
}

// NewWriter returns a Writer emitting to w. It fails only when the configured dialect is invalid.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{header: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	d, err := resolveDialect(cfg.dialect)
	if err != nil {
		return nil, err
	}
	cfg.dialect = d

	raw := d.newRawWriter(w)
	raw.UseCRLF = cfg.crlf
	return &Writer{raw: raw, transcoder: d.transcoder, cfg: cfg, log: cfg.logger}, nil
}

// Write emits rec. The first call also writes the byte-order mark and, in header mode,
// a header line built from the keys of rec when it is Keyed. Every record is written in
// its own key order; later records are neither reordered nor checked against that header,
// so callers mixing key orders get misaligned columns.
func (w *Writer) Write(rec Record) error {
	if !w.started {
		if err := w.start(); err != nil {
			return err
		}
		if w.cfg.header && rec.Kind() == Keyed {
			w.header = rec.Keys()
			if err := w.writeFields(w.header); err != nil {
				return err
			}
			w.log.Debug("header inferred", "columns", len(w.header))
		}
	}
	return w.writeFields(rec.Fields())
}

func (w *Writer) writeFields(fields []string) error {
	if w.transcoder.Identity() {
		return w.raw.Write(fields)
	}
	w.scratch = append(w.scratch[:0], fields...)
	if err := w.transcoder.TranscodeFields(w.scratch); err != nil {
		return err
	}
	return w.raw.Write(w.scratch)
}

// Header returns the header line written by the first Write, if any.
func (w *Writer) Header() []string { return w.header }

// Flush writes any buffered data. A Writer that never received a record still emits its BOM.
func (w *Writer) Flush() error {
	if !w.started {
		if err := w.start(); err != nil {
			return err
		}
	}
	return w.raw.Flush()
}

func (w *Writer) start() error {
	w.started = true
	if bom := ResolveBOM(w.cfg.bom); len(bom) > 0 {
		return w.raw.WriteRaw(bom)
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error { return w.raw.Error() }

// WriteAllTo writes records to dst and flushes.
func WriteAllTo(dst io.Writer, records []Record, opts ...WriterOption) error {
	w, err := NewWriter(dst, opts...)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteAll creates or truncates path and writes records to it.
// An invalid dialect is reported before the file is touched.
func WriteAll(path string, records []Record, opts ...WriterOption) (err error) {
	var probe writerConfig
	for _, opt := range opts {
		opt(&probe)
	}
	if _, err := resolveDialect(probe.dialect); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &ResourceError{Op: "create", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ResourceError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := WriteAllTo(f, records, opts...); err != nil {
		var cfgErr *ConfigError
		var encErr *EncodingError
		if errors.As(err, &cfgErr) || errors.As(err, &encErr) {
			return err
		}
		return &ResourceError{Op: "write", Path: path, Err: err}
	}
	return nil
}
