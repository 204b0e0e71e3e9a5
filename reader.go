package csvrecord

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// MapFunc transforms a record before it is filtered and returned. index is the 1-based
// position of the record since the last rewind. The returned record may have any shape.
type MapFunc func(rec Record, index int) Record

// FilterFunc reports whether a record should be returned. Rejected records are skipped.
type FilterFunc func(rec Record, index int) bool

// LockPolicy controls the shared advisory lock Open takes on file-backed sources.
type LockPolicy int

const (
	// LockIfSupported locks sources that expose a file descriptor on platforms with advisory locks.
	LockIfSupported LockPolicy = iota
	// LockRequired fails with a *ResourceError when the source cannot be locked.
	LockRequired
	// LockNever skips locking.
	LockNever
)

type readerConfig struct {
	header bool
	mapFn  MapFunc
	filter FilterFunc
	lock   LockPolicy
	logger *slog.Logger
	path   string
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerConfig)

// WithHeader controls whether the first line is taken as field names. The default is true.
func WithHeader(enabled bool) ReaderOption {
	return func(c *readerConfig) { c.header = enabled }
}

// WithMap installs a record transform.
func WithMap(fn MapFunc) ReaderOption {
	return func(c *readerConfig) { c.mapFn = fn }
}

// WithFilter installs a record predicate.
func WithFilter(fn FilterFunc) ReaderOption {
	return func(c *readerConfig) { c.filter = fn }
}

// WithLockPolicy overrides LockIfSupported.
func WithLockPolicy(p LockPolicy) ReaderOption {
	return func(c *readerConfig) { c.lock = p }
}

// WithLogger sets the logger used for debug tracing. By default nothing is logged.
func WithLogger(l *slog.Logger) ReaderOption {
	return func(c *readerConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func withPath(path string) ReaderOption {
	return func(c *readerConfig) { c.path = path }
}

type fder interface {
	Fd() uintptr
}

// Reader is a pull cursor over the records of a CSV stream. It owns the stream it was
// opened on and must be closed. A Reader is not safe for concurrent use.
//
// Typical iteration:
//
//	for err = r.Rewind(); err == nil && r.Valid(); err = r.Next() {
//		use(r.Index(), r.Current())
//	}
type Reader struct {
	src     io.ReadSeeker
	dialect *Dialect
	raw     *RawReader
	cfg     readerConfig
	log     *slog.Logger

	bom          BOM
	header       []string
	columnsCount int
	startingByte int64
	startingLine int

	index    int
	filtered int
	current  Record
	valid    bool

	fd     uintptr
	locked bool
	closed bool
}

// Open prepares a Reader over src, which must be positioned anywhere; Open seeks to byte 0.
// It takes a shared lock when src is a file, skips a byte-order mark, and reads the header
// line when header mode is on. Open owns src from the moment it is called: on failure src
// is unlocked and closed before the error is returned.
func Open(src io.ReadSeeker, dialect *Dialect, opts ...ReaderOption) (*Reader, error) {
	if src == nil {
		return nil, &ResourceError{Op: "open", Err: errors.New("nil source")}
	}

	cfg := readerConfig{header: true, lock: LockIfSupported}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	r := &Reader{src: src, cfg: cfg, log: cfg.logger}
	if err := r.init(dialect); err != nil {
		if cerr := r.release(); cerr != nil {
			r.log.Warn("release after failed open", "path", cfg.path, "error", cerr)
		}
		return nil, err
	}
	return r, nil
}

// OpenFile opens path for reading and hands it to Open.
func OpenFile(path string, dialect *Dialect, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Op: "open", Path: path, Err: err}
	}
	return Open(f, dialect, append(opts, withPath(path))...)
}

// ReadFile opens path, reads every record and closes the file.
func ReadFile(path string, dialect *Dialect, opts ...ReaderOption) (records []Record, err error) {
	r, err := OpenFile(path, dialect, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return r.ReadAll()
}

func (r *Reader) init(dialect *Dialect) error {
	d, err := resolveDialect(dialect)
	if err != nil {
		return err
	}
	r.dialect = d

	if err := r.acquireLock(); err != nil {
		return err
	}
	if err := r.skipBOM(); err != nil {
		return err
	}

	if r.cfg.header {
		fields, err := r.raw.Read()
		switch {
		case err == io.EOF:
			r.log.Debug("empty stream, no header", "path", r.cfg.path)
		case err != nil:
			return err
		default:
			if err := d.transcoder.TranscodeFields(fields); err != nil {
				return err
			}
			r.header = fields[:len(fields):len(fields)]
			r.columnsCount = len(fields)
			r.log.Debug("header captured", "path", r.cfg.path, "columns", r.columnsCount)
		}
	}

	r.startingByte = r.raw.InputOffset()
	r.startingLine = r.raw.Line()
	return nil
}

// resolveDialect defaults a nil dialect and re-validates one that did not come from NewDialect.
func resolveDialect(d *Dialect) (*Dialect, error) {
	if d == nil {
		return NewDialect()
	}
	if d.transcoder != nil {
		return d, nil
	}
	return NewDialect(
		WithSeparator(d.separator),
		WithEnclosure(d.enclosure),
		WithEscape(d.escape),
		WithEncoding(d.fromEncoding, d.toEncoding),
	)
}

func (r *Reader) acquireLock() error {
	if r.cfg.lock == LockNever {
		return nil
	}
	f, ok := r.src.(fder)
	if !ok || !lockSupported {
		if r.cfg.lock == LockRequired {
			return &ResourceError{Op: "lock", Path: r.cfg.path, Err: ErrLockUnsupported}
		}
		return nil
	}
	fd := f.Fd()
	if err := lockShared(fd); err != nil {
		return &ResourceError{Op: "lock", Path: r.cfg.path, Err: err}
	}
	r.fd = fd
	r.locked = true
	return nil
}

// skipBOM positions the stream right after a byte-order mark, or back at byte 0 when there is none.
func (r *Reader) skipBOM() error {
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return &ResourceError{Op: "seek", Path: r.cfg.path, Err: err}
	}
	prefix := make([]byte, maxBOMLen)
	n, err := io.ReadFull(r.src, prefix)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return &ResourceError{Op: "read", Path: r.cfg.path, Err: err}
	}
	r.bom = DetectBOM(prefix[:n])
	offset := int64(r.bom.Len())
	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		return &ResourceError{Op: "seek", Path: r.cfg.path, Err: err}
	}
	if r.bom != NoBOM {
		r.log.Debug("byte-order mark skipped", "path", r.cfg.path, "bom", r.bom.String())
	}

	r.raw = r.dialect.newRawReader(r.src)
	r.raw.Reset(r.src, offset, 1)
	return nil
}

// Read returns the next accepted record. It returns io.EOF, unwrapped, at the end of the stream.
// Records rejected by the filter are counted and skipped.
func (r *Reader) Read() (Record, error) {
	if r.closed {
		return Record{}, ErrClosed
	}
	for {
		fields, err := r.raw.Read()
		if err != nil {
			return Record{}, err
		}
		r.index++

		if err := r.dialect.transcoder.TranscodeFields(fields); err != nil {
			return Record{}, err
		}

		rec := NewPositional(fields...)
		if r.cfg.header {
			if len(fields) != r.columnsCount {
				return Record{}, &RecordShapeError{Expected: r.columnsCount, Actual: len(fields), Index: r.index}
			}
			rec = Record{kind: Keyed, keys: r.header, values: fields}
		}

		if r.cfg.mapFn != nil {
			rec = r.cfg.mapFn(rec, r.index)
		}
		if r.cfg.filter != nil && !r.cfg.filter(rec, r.index) {
			r.filtered++
			r.log.Debug("record filtered", "path", r.cfg.path, "index", r.index)
			continue
		}
		return rec, nil
	}
}

// Rewind seeks back to the first data line, resets the counters and loads the first record.
func (r *Reader) Rewind() error {
	if r.closed {
		return ErrClosed
	}
	if _, err := r.src.Seek(r.startingByte, io.SeekStart); err != nil {
		r.valid = false
		return &ResourceError{Op: "seek", Path: r.cfg.path, Err: err}
	}
	r.raw.Reset(r.src, r.startingByte, r.startingLine)
	r.index = 0
	r.filtered = 0
	r.log.Debug("rewound", "path", r.cfg.path, "offset", r.startingByte)
	return r.advance()
}

// Next moves to the following record. It does nothing once the cursor is exhausted.
func (r *Reader) Next() error {
	if r.closed {
		return ErrClosed
	}
	if !r.valid {
		return nil
	}
	return r.advance()
}

func (r *Reader) advance() error {
	rec, err := r.Read()
	if err != nil {
		r.current = Record{}
		r.valid = false
		if err == io.EOF {
			return nil
		}
		return err
	}
	r.current = rec
	r.valid = true
	return nil
}

// Valid reports whether Current holds a record.
func (r *Reader) Valid() bool { return r.valid }

// Current returns the record the cursor is on, or the zero Record when it is exhausted.
func (r *Reader) Current() Record { return r.current }

// Index returns the 1-based position of the last record read since the last rewind,
// counting rejected records.
func (r *Reader) Index() int { return r.index }

// Filtered returns how many records the filter rejected since the last rewind.
func (r *Reader) Filtered() int { return r.filtered }

// Header returns a copy of the field names captured at open, nil when header mode is off.
func (r *Reader) Header() []string {
	if r.header == nil {
		return nil
	}
	return append([]string(nil), r.header...)
}

// BOM returns the byte-order mark found at the start of the stream.
func (r *Reader) BOM() BOM { return r.bom }

// StartingByte returns the offset of the first data line.
func (r *Reader) StartingByte() int64 { return r.startingByte }

// Dialect returns the dialect the reader parses with.
func (r *Reader) Dialect() *Dialect { return r.dialect }

// ReadAll rewinds the cursor and collects every accepted record.
func (r *Reader) ReadAll() ([]Record, error) {
	if err := r.Rewind(); err != nil {
		return nil, err
	}
	var records []Record
	for r.valid {
		records = append(records, r.current)
		if err := r.Next(); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// Close releases the lock and closes the underlying stream. Calls after the first return nil.
func (r *Reader) Close() error {
	if r == nil || r.closed {
		return nil
	}
	r.closed = true
	r.valid = false
	r.current = Record{}
	return r.release()
}

func (r *Reader) release() error {
	var errs []error
	if r.locked {
		if err := unlock(r.fd); err != nil {
			errs = append(errs, &ResourceError{Op: "unlock", Path: r.cfg.path, Err: err})
		}
		r.locked = false
	}
	if c, ok := r.src.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, &ResourceError{Op: "close", Path: r.cfg.path, Err: err})
		}
	}
	return errors.Join(errs...)
}
