package csvrecord

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	cfg := &ConfigError{Role: "from encoding", Value: "bogus", Err: ErrUnsupportedEncoding}
	assert.Equal(t, `csvrecord: from encoding "bogus": csvrecord: unsupported encoding`, cfg.Error())
	assert.ErrorIs(t, cfg, ErrUnsupportedEncoding)

	res := &ResourceError{Op: "open", Path: "/tmp/x.csv", Err: fs.ErrNotExist}
	assert.Equal(t, "csvrecord: open /tmp/x.csv: file does not exist", res.Error())
	assert.ErrorIs(t, res, fs.ErrNotExist)
	assert.Equal(t, "csvrecord: lock: boom", (&ResourceError{Op: "lock", Err: errors.New("boom")}).Error())

	shape := &RecordShapeError{Expected: 3, Actual: 2, Index: 7}
	assert.Equal(t, "csvrecord: header has 3 fields but record 7 has 2", shape.Error())

	enc := &EncodingError{From: "UTF-8", To: "ISO-8859-1", Value: "x", Err: ErrUnsupportedEncoding}
	assert.ErrorIs(t, enc, ErrUnsupportedEncoding)
	assert.Contains(t, enc.Error(), "from UTF-8 to ISO-8859-1")
}
