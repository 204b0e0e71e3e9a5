package csvrecord

import (
	"bytes"
	"strings"
)

// BOM identifies a byte-order mark recognised at the start of a stream.
type BOM int

const (
	// NoBOM means the stream did not start with a known byte-order mark.
	NoBOM BOM = iota
	BOMUTF8
	BOMUTF16BE
	BOMUTF16LE
	BOMUTF32BE
	BOMUTF32LE
)

// Detection order matters: the UTF-32LE mark starts with the UTF-16LE one.
var bomTable = []struct {
	bom   BOM
	name  string
	bytes []byte
}{
	{BOMUTF32BE, "UTF-32BE", []byte{0x00, 0x00, 0xFE, 0xFF}},
	{BOMUTF32LE, "UTF-32LE", []byte{0xFF, 0xFE, 0x00, 0x00}},
	{BOMUTF8, "UTF-8", []byte{0xEF, 0xBB, 0xBF}},
	{BOMUTF16BE, "UTF-16BE", []byte{0xFE, 0xFF}},
	{BOMUTF16LE, "UTF-16LE", []byte{0xFF, 0xFE}},
}

// maxBOMLen is the longest prefix DetectBOM needs to look at.
const maxBOMLen = 4

// String returns the encoding name the mark belongs to, or "none".
func (b BOM) String() string {
	for _, entry := range bomTable {
		if entry.bom == b {
			return entry.name
		}
	}
	return "none"
}

// Bytes returns the byte sequence of the mark; NoBOM yields nil.
func (b BOM) Bytes() []byte {
	for _, entry := range bomTable {
		if entry.bom == b {
			return append([]byte(nil), entry.bytes...)
		}
	}
	return nil
}

// Len returns the number of bytes the mark occupies.
func (b BOM) Len() int {
	return len(b.Bytes())
}

// DetectBOM matches prefix against the known byte-order marks.
func DetectBOM(prefix []byte) BOM {
	for _, entry := range bomTable {
		if bytes.HasPrefix(prefix, entry.bytes) {
			return entry.bom
		}
	}
	return NoBOM
}

// ResolveBOM turns a symbolic name such as "UTF-8", "utf8" or "UTF16_LE" into its byte
// sequence. Names that are not recognised are returned as their literal bytes.
func ResolveBOM(name string) []byte {
	if name == "" {
		return nil
	}
	key := normalizeBOMName(name)
	for _, entry := range bomTable {
		if normalizeBOMName(entry.name) == key {
			return entry.bom.Bytes()
		}
	}
	return []byte(name)
}

func normalizeBOMName(name string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToUpper(name))
}
