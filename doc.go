// # csvrecord: Streaming CSV Records for Go
//
// csvrecord reads delimited text into structured records and writes them back. It is built on a
// high-throughput RFC 4180 tokenizer and adds the pieces a data pipeline usually needs on top of it.
//
// # Features
//
// - Pull-based Reader with header capture, byte-order-mark skipping, and rewind to the first data line.
// - Per-record map and filter callbacks; rejected records are skipped without breaking iteration.
// - Field transcoding between character encodings backed by golang.org/x/text.
// - Writer with BOM emission and header inference from the first keyed record.
// - Configurable separator, enclosure and escape characters through an immutable Dialect.
// - Structured errors: ConfigError, ResourceError, RecordShapeError, EncodingError and ParseError.
//
// # Getting Started
//
//	dialect, err := csvrecord.NewDialect(csvrecord.WithSeparator(';'))
//	if err != nil {
//		return err
//	}
//	r, err := csvrecord.OpenFile("people.csv", dialect)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	for err = r.Rewind(); err == nil && r.Valid(); err = r.Next() {
//		name, _ := r.Current().Get("name")
//		fmt.Println(r.Index(), name)
//	}
//
// The lower-level RawReader and RawWriter are exported for callers that only need the tokenizer.
package csvrecord
