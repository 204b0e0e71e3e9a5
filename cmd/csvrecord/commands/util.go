package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oleg578/csvrecord"
	"github.com/oleg578/csvrecord/internal/config"
	"github.com/oleg578/csvrecord/internal/logger"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// readerOptions returns the reader options implied by the configuration.
func (o *globalOptions) readerOptions() []csvrecord.ReaderOption {
	return []csvrecord.ReaderOption{
		csvrecord.WithHeader(o.cfg.Reader.Header),
		csvrecord.WithLockPolicy(o.cfg.Reader.LockPolicy()),
		csvrecord.WithLogger(logger.Slog()),
	}
}

// recordFlags are the filtering and projection flags shared by show, count and convert.
type recordFlags struct {
	where   []string
	columns []string
}

// options turns the flags into filter and map callbacks.
func (f *recordFlags) options() ([]csvrecord.ReaderOption, error) {
	var opts []csvrecord.ReaderOption
	if len(f.where) > 0 {
		conds, err := parseConditions(f.where)
		if err != nil {
			return nil, err
		}
		opts = append(opts, csvrecord.WithFilter(whereFilter(conds)))
	}
	if len(f.columns) > 0 {
		opts = append(opts, csvrecord.WithMap(project(f.columns)))
	}
	return opts, nil
}

// condition is a single col=value equality test.
type condition struct {
	column string
	value  string
}

func parseConditions(exprs []string) ([]condition, error) {
	conds := make([]condition, 0, len(exprs))
	for _, expr := range exprs {
		column, value, ok := strings.Cut(expr, "=")
		if !ok || column == "" {
			return nil, fmt.Errorf("invalid --where %q: expected column=value", expr)
		}
		conds = append(conds, condition{column: column, value: value})
	}
	return conds, nil
}

// lookup resolves column by name on keyed records and by 1-based position otherwise.
func lookup(rec csvrecord.Record, column string) (string, bool) {
	if rec.Kind() == csvrecord.Keyed {
		return rec.Get(column)
	}
	n, err := strconv.Atoi(column)
	if err != nil {
		return "", false
	}
	return rec.Value(n - 1)
}

// whereFilter accepts records matching every condition.
func whereFilter(conds []condition) csvrecord.FilterFunc {
	return func(rec csvrecord.Record, _ int) bool {
		for _, c := range conds {
			v, ok := lookup(rec, c.column)
			if !ok || v != c.value {
				return false
			}
		}
		return true
	}
}

// project keeps the listed columns, in the listed order. Missing columns become empty.
func project(columns []string) csvrecord.MapFunc {
	return func(rec csvrecord.Record, _ int) csvrecord.Record {
		values := make([]string, len(columns))
		for i, c := range columns {
			values[i], _ = lookup(rec, c)
		}
		if rec.Kind() != csvrecord.Keyed {
			return csvrecord.NewPositional(values...)
		}
		out, err := csvrecord.NewKeyed(columns, values)
		if err != nil {
			return rec
		}
		return out
	}
}

// recordPayload converts records for JSON and YAML output.
func recordPayload(records []csvrecord.Record) []any {
	payload := make([]any, len(records))
	for i, rec := range records {
		if rec.Kind() == csvrecord.Keyed {
			payload[i] = rec.Map()
		} else {
			payload[i] = rec.Fields()
		}
	}
	return payload
}

// outputDialect keeps the characters of src and writes values already
// decoded to src's target encoding into outEncoding.
func outputDialect(src config.DialectConfig, separator config.Char, outEncoding string) (*csvrecord.Dialect, error) {
	if separator == 0 {
		separator = src.Separator
	}
	if outEncoding == "" {
		outEncoding = src.ToEncoding
	}
	return csvrecord.NewDialect(
		csvrecord.WithSeparator(separator.Byte()),
		csvrecord.WithEnclosure(src.Enclosure.Byte()),
		csvrecord.WithEscape(src.Escape.Byte()),
		csvrecord.WithEncoding(src.ToEncoding, outEncoding),
	)
}
