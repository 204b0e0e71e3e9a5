package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvrecord"
	"github.com/oleg578/csvrecord/internal/config"
	"github.com/oleg578/csvrecord/internal/logger"
)

func newConvertCmd(opts *globalOptions) *cobra.Command {
	var (
		outSeparator string
		outEncoding  string
		bom          string
		noOutHeader  bool
		crlf         bool
		records      recordFlags
	)

	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a CSV file in another dialect",
		Long: `Read IN with the input dialect and write its records to OUT.

The output keeps the input enclosure and escape characters. The separator,
encoding, BOM and line endings can be changed. OUT is truncated.

Examples:
  # Semicolon separated Latin-1 to comma separated UTF-8 with a BOM
  csvrecord convert --separator semicolon --from ISO-8859-1 \
    --out-separator comma --bom UTF-8 legacy.csv clean.csv

  # Extract two columns of matching rows
  csvrecord convert --where status=active --columns id,email in.csv out.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			sep, err := config.ParseChar(outSeparator)
			if err != nil {
				return fmt.Errorf("--out-separator: %w", err)
			}
			writeDialect, err := outputDialect(opts.cfg.Dialect, sep, outEncoding)
			if err != nil {
				return err
			}
			readDialect, err := opts.cfg.Dialect.Build()
			if err != nil {
				return err
			}
			extra, err := records.options()
			if err != nil {
				return err
			}

			wcfg := opts.cfg.Writer
			if cmd.Flags().Changed("bom") {
				wcfg.BOM = bom
			}
			if noOutHeader {
				wcfg.Header = false
			}
			if cmd.Flags().Changed("crlf") {
				wcfg.CRLF = crlf
			}

			n, err := convertFile(in, out, readDialect,
				append(opts.readerOptions(), extra...),
				[]csvrecord.WriterOption{
					csvrecord.WithDialect(writeDialect),
					csvrecord.WithBOM(wcfg.BOM),
					csvrecord.WithWriterHeader(wcfg.Header),
					csvrecord.WithCRLF(wcfg.CRLF),
					csvrecord.WithWriterLogger(logger.Slog()),
				})
			if err != nil {
				return err
			}

			logger.Info("file converted", "in", in, "out", out, "records", n)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", n, out)
			return err
		},
	}

	cmd.Flags().StringVar(&outSeparator, "out-separator", "", "output separator (default: input separator)")
	cmd.Flags().StringVar(&outEncoding, "out-encoding", "", "output encoding (default: --to)")
	cmd.Flags().StringVar(&bom, "bom", "", "BOM to write: UTF-8, UTF-16LE, ... or a literal prefix")
	cmd.Flags().BoolVar(&noOutHeader, "no-out-header", false, "do not write a header line")
	cmd.Flags().BoolVar(&crlf, "crlf", false, "terminate lines with CRLF")
	cmd.Flags().StringArrayVar(&records.where, "where", nil, "keep records where column=value (repeatable)")
	cmd.Flags().StringSliceVar(&records.columns, "columns", nil, "comma separated columns to keep")
	return cmd
}

// convertFile streams the records of in into out and returns how many were written.
// The output is only created once the input has been opened, and never when both name the same file.
func convertFile(in, out string, dialect *csvrecord.Dialect, ropts []csvrecord.ReaderOption, wopts []csvrecord.WriterOption) (n int, err error) {
	if err := checkDistinct(in, out); err != nil {
		return 0, err
	}

	r, err := csvrecord.OpenFile(in, dialect, ropts...)
	if err != nil {
		return 0, err
	}
	defer func() { err = errors.Join(err, r.Close()) }()

	f, err := os.Create(out)
	if err != nil {
		return 0, &csvrecord.ResourceError{Op: "create", Path: out, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &csvrecord.ResourceError{Op: "close", Path: out, Err: cerr}
		}
	}()

	w, err := csvrecord.NewWriter(f, wopts...)
	if err != nil {
		return 0, err
	}
	for err = r.Rewind(); err == nil && r.Valid(); err = r.Next() {
		if err := w.Write(r.Current()); err != nil {
			return n, err
		}
		n++
	}
	if err != nil {
		return n, err
	}
	return n, w.Flush()
}

// checkDistinct fails when out already exists as the same file as in,
// including through links. Truncating it would destroy the input.
func checkDistinct(in, out string) error {
	inInfo, err := os.Stat(in)
	if err != nil {
		// OpenFile reports a missing input.
		return nil
	}
	outInfo, err := os.Stat(out)
	if err != nil {
		return nil
	}
	if os.SameFile(inInfo, outInfo) {
		return fmt.Errorf("input and output are the same file: %s", out)
	}
	return nil
}
