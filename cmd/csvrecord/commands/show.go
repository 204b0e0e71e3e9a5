package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvrecord"
	"github.com/oleg578/csvrecord/internal/cli/output"
	"github.com/oleg578/csvrecord/internal/logger"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var (
		limit   int
		format  string
		records recordFlags
	)

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the records of a CSV file",
		Long: `Print the records of a CSV file as a table, JSON, YAML or CSV.

--where keeps records whose column equals a value and may be repeated.
--columns keeps the listed columns in the listed order. Positional
records (--no-header) are addressed by 1-based column number.

Examples:
  # Show a semicolon separated file
  csvrecord show --separator semicolon data.csv

  # First ten French customers, two columns
  csvrecord show --where country=FR --columns id,name --limit 10 customers.csv

  # Convert a Latin-1 file on the fly and print JSON
  csvrecord show --from ISO-8859-1 -o json legacy.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			extra, err := records.options()
			if err != nil {
				return err
			}
			dialect, err := opts.cfg.Dialect.Build()
			if err != nil {
				return err
			}

			r, err := csvrecord.OpenFile(args[0], dialect, append(opts.readerOptions(), extra...)...)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			header := r.Header()
			if header != nil && len(records.columns) > 0 {
				header = records.columns
			}

			var rows []csvrecord.Record
			for err = r.Rewind(); err == nil && r.Valid(); err = r.Next() {
				if limit > 0 && len(rows) >= limit {
					break
				}
				rows = append(rows, r.Current())
			}
			if err != nil {
				return err
			}
			logger.Info("records read", "file", args[0], "shown", len(rows), "filtered", r.Filtered())

			out := cmd.OutOrStdout()
			switch outFormat {
			case output.FormatCSV:
				return writeCSV(cmd, opts, header, rows)
			case output.FormatTable:
				table := output.NewRecordTable(header)
				for _, rec := range rows {
					table.Add(rec)
				}
				if table.Len() == 0 {
					_, err := fmt.Fprintln(out, "No records.")
					return err
				}
				return output.PrintTable(out, table)
			default:
				return output.NewPrinter(out, outFormat).Print(recordPayload(rows))
			}
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of records to print (0 prints all)")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format (table|json|yaml|csv)")
	cmd.Flags().StringArrayVar(&records.where, "where", nil, "keep records where column=value (repeatable)")
	cmd.Flags().StringSliceVar(&records.columns, "columns", nil, "comma separated columns to keep")
	return cmd
}

// writeCSV prints rows in the configured dialect, with the header first when there is one.
func writeCSV(cmd *cobra.Command, opts *globalOptions, header []string, rows []csvrecord.Record) error {
	dialect, err := outputDialect(opts.cfg.Dialect, 0, "")
	if err != nil {
		return err
	}
	w, err := csvrecord.NewWriter(cmd.OutOrStdout(),
		csvrecord.WithDialect(dialect),
		csvrecord.WithWriterHeader(false),
		csvrecord.WithWriterLogger(logger.Slog()),
	)
	if err != nil {
		return err
	}
	if header != nil {
		if err := w.Write(csvrecord.NewPositional(header...)); err != nil {
			return err
		}
	}
	for _, rec := range rows {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Flush()
}
