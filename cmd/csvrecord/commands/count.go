package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvrecord"
	"github.com/oleg578/csvrecord/internal/cli/output"
)

func newCountCmd(opts *globalOptions) *cobra.Command {
	var records recordFlags

	cmd := &cobra.Command{
		Use:   "count FILE",
		Short: "Count the records of a CSV file",
		Long: `Count the records of a CSV file.

Accepted records pass every --where condition; filtered records were read
and rejected. The header line is not counted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			accepted := 0
			for err = r.Rewind(); err == nil && r.Valid(); err = r.Next() {
				accepted++
			}
			if err != nil {
				return err
			}

			return output.SimpleTable(cmd.OutOrStdout(), [][2]string{
				{"Accepted", strconv.Itoa(accepted)},
				{"Filtered", strconv.Itoa(r.Filtered())},
				{"Columns", strconv.Itoa(len(r.Header()))},
				{"BOM", r.BOM().String()},
			})
		},
	}

	cmd.Flags().StringArrayVar(&records.where, "where", nil, "count records where column=value (repeatable)")
	return cmd
}
