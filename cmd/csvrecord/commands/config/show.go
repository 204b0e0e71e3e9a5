package config

import (
	"github.com/spf13/cobra"

	"github.com/oleg578/csvrecord/internal/cli/output"
	"github.com/oleg578/csvrecord/internal/config"
)

func newShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration after defaults and CSVRECORD_* environment
variables are applied.

By default outputs YAML format. Use --output to change format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			outFormat, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			switch outFormat {
			case output.FormatJSON:
				return output.PrintJSON(cmd.OutOrStdout(), cfg)
			default:
				return output.PrintYAML(cmd.OutOrStdout(), cfg)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format (yaml|json)")
	return cmd
}
