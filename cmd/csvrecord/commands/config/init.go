package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oleg578/csvrecord/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default csvrecord configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/csvrecord/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  csvrecord config init

  # Initialize with custom path
  csvrecord config init --config ./csvrecord.yaml

  # Force overwrite existing config
  csvrecord config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")

			var configPath string
			var err error

			if configFile != "" {
				err = config.InitConfigToPath(configFile, force)
				configPath = configFile
			} else {
				configPath, err = config.InitConfig(force)
			}

			if err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", configPath)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing config file")
	return cmd
}
