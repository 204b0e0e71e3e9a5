// Package commands implements the csvrecord command-line interface.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configcmd "github.com/oleg578/csvrecord/cmd/csvrecord/commands/config"
	"github.com/oleg578/csvrecord/internal/config"
	"github.com/oleg578/csvrecord/internal/logger"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// skipConfigAnnotation marks commands that run without loading the configuration.
const skipConfigAnnotation = "csvrecord/skip-config"

// globalOptions holds the persistent flags and the configuration they resolve to.
type globalOptions struct {
	cfgFile   string
	separator string
	enclosure string
	escape    string
	from      string
	to        string
	noHeader  bool
	logLevel  string
	logFormat string

	cfg *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "csvrecord",
		Short: "csvrecord - read, filter and convert CSV files",
		Long: `csvrecord reads CSV files as keyed or positional records, with BOM
detection, encoding conversion and shared file locking.

Settings come from $XDG_CONFIG_HOME/csvrecord/config.yaml, CSVRECORD_*
environment variables and the flags below, in increasing priority.

Use "csvrecord [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/csvrecord/config.yaml)")
	flags.StringVar(&opts.separator, "separator", "", "field separator, literal or name (comma, semicolon, tab, pipe)")
	flags.StringVar(&opts.enclosure, "enclosure", "", "field enclosure character")
	flags.StringVar(&opts.escape, "escape", "", "escape character inside enclosed fields (default: doubling)")
	flags.StringVar(&opts.from, "from", "", "encoding of the input file")
	flags.StringVar(&opts.to, "to", "", "encoding of the produced values")
	flags.BoolVar(&opts.noHeader, "no-header", false, "treat the first record as data")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (DEBUG|INFO|WARN|ERROR)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (text|json)")

	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newCountCmd(opts))
	rootCmd.AddCommand(newConvertCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	cfgCmd := configcmd.NewCmd()
	cfgCmd.Annotations = map[string]string{skipConfigAnnotation: "true"}
	rootCmd.AddCommand(cfgCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd
}

// Execute runs the command tree against os.Args. It is called by main.main().
func Execute() error {
	return NewRootCmd().Execute()
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipConfigAnnotation] != "" {
			return true
		}
	}
	return false
}

// load reads the configuration, applies flag overrides and initializes the logger.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if err := o.applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}
	o.cfg = cfg
	logger.Debug("configuration loaded",
		"separator", cfg.Dialect.Separator.String(),
		"from", cfg.Dialect.FromEncoding,
		"to", cfg.Dialect.ToEncoding,
		"header", cfg.Reader.Header)
	return nil
}

func (o *globalOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	chars := []struct {
		name  string
		value string
		dst   *config.Char
	}{
		{"separator", o.separator, &cfg.Dialect.Separator},
		{"enclosure", o.enclosure, &cfg.Dialect.Enclosure},
		{"escape", o.escape, &cfg.Dialect.Escape},
	}
	for _, c := range chars {
		if !flags.Changed(c.name) {
			continue
		}
		v, err := config.ParseChar(c.value)
		if err != nil {
			return fmt.Errorf("--%s: %w", c.name, err)
		}
		*c.dst = v
	}

	if flags.Changed("from") {
		cfg.Dialect.FromEncoding = o.from
	}
	if flags.Changed("to") {
		cfg.Dialect.ToEncoding = o.to
	}
	if flags.Changed("no-header") {
		cfg.Reader.Header = !o.noHeader
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = o.logFormat
	}
	return nil
}
