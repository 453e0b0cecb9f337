package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool
	Format     string // "json" | "text"
	Color      string // "auto" | "always" | "never"

	// Logger is built from Verbose before a command runs unless one is
	// already set.
	Logger *zap.Logger

	v *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidColorModes defines the allowed values of --color.
var ValidColorModes = []string{"auto", "always", "never"}

// NewRootCommand creates the root command for the typeql CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	opts.v = viper.New()

	cmd := &cobra.Command{
		Use:   "typeql",
		Short: "typeql - query model, validator and canonical printer",
		Long: `Check, format and normalise TypeQL queries written as CUE documents.

Every query is validated against the language's well-formedness rules and
rendered as canonical text. Results can be recorded to a SQLite catalog.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(opts); err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			if opts.Logger == nil {
				opts.Logger = newLogger(opts.Verbose, cmd.ErrOrStderr())
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigFile, "config", "", "config file (default ./typeql.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("format", "text", "output format (json|text)")
	flags.String("color", "auto", "colorize text output (auto|always|never)")
	bindFlags(opts.v, flags, "verbose", "format", "color")

	// Add subcommands
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewFmtCommand(opts))
	cmd.AddCommand(NewNormaliseCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// bindFlags binds each flag to the viper key of the same name. Binding only
// fails for a flag that was never declared, which is a programming error.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			panic(fmt.Sprintf("cli: bind flag %q: %v", key, err))
		}
	}
}

// loadConfig layers flags over TYPEQL_* environment variables over the
// config file, and copies the result into opts.
func loadConfig(opts *RootOptions) error {
	v := opts.v
	v.SetEnvPrefix("TYPEQL")
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("typeql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	opts.Verbose = v.GetBool("verbose")
	opts.Format = v.GetString("format")
	opts.Color = v.GetString("color")

	if !isValidFormat(opts.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
	}
	if !slices.Contains(ValidColorModes, opts.Color) {
		return fmt.Errorf("invalid color mode %q: must be one of %v", opts.Color, ValidColorModes)
	}
	switch opts.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}
	return nil
}

// newLogger builds a development logger when verbose and a production one
// otherwise, writing to w.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	config := zap.NewProductionConfig()
	encoder := zapcore.NewJSONEncoder(config.EncoderConfig)
	if verbose {
		config = zap.NewDevelopmentConfig()
		encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), config.Level)
	return zap.New(core)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
