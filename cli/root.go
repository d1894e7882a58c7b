package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lexich/openapi/application"
	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/loader"
	"github.com/lexich/openapi/server"
)

// Components are the wired beans the commands drive.
type Components struct {
	App    *application.Application
	Server *server.Server
}

// Bootstrapper wires the components from the command line overrides.
type Bootstrapper func(overrides *configurator.Config, logger *zap.Logger) (*Components, error)

// NewRootCmd constructs the root command. bootstrap runs once per command,
// after flags are parsed.
func NewRootCmd(bootstrap Bootstrapper) *cobra.Command {
	overrides := &configurator.Config{}
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:           "tsgen",
		Short:         "Generate a TypeScript client from a Swagger 2.0 document",
		Long:          "tsgen renders the definitions and operations of a Swagger 2.0 (or OpenAPI 3) document as TypeScript interfaces and an abstract API class.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return newUsageError(fmt.Sprintf("unknown command %q for %q\n\n%s", args[0], cmd.CommandPath(), cmd.UsageString()))
			}

			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			logger, err = newLogger(overrides.LogLevel)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&overrides.ConfigFile, "config", "c", "", "Config file path (YAML or JSON)")
	flags.StringVarP(&overrides.Output, "output", "o", "", `Output file, "-" for stdout`)
	flags.StringVar(&overrides.Dialect, "dialect", "", "Output dialect (modern|classic)")
	flags.StringVar(&overrides.ClassName, "class-name", "", "Name of the generated abstract class")
	flags.StringVar(&overrides.Formatter, "formatter", "", `Formatter command reading stdin, e.g. "prettier --parser typescript"`)
	flags.StringVar(&overrides.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	flags.DurationVar(&overrides.HTTPTimeout, "http-timeout", 0, "Timeout of each fetch attempt")
	flags.IntVar(&overrides.MaxRetries, "max-retries", 0, "Fetch attempts before giving up")

	components := func() (*Components, error) {
		return bootstrap(overrides, logger)
	}

	cmd.AddCommand(newURLCmd(components), newFileCmd(components), newServeCmd(components, overrides))
	setUsageErrors(cmd)

	return cmd
}

func newURLCmd(components func() (*Components, error)) *cobra.Command {
	return &cobra.Command{
		Use:     "url <locator>",
		Short:   "Generate from a document served over http(s)",
		Example: "  tsgen url https://petstore.swagger.io/v2/swagger.json -o api.ts",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wired, err := components()
			if err != nil {
				return err
			}

			return wired.App.Run(cmd.Context(), loader.KindURL, args[0])
		},
	}
}

func newFileCmd(components func() (*Components, error)) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "file <path>",
		Short:   "Generate from a local document",
		Example: "  tsgen file swagger.yaml -o src/api.ts --watch",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wired, err := components()
			if err != nil {
				return err
			}

			if watch {
				return wired.App.Watch(cmd.Context(), args[0])
			}

			return wired.App.Run(cmd.Context(), loader.KindFile, args[0])
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate whenever the document changes")

	return cmd
}

func newServeCmd(components func() (*Components, error), overrides *configurator.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generation over HTTP (POST /generate)",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			wired, err := components()
			if err != nil {
				return err
			}

			return wired.Server.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&overrides.Listen, "listen", "", "Address to listen on")
	cmd.Flags().Float64Var(&overrides.RateLimit, "rate-limit", 0, "Allowed generate requests per second")

	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return newUsageError(fmt.Sprintf("%v\n\n%s", err, cmd.UsageString()))
		}

		return nil
	}
}

// setUsageErrors turns flag parsing errors of cmd and its children into
// usage errors.
func setUsageErrors(cmd *cobra.Command) {
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
	})

	for _, child := range cmd.Commands() {
		setUsageErrors(child)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}

	parsed, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, newUsageError(fmt.Sprintf("invalid --log-level %q", level))
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parsed)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}

	return logger, nil
}
