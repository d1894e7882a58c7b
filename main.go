package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/goioc/di"
	"go.uber.org/zap"

	"github.com/lexich/openapi/application"
	"github.com/lexich/openapi/cli"
	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/formatter"
	"github.com/lexich/openapi/generator"
	"github.com/lexich/openapi/loader"
	"github.com/lexich/openapi/server"
	"github.com/lexich/openapi/transformer"
	"github.com/lexich/openapi/writer"
)

func bootstrap(overrides *configurator.Config, logger *zap.Logger) (*cli.Components, error) {
	_, _ = di.RegisterBeanInstance("config", new(configurator.Config).Defaults())
	_, _ = di.RegisterBeanInstance("overrides", overrides)
	_, _ = di.RegisterBeanInstance("logger", logger)
	_, _ = di.RegisterBean("configurator", reflect.TypeOf((*configurator.Configurator)(nil)))
	_, _ = di.RegisterBean("normalizer", reflect.TypeOf((*generator.Normalizer)(nil)))
	_, _ = di.RegisterBean("typeRenderer", reflect.TypeOf((*generator.Type)(nil)))
	_, _ = di.RegisterBean("generator", reflect.TypeOf((*generator.Generator)(nil)))
	_, _ = di.RegisterBean("loader", reflect.TypeOf((*loader.Loader)(nil)))
	_, _ = di.RegisterBean("formatter", reflect.TypeOf((*formatter.Formatter)(nil)))
	_, _ = di.RegisterBean("writer", reflect.TypeOf((*writer.Writer)(nil)))
	_, _ = di.RegisterBean("transformer", reflect.TypeOf((*transformer.Transformer)(nil)))
	_, _ = di.RegisterBean("app", reflect.TypeOf((*application.Application)(nil)))
	_, _ = di.RegisterBean("server", reflect.TypeOf((*server.Server)(nil)))

	if err := di.InitializeContainer(); err != nil {
		return nil, err
	}

	return &cli.Components{
		App:    di.GetInstance("app").(*application.Application),
		Server: di.GetInstance("server").(*server.Server),
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd(bootstrap).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hints)
		}

		stop()
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}

		os.Exit(1)
	}
}
