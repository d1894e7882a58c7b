package application

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/loader"
	"github.com/lexich/openapi/transformer"
	"github.com/lexich/openapi/writer"
)

// debounceDelay collapses the burst of events editors produce on save.
const debounceDelay = 100 * time.Millisecond

type Application struct {
	config      *configurator.Config     `di.inject:"config"`
	loader      *loader.Loader           `di.inject:"loader"`
	transformer *transformer.Transformer `di.inject:"transformer"`
	writer      *writer.Writer           `di.inject:"writer"`
	logger      *zap.Logger              `di.inject:"logger"`
}

func New(config *configurator.Config, loader *loader.Loader, transformer *transformer.Transformer, writer *writer.Writer, logger *zap.Logger) *Application {
	return &Application{config: config, loader: loader, transformer: transformer, writer: writer, logger: logger}
}

// Run loads the document at location, generates the client and writes it.
func (app *Application) Run(ctx context.Context, kind loader.Kind, location string) error {
	document, err := app.loader.Load(ctx, kind, location)
	if err != nil {
		return err
	}

	result, err := app.transformer.Transform(ctx, document)
	if err != nil {
		return err
	}

	if err := app.writer.Write(result.Code); err != nil {
		return err
	}

	app.logger.Debug("client written", zap.String("source", location), zap.String("output", app.config.Output))

	return nil
}

// Watch generates once from path and again after every change to it until
// ctx is done. Failed regenerations are logged and do not stop watching.
func (app *Application) Watch(ctx context.Context, path string) error {
	if err := app.Run(ctx, loader.KindFile, path); err != nil {
		return err
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer watcher.Close()

	// The directory is watched since editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return errors.Wrapf(err, "watching %s", filepath.Dir(target))
	}

	app.logger.Info("watching for changes", zap.String("file", target))

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			app.logger.Info("watch stopped", zap.String("file", target))
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			app.logger.Debug("file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			debounce = time.After(debounceDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			app.logger.Error("file watcher error", zap.Error(err))
		case <-debounce:
			debounce = nil
			if err := app.Run(ctx, loader.KindFile, path); err != nil {
				app.logger.Error("regeneration failed", zap.Error(err))
			}
		}
	}
}
