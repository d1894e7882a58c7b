package transformer

import (
	"context"

	"go.uber.org/zap"

	"github.com/lexich/openapi/formatter"
	"github.com/lexich/openapi/generator"
	"github.com/lexich/openapi/types"
)

// Transformer turns a decoded document into formatted client code.
type Transformer struct {
	generator *generator.Generator `di.inject:"generator"`
	formatter *formatter.Formatter `di.inject:"formatter"`
	logger    *zap.Logger          `di.inject:"logger"`
}

func New(generator *generator.Generator, formatter *formatter.Formatter, logger *zap.Logger) *Transformer {
	return &Transformer{generator: generator, formatter: formatter, logger: logger}
}

// Transform generates and formats the client. Warnings are logged and kept
// on the result.
func (transformer *Transformer) Transform(ctx context.Context, document *types.Document) (*generator.Result, error) {
	result := transformer.generator.Generate(document)

	for _, warning := range result.Warnings {
		transformer.logger.Warn("generation warning",
			zap.String("scope", warning.Scope),
			zap.Error(warning.Err()))
	}

	code, err := transformer.formatter.Format(ctx, result.Code)
	if err != nil {
		return nil, err
	}
	result.Code = code

	transformer.logger.Info("client generated",
		zap.Int("definitions", result.Definitions),
		zap.Int("operations", result.Operations),
		zap.Int("warnings", len(result.Warnings)))

	return result, nil
}
