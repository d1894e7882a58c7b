package formatter

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lexich/openapi/configurator"
)

// Formatter pipes generated code through the configured external command,
// e.g. "prettier --parser typescript". Without a command the code is
// returned unchanged.
type Formatter struct {
	config *configurator.Config `di.inject:"config"`
	logger *zap.Logger          `di.inject:"logger"`
}

func New(config *configurator.Config, logger *zap.Logger) *Formatter {
	return &Formatter{config: config, logger: logger}
}

func (formatter *Formatter) Format(ctx context.Context, code string) (string, error) {
	args := strings.Fields(formatter.config.Formatter)
	if len(args) == 0 {
		return code, nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(code)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.WithHint(
			errors.WithDetailf(errors.Wrapf(err, "running formatter %q", args[0]), "stderr: %s", strings.TrimSpace(stderr.String())),
			"the formatter must read source from stdin and print it to stdout")
	}

	formatter.logger.Debug("code formatted", zap.String("command", args[0]), zap.Int("bytes", stdout.Len()))

	return stdout.String(), nil
}
