package formatter

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexich/openapi/configurator"
)

func setupFormatterTest(command string) *Formatter {
	config := new(configurator.Config).Defaults()
	config.Formatter = command

	return New(config, zap.NewNop())
}

func TestFormatter_Format(t *testing.T) {
	t.Run("Without a command the code is kept", func(t *testing.T) {
		code, err := setupFormatterTest("").Format(context.Background(), "export type A = string;")

		require.NoError(t, err)
		assert.Equal(t, "export type A = string;", code)
	})

	t.Run("Code is piped through the command", func(t *testing.T) {
		if _, err := exec.LookPath("tr"); err != nil {
			t.Skip("tr is not available")
		}

		code, err := setupFormatterTest("tr a-z A-Z").Format(context.Background(), "export type a = string;")

		require.NoError(t, err)
		assert.Equal(t, "EXPORT TYPE A = STRING;", code)
	})

	t.Run("Failing command", func(t *testing.T) {
		_, err := setupFormatterTest("definitely-not-a-formatter-binary").Format(context.Background(), "x")

		assert.Error(t, err)
	})
}
