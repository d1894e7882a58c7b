package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexich/openapi/application"
	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/formatter"
	"github.com/lexich/openapi/generator"
	"github.com/lexich/openapi/loader"
	"github.com/lexich/openapi/server"
	"github.com/lexich/openapi/transformer"
	"github.com/lexich/openapi/writer"
)

const document = `swagger: "2.0"
paths:
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          type: string
`

func testBootstrap(overrides *configurator.Config, logger *zap.Logger) (*Components, error) {
	config := new(configurator.Config).Defaults()
	if err := configurator.Load(context.Background(), config, overrides); err != nil {
		return nil, err
	}

	transform := transformer.New(generator.New(config), formatter.New(config, logger), logger)

	return &Components{
		App:    application.New(config, loader.New(config, logger), transform, writer.New(config, nil), logger),
		Server: server.New(config, transform, logger),
	}, nil
}

func execute(args ...string) error {
	cmd := NewRootCmd(testBootstrap)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	return cmd.ExecuteContext(context.Background())
}

func TestRootCmd_File(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "swagger.yaml")
	output := filepath.Join(dir, "api.ts")
	require.NoError(t, os.WriteFile(source, []byte(document), 0o600))

	require.NoError(t, execute("file", source, "-o", output, "--dialect", "classic", "--class-name", "Pets", "--log-level", "error"))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "export abstract class Pets<TOptions = {}>")
	assert.Contains(t, string(content), "get(param: IGetPetRequest & TOptions): Promise<unknown>;")
}

func TestRootCmd_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(document))
	}))
	defer server.Close()

	output := filepath.Join(t.TempDir(), "api.ts")
	require.NoError(t, execute("url", server.URL, "--output", output, "--log-level", "error"))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(content), "export interface IPathGetPet {\n  id: string;\n}")
}

func TestRootCmd_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Missing file argument", args: []string{"file"}},
		{name: "Too many url arguments", args: []string{"url", "a", "b"}},
		{name: "Serve takes no arguments", args: []string{"serve", "extra"}},
		{name: "Unknown flag", args: []string{"file", "x.yaml", "--nope"}},
		{name: "Unknown command", args: []string{"frobnicate"}},
		{name: "Invalid log level", args: []string{"--log-level", "loud", "file", "x.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(tt.args...)

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUsage), "unexpected error: %v", err)
		})
	}
}

func TestRootCmd_InvalidConfiguration(t *testing.T) {
	err := execute("file", "x.yaml", "--dialect", "weird", "--log-level", "error")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUsage))
	assert.Contains(t, err.Error(), "invalid configuration")
}
