package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexich/openapi/configurator"
)

const swaggerYAML = `swagger: "2.0"
definitions:
  Zebra:
    type: string
  Apple:
    type: object
    properties:
      id:
        type: integer
`

func setupLoaderTest() *Loader {
	config := new(configurator.Config).Defaults()
	config.BackoffBase = time.Millisecond
	config.MaxRetries = 3

	return New(config, zap.NewNop())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "YAML keeps declaration order",
			input:    swaggerYAML,
			expected: []string{"Zebra", "Apple"},
		},
		{
			name:     "Tab indented JSON",
			input:    "{\n\t\"swagger\": \"2.0\",\n\t\"definitions\": {\n\t\t\"B\": {\"type\": \"string\"},\n\t\t\"A\": {\"type\": \"number\"}\n\t}\n}",
			expected: []string{"B", "A"},
		},
		{
			name:     "Missing version is read as 2.0",
			input:    "definitions:\n  Only:\n    type: string\n",
			expected: []string{"Only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document, err := Decode(context.Background(), []byte(tt.input))
			require.NoError(t, err)

			assert.Equal(t, tt.expected, document.Definitions.Keys())
		})
	}
}

func TestDecode_OpenAPI3(t *testing.T) {
	document, err := Decode(context.Background(), []byte(`openapi: 3.0.0
info:
  title: Pets
  version: "1.0"
paths:
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
`))
	require.NoError(t, err)

	pet, ok := document.Definitions.Get("Pet")
	require.True(t, ok)
	assert.Equal(t, "object", string(pet.Type))

	item, ok := document.Paths.Get("/pets/{id}")
	require.True(t, ok)
	require.NotNil(t, item.Get)
	assert.Equal(t, "getPet", item.Get.OperationID)

	ok200, ok := item.Get.Responses.Get("200")
	require.True(t, ok)
	require.NotNil(t, ok200.Schema)
	assert.Equal(t, "#/definitions/Pet", ok200.Schema.Ref)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{name: "Malformed YAML", input: "swagger: [", expected: ErrParse},
		{name: "Unknown OpenAPI version", input: "openapi: 4.0.0\n", expected: ErrVersion},
		{name: "Unknown Swagger version", input: "swagger: \"1.2\"\n", expected: ErrVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(context.Background(), []byte(tt.input))

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "unexpected error: %v", err)
		})
	}
}

func TestLoader_Load_File(t *testing.T) {
	loader := setupLoaderTest()

	path := filepath.Join(t.TempDir(), "swagger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(swaggerYAML), 0o600))

	document, err := loader.Load(context.Background(), KindFile, path)
	require.NoError(t, err)
	assert.Equal(t, 2, document.Definitions.Len())

	_, err = loader.Load(context.Background(), KindFile, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, ErrInput))
}

func TestLoader_Load_URL(t *testing.T) {
	t.Run("Retries transient failures", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}

			_, _ = w.Write([]byte(swaggerYAML))
		}))
		defer server.Close()

		document, err := setupLoaderTest().Load(context.Background(), KindURL, server.URL)
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
		assert.Equal(t, []string{"Zebra", "Apple"}, document.Definitions.Keys())
	})

	t.Run("Gives up after the configured attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := setupLoaderTest().Load(context.Background(), KindURL, server.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNetwork))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("Client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "no such document", http.StatusNotFound)
		}))
		defer server.Close()

		_, err := setupLoaderTest().Load(context.Background(), KindURL, server.URL)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNetwork))
		assert.Contains(t, err.Error(), "no such document")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("Unsupported scheme", func(t *testing.T) {
		_, err := setupLoaderTest().Load(context.Background(), KindURL, "ftp://example.com/swagger.json")
		assert.True(t, errors.Is(err, ErrInput))
	})

	t.Run("Empty location", func(t *testing.T) {
		_, err := setupLoaderTest().Load(context.Background(), KindURL, "  ")
		assert.True(t, errors.Is(err, ErrInput))
	})
}
