package loader

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/lexich/openapi/configurator"
	"github.com/lexich/openapi/types"
)

// Kind tells how a location is read.
type Kind string

const (
	KindURL  Kind = "url"
	KindFile Kind = "file"
)

// Loader failures are marked with one of these; test with errors.Is.
var (
	ErrInput      = errors.New("invalid input")
	ErrNetwork    = errors.New("network failure")
	ErrParse      = errors.New("malformed document")
	ErrVersion    = errors.New("unsupported document version")
	ErrConversion = errors.New("openapi 3 conversion failure")
)

type Loader struct {
	config *configurator.Config `di.inject:"config"`
	logger *zap.Logger          `di.inject:"logger"`
}

func New(config *configurator.Config, logger *zap.Logger) *Loader {
	return &Loader{config: config, logger: logger}
}

// Load reads the document at location and decodes it.
func (loader *Loader) Load(ctx context.Context, kind Kind, location string) (*types.Document, error) {
	data, err := loader.Read(ctx, kind, location)
	if err != nil {
		return nil, err
	}

	document, err := Decode(ctx, data)
	if err != nil {
		return nil, errors.WithDetailf(err, "location: %s", location)
	}

	return document, nil
}

// Read returns the raw bytes at location.
func (loader *Loader) Read(ctx context.Context, kind Kind, location string) ([]byte, error) {
	if strings.TrimSpace(location) == "" {
		return nil, errors.Mark(errors.New("empty location"), ErrInput)
	}

	switch kind {
	case KindURL:
		u, err := url.Parse(location)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "parsing url %q", location), ErrInput)
		}

		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, errors.WithHint(
				errors.Mark(errors.Newf("unsupported url scheme %q", u.Scheme), ErrInput),
				"use the file command for local documents")
		}

		return loader.fetchWithRetry(ctx, u.String())
	case KindFile:
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "reading %s", location), ErrInput)
		}

		loader.logger.Debug("document read", zap.String("file", location), zap.Int("bytes", len(data)))

		return data, nil
	}

	return nil, errors.Mark(errors.Newf("unknown location kind %q", kind), ErrInput)
}

// fetchWithRetry retries network errors, 429 and 5xx with exponential
// backoff. Other statuses fail at once.
func (loader *Loader) fetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	backoff := loader.config.BackoffBase
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	attempts := loader.config.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	client := &http.Client{Timeout: loader.config.HTTPTimeout}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, retry, err := loader.fetch(ctx, client, rawURL)
		if err == nil {
			loader.logger.Debug("document fetched", zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Int("bytes", len(data)))
			return data, nil
		}

		if !retry {
			return nil, errors.Mark(err, ErrNetwork)
		}

		lastErr = err
		if attempt == attempts {
			break
		}

		loader.logger.Warn("fetch failed, retrying",
			zap.String("url", rawURL), zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, errors.Mark(errors.Wrap(ctx.Err(), "fetch cancelled"), ErrNetwork)
		case <-time.After(backoff):
		}

		backoff *= 2
	}

	return nil, errors.WithHint(
		errors.Mark(errors.Wrapf(lastErr, "fetching %s failed after %d attempts", rawURL, attempts), ErrNetwork),
		"check the url or raise --max-retries")
}

func (loader *Loader) fetch(ctx context.Context, client *http.Client, rawURL string) (data []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "building request")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, errors.Wrapf(err, "requesting %s", rawURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode < http.StatusMultipleChoices:
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, true, errors.Wrap(err, "reading response body")
		}

		return data, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return nil, true, errors.Newf("transient http status %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	return nil, false, errors.Newf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// Decode parses a Swagger 2.0 document in JSON or YAML. OpenAPI 3 documents
// are converted down to 2.0 first.
func Decode(ctx context.Context, data []byte) (*types.Document, error) {
	data = compactJSON(data)

	var header struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing document"), ErrParse)
	}

	switch {
	case strings.HasPrefix(header.OpenAPI, "3."):
		converted, err := downgrade(ctx, data)
		if err != nil {
			return nil, err
		}

		data = converted
	case header.OpenAPI != "":
		return nil, errors.Mark(errors.Newf("openapi version %q", header.OpenAPI), ErrVersion)
	case header.Swagger != "" && !strings.HasPrefix(header.Swagger, "2."):
		return nil, errors.Mark(errors.Newf("swagger version %q", header.Swagger), ErrVersion)
	}

	document, err := types.ParseDocument(data)
	if err != nil {
		return nil, errors.Mark(err, ErrParse)
	}

	return document, nil
}

// compactJSON strips insignificant whitespace from JSON input so tab
// indentation does not trip the YAML parser. Anything else is returned as is.
func compactJSON(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return data
	}

	value := jsontext.Value(bytes.Clone(trimmed))
	if err := value.Compact(); err != nil {
		return data
	}

	return value
}

func downgrade(ctx context.Context, data []byte) ([]byte, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "loading openapi 3 document"), ErrParse)
	}

	swagger, err := openapi2conv.FromV3(doc)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "converting to swagger 2.0"), ErrConversion)
	}

	converted, err := json.Marshal(swagger)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "encoding converted document"), ErrConversion)
	}

	return converted, nil
}
