package configurator

import (
	"context"
	"regexp"
	"time"

	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/heetch/confita"
	"github.com/heetch/confita/backend"
	"github.com/heetch/confita/backend/env"
	"github.com/heetch/confita/backend/file"
)

const (
	DialectModern  = "modern"
	DialectClassic = "classic"

	Stdout = "-"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

type Config struct {
	Output    string `config:"tsgen-output" yaml:"output" json:"output"`
	Dialect   string `config:"tsgen-dialect" yaml:"dialect" json:"dialect"`
	ClassName string `config:"tsgen-class-name" yaml:"class-name" json:"class-name"`
	Formatter string `config:"tsgen-formatter" yaml:"formatter" json:"formatter"`
	LogLevel  string `config:"tsgen-log-level" yaml:"log-level" json:"log-level"`

	HTTPTimeout time.Duration `config:"tsgen-http-timeout" yaml:"http-timeout" json:"http-timeout"`
	MaxRetries  int           `config:"tsgen-max-retries" yaml:"max-retries" json:"max-retries"`
	BackoffBase time.Duration `config:"tsgen-backoff-base" yaml:"backoff-base" json:"backoff-base"`

	Listen       string  `config:"tsgen-listen" yaml:"listen" json:"listen"`
	RateLimit    float64 `config:"tsgen-rate-limit" yaml:"rate-limit" json:"rate-limit"`
	RateBurst    int     `config:"tsgen-rate-burst" yaml:"rate-burst" json:"rate-burst"`
	MaxBodyBytes int64   `config:"tsgen-max-body-bytes" yaml:"max-body-bytes" json:"max-body-bytes"`

	// ConfigFile is only read from the command line.
	ConfigFile string `config:"-" yaml:"-" json:"-"`
}

func (config *Config) Defaults() *Config {
	config.Output = Stdout
	config.Dialect = DialectModern
	config.ClassName = "API"
	config.Formatter = ""
	config.LogLevel = "info"

	config.HTTPTimeout = 10 * time.Second
	config.MaxRetries = 3
	config.BackoffBase = 200 * time.Millisecond

	config.Listen = ":8080"
	config.RateLimit = 10
	config.RateBurst = 20
	config.MaxBodyBytes = 10 << 20

	return config
}

func (config *Config) Validate() error {
	return validation.ValidateStruct(config,
		validation.Field(&config.Dialect, validation.Required, validation.In(DialectModern, DialectClassic)),
		validation.Field(&config.ClassName, validation.Required, validation.Match(identifier)),
		validation.Field(&config.Output, validation.Required),
		validation.Field(&config.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&config.HTTPTimeout, validation.Min(time.Millisecond)),
		validation.Field(&config.MaxRetries, validation.Min(1), validation.Max(10)),
		validation.Field(&config.RateLimit, validation.Min(0.0)),
		validation.Field(&config.RateBurst, validation.Min(1)),
		validation.Field(&config.MaxBodyBytes, validation.Min(int64(1))),
	)
}

// Configurator fills the config bean from the optional config file and the
// environment, then applies command line overrides.
type Configurator struct {
	config    *Config `di.inject:"config"`
	overrides *Config `di.inject:"overrides"`
}

func (configurator *Configurator) PostConstruct() error {
	return Load(context.Background(), configurator.config, configurator.overrides)
}

// Load resolves config in place from the environment and the optional config
// file, then applies the non-zero fields of overrides.
func Load(ctx context.Context, config *Config, overrides *Config) error {
	// Later backends win, so the environment overrides the config file.
	var backends []backend.Backend
	if overrides != nil && overrides.ConfigFile != "" {
		backends = append(backends, file.NewBackend(overrides.ConfigFile))
	}
	backends = append(backends, env.NewBackend())

	if err := confita.NewLoader(backends...).Load(ctx, config); err != nil {
		return errors.WithHint(errors.Wrap(err, "loading configuration"),
			"check the config file and TSGEN_* environment variables")
	}

	if overrides != nil {
		if err := mergo.Merge(config, overrides, mergo.WithOverride); err != nil {
			return errors.Wrap(err, "applying command line overrides")
		}
	}

	if err := config.Validate(); err != nil {
		return errors.WithHint(errors.Wrap(err, "invalid configuration"),
			"run with --help to list the accepted values")
	}

	return nil
}
