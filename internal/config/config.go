// Package config loads the screener configuration file.
package config

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-screener/internal/api"
	"github.com/rxtech-lab/argo-screener/internal/classifier"
	"github.com/rxtech-lab/argo-screener/internal/indicator"
	"github.com/rxtech-lab/argo-screener/internal/pipeline"
	"github.com/rxtech-lab/argo-screener/internal/scheduler"
	"github.com/rxtech-lab/argo-screener/internal/store"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
	"github.com/rxtech-lab/argo-screener/pkg/marketdata"
)

// Environment variables that override secrets in the file.
const (
	EnvPolygonAPIKey = "POLYGON_API_KEY"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvLogLevel      = "SCREENER_LOG_LEVEL"
)

// Config is the root of the YAML configuration file.
type Config struct {
	LogLevel   string            `yaml:"log_level" json:"log_level" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error,default=info" validate:"required,oneof=debug info warn error"`
	Store      store.Config      `yaml:"store" json:"store" jsonschema:"title=Store,description=Where bars and indicators are kept"`
	Indicator  indicator.Config  `yaml:"indicator" json:"indicator" jsonschema:"title=Indicator,description=Indicator warm-up rules"`
	Pipeline   pipeline.Config   `yaml:"pipeline" json:"pipeline" jsonschema:"title=Pipeline,description=Batch indicator recomputation"`
	Classifier classifier.Config `yaml:"classifier" json:"classifier" jsonschema:"title=Classifier,description=Training and persistence of the signal classifier"`
	MarketData marketdata.Config `yaml:"market_data" json:"market_data" jsonschema:"title=Market Data,description=Polygon.io download job"`
	Server     api.Config        `yaml:"server" json:"server" jsonschema:"title=Server,description=HTTP API"`
	Scheduler  scheduler.Config  `yaml:"scheduler" json:"scheduler" jsonschema:"title=Scheduler,description=Cron jobs run by serve"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Store:      store.DefaultConfig(),
		Indicator:  indicator.DefaultConfig(),
		Pipeline:   pipeline.DefaultConfig(),
		Classifier: classifier.DefaultConfig(),
		MarketData: marketdata.DefaultConfig(),
		Server:     api.DefaultConfig(),
		Scheduler:  scheduler.DefaultConfig(),
	}
}

// Load reads path on top of the defaults, then applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
		}

		if err := Parse(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse decodes YAML into cfg, keeping values of keys the document omits.
func Parse(data []byte, cfg *Config) error {
	if len(data) == 0 {
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvPolygonAPIKey); v != "" {
		c.MarketData.ApiKey = v
	}

	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.Store.Driver = store.DriverPostgres
		c.Store.DSN = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := validator.New().Var(c.LogLevel, "required,oneof=debug info warn error"); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid log_level", err)
	}

	validators := []func() error{
		c.Store.Validate,
		c.Indicator.Validate,
		c.Pipeline.Validate,
		c.Classifier.Validate,
		c.MarketData.Validate,
		c.Server.Validate,
		c.Scheduler.Validate,
	}

	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}

	return nil
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Schema returns the JSON schema of the configuration file.
func Schema() (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	r.FieldNameTag = "yaml"
	schema := r.Reflect(&Config{}) //nolint:exhaustruct // Empty config for schema generation

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}
