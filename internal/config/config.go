// Package config loads the interceptord configuration.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix prefixes every environment variable overriding the configuration.
	// Nested keys are separated by a double underscore: INTERCEPTOR_SERVER__ADDR.
	EnvPrefix = "INTERCEPTOR_"
	// PathEnv names the configuration file, config.yaml by default.
	PathEnv = EnvPrefix + "CONFIG"

	defaultPath = "config.yaml"
)

// Interceptor types.
const (
	TypeRequireHeader = "require_header"
	TypeSetHeader     = "set_header"
	TypeDefaultQuery  = "default_query"
	TypeRejectPath    = "reject_path"
	TypeRespond       = "respond"
	TypeWebhook       = "webhook"
)

// Webhook failure policies.
const (
	OnErrorAllow = "allow"
	OnErrorDeny  = "deny"
	OnErrorFail  = "fail"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
}

type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
	// Upstream is the base URL requests are proxied to. Without it, the server echoes the
	// intercepted request.
	Upstream        string        `koanf:"upstream" validate:"omitempty,url"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name" validate:"required_if=Enabled true"`
}

type PipelineConfig struct {
	// GraphFile is where the pipeline graph is written on shutdown, in DOT format. Empty disables it.
	GraphFile    string              `koanf:"graph_file"`
	Interceptors []InterceptorConfig `koanf:"interceptors" validate:"required,min=1,dive"`
}

// InterceptorConfig describes one built-in interceptor. Which fields are read depends on Type.
type InterceptorConfig struct {
	Name string `koanf:"name" validate:"required"`
	Type string `koanf:"type" validate:"required,oneof=require_header set_header default_query reject_path respond webhook"`

	// require_header, set_header
	Header string `koanf:"header" validate:"required_if=Type require_header,required_if=Type set_header"`
	// set_header, default_query
	Value string `koanf:"value"`
	// default_query
	Key string `koanf:"key" validate:"required_if=Type default_query"`
	// reject_path, respond: path prefixes the interceptor applies to
	Paths []string `koanf:"paths" validate:"required_if=Type reject_path,required_if=Type respond"`
	// require_header, respond
	Status int    `koanf:"status" validate:"omitempty,gte=100,lte=599"`
	Body   string `koanf:"body"`

	// webhook
	URL     string            `koanf:"url" validate:"required_if=Type webhook,omitempty,url"`
	Timeout time.Duration     `koanf:"timeout" validate:"gte=0"`
	Retries int               `koanf:"retries" validate:"gte=0"`
	OnError string            `koanf:"on_error" validate:"omitempty,oneof=allow deny fail"`
	Headers map[string]string `koanf:"headers"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "30s",
	"server.shutdown_timeout": "10s",
	"logging.level":           "info",
	"logging.format":          "json",
	"telemetry.service_name":  "interceptord",
}

// Path returns the configuration file to load.
func Path() string {
	if path := os.Getenv(PathEnv); path != "" {
		return path
	}

	return defaultPath
}

// Load reads path, then the INTERCEPTOR_ environment variables, and validates the result.
// A missing file is not an error, the environment alone may configure the service.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(file.Provider(path), yaml.Parser())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "unable to load config file %s", path)
	}

	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load environment")
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			err = k.Set(key, value)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to set default %s", key)
			}
		}
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration is complete and consistent.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err != nil {
		return errors.Wrap(err, "invalid config")
	}

	names := make(map[string]struct{}, len(c.Pipeline.Interceptors))
	for _, ic := range c.Pipeline.Interceptors {
		if _, ok := names[ic.Name]; ok {
			return errors.Errorf("invalid config: interceptor name %q is used more than once", ic.Name)
		}

		names[ic.Name] = struct{}{}
	}

	return nil
}
