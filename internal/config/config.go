package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the application's configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Work    WorkConfig    `mapstructure:"work"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	PprofEnabled    bool          `mapstructure:"pprof_enabled"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig points the readiness probe at its dependency.
// Host and Port are also bound to the bare REDIS_HOST / REDIS_PORT variables.
type RedisConfig struct {
	Host        string        `mapstructure:"host" validate:"required"`
	Port        int           `mapstructure:"port" validate:"min=1,max=65535"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error fatal"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
}

type MetricsConfig struct {
	// PathLabel is "raw" (request URL path) or "route" (matched route template).
	PathLabel         string    `mapstructure:"path_label" validate:"oneof=raw route"`
	RuntimeCollectors bool      `mapstructure:"runtime_collectors"`
	Buckets           []float64 `mapstructure:"buckets"`
}

type WorkConfig struct {
	DefaultMs int `mapstructure:"default_ms" validate:"min=0"`
	// MaxMs caps /work; 0 leaves it unbounded.
	MaxMs int `mapstructure:"max_ms" validate:"min=0"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint" validate:"required_if=Enabled true"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate" validate:"min=0,max=1"`
}

var validate = newValidator()

// newValidator reports fields by their mapstructure keys, e.g. "metrics.path_label".
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fe := verrs[0]
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			return fmt.Errorf("%s: must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%s: must satisfy %s, got %v", field, fe.Tag(), fe.Value())
	}

	for i := 1; i < len(c.Metrics.Buckets); i++ {
		if c.Metrics.Buckets[i] <= c.Metrics.Buckets[i-1] {
			return fmt.Errorf("metrics.buckets must be strictly increasing")
		}
	}
	if c.Work.MaxMs > 0 && c.Work.DefaultMs > c.Work.MaxMs {
		return fmt.Errorf("work.default_ms (%d) exceeds work.max_ms (%d)", c.Work.DefaultMs, c.Work.MaxMs)
	}
	return nil
}

//Personal.AI order the ending
