package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/turtacn/obsdemo/pkg/constants"
	"github.com/turtacn/obsdemo/pkg/logger"
)

// Loader wraps a viper instance so the config file can be watched after the first load.
type Loader struct {
	v   *viper.Viper
	log logger.Logger
}

// NewLoader creates a Loader with defaults, search paths and env bindings applied.
func NewLoader(log logger.Logger) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/obsdemo/")
	v.AddConfigPath(".")

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The dependency target keeps its historical un-prefixed variable names.
	_ = v.BindEnv("redis.host", "REDIS_HOST", constants.EnvPrefix+"_REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT", constants.EnvPrefix+"_REDIS_PORT")

	return &Loader{v: v, log: log}
}

// SetConfigFile points the loader at an explicit file instead of the search paths.
func (l *Loader) SetConfigFile(path string) {
	l.v.SetConfigFile(path)
}

// Load reads the config file (if any), overlays the environment and validates.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		l.log.Debug(context.Background(), "No config file found, using defaults and environment")
	} else {
		l.log.Info(context.Background(), "Loaded config file", logger.String("file", l.v.ConfigFileUsed()))
	}

	return l.decode()
}

// Watch reloads the config file on change and hands the validated result to onChange.
// Invalid edits are logged and ignored.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			l.log.Warn(context.Background(), "Ignoring invalid config change",
				logger.String("file", e.Name), logger.Error(err))
			return
		}
		l.log.Info(context.Background(), "Config reloaded", logger.String("file", e.Name))
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(log logger.Logger) (*Config, error) {
	return NewLoader(log).Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", constants.DefaultHTTPHost)
	v.SetDefault("server.port", constants.DefaultHTTPPort)
	v.SetDefault("server.read_timeout", constants.DefaultReadTimeout)
	v.SetDefault("server.write_timeout", constants.DefaultWriteTimeout)
	v.SetDefault("server.idle_timeout", constants.DefaultIdleTimeout)
	v.SetDefault("server.shutdown_timeout", constants.DefaultShutdownTimeout)
	v.SetDefault("server.pprof_enabled", false)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("redis.host", constants.DefaultRedisHost)
	v.SetDefault("redis.port", constants.DefaultRedisPort)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", constants.DefaultRedisDialTimeout)
	v.SetDefault("redis.read_timeout", constants.DefaultRedisReadTimeout)

	v.SetDefault("log.level", string(constants.LogLevelInfo))
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.path_label", constants.PathLabelRaw)
	v.SetDefault("metrics.runtime_collectors", true)
	v.SetDefault("metrics.buckets", []float64{})

	v.SetDefault("work.default_ms", constants.DefaultWorkMs)
	v.SetDefault("work.max_ms", 0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sampling_rate", constants.DefaultSamplingRate)
}

//Personal.AI order the ending
