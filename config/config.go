package config

import (
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// DefaultRegion is used when the region argument is omitted.
const DefaultRegion = "us-east-1"

type DeploymentConfig struct {
	Region    string `mapstructure:"region"`
	StackName string `mapstructure:"stack_name"`
}

type ResolverConfig struct {
	OutputKey         string `mapstructure:"output_key"`
	FallbackOutputKey string `mapstructure:"fallback_output_key"`
}

type PollConfig struct {
	MaxAttempts  int    `mapstructure:"max_attempts"`
	InitialDelay string `mapstructure:"initial_delay"`
	MaxDelay     string `mapstructure:"max_delay"`
}

type ProbeConfig struct {
	ConnectTimeout string `mapstructure:"connect_timeout"`
	TotalTimeout   string `mapstructure:"total_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Environment string           `mapstructure:"environment"`
	Deployment  DeploymentConfig `mapstructure:"deployment"`
	Resolver    ResolverConfig   `mapstructure:"resolver"`
	Poll        PollConfig       `mapstructure:"poll"`
	Probe       ProbeConfig      `mapstructure:"probe"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

// Load builds the run configuration from defaults, an optional config file,
// environment variables, and the positional arguments. The region argument
// may be empty; the stack name is required.
func Load(region, stackName string) (*Config, error) {
	viper.SetDefault("environment", EnvDev)
	viper.SetDefault("deployment.region", DefaultRegion)
	viper.SetDefault("resolver.output_key", "ServiceEndpoint")
	viper.SetDefault("resolver.fallback_output_key", "serviceEndpoint")
	viper.SetDefault("poll.max_attempts", 12)
	viper.SetDefault("poll.initial_delay", "5s")
	viper.SetDefault("poll.max_delay", "60s")
	viper.SetDefault("probe.connect_timeout", "10s")
	viper.SetDefault("probe.total_timeout", "30s")
	viper.SetDefault("logging.level", LogLevelInfo)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	// Positional arguments win over file and environment values.
	if region != "" {
		cfg.Deployment.Region = region
	}
	if stackName != "" {
		cfg.Deployment.StackName = stackName
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&c.Deployment,
			validation.Required,
			validation.By(func(value interface{}) error {
				dc, ok := value.(DeploymentConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a DeploymentConfig")
				}
				return validation.ValidateStruct(&dc,
					validation.Field(&dc.Region, validation.Required),
					validation.Field(&dc.StackName, validation.Required),
				)
			}),
		),
		validation.Field(&c.Resolver,
			validation.Required,
			validation.By(func(value interface{}) error {
				rc, ok := value.(ResolverConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ResolverConfig")
				}
				return validation.ValidateStruct(&rc,
					validation.Field(&rc.OutputKey, validation.Required),
					validation.Field(&rc.FallbackOutputKey, validation.Required),
				)
			}),
		),
		validation.Field(&c.Poll,
			validation.Required,
			validation.By(func(value interface{}) error {
				pc, ok := value.(PollConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a PollConfig")
				}
				return validation.ValidateStruct(&pc,
					validation.Field(&pc.MaxAttempts,
						validation.Required,
						validation.Min(1),
					),
					validation.Field(&pc.InitialDelay,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&pc.MaxDelay,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Probe,
			validation.Required,
			validation.By(func(value interface{}) error {
				pc, ok := value.(ProbeConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ProbeConfig")
				}
				return validation.ValidateStruct(&pc,
					validation.Field(&pc.ConnectTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
					validation.Field(&pc.TotalTimeout,
						validation.Required,
						validation.By(validateDuration),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := time.ParseDuration(durationStr); err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 5s, 1m)")
	}

	return nil
}
