package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultOperationTimeout bounds a backend call when the host sets no deadline.
	DefaultOperationTimeout = 10 * time.Minute

	// DefaultResponseMargin is reserved before the host deadline for building
	// and returning the response envelope.
	DefaultResponseMargin = 10 * time.Second

	DefaultDimension = 1536
)

// Signing services accepted for the OpenSearch admin API.
const (
	ServiceServerless = "aoss"
	ServiceDomain     = "es"
)

// Vector field naming modes.
const (
	FieldModeSuffix = "suffix"
	FieldModeFixed  = "fixed"
)

// Invocation modes of the Lambda entry points.
const (
	InvocationProvider     = "provider"
	InvocationServiceToken = "service-token"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Region           string
	LogLevel         string
	LogFormat        string
	SigningService   string
	OperationTimeout time.Duration
	ResponseMargin   time.Duration
	VectorDimension  int
	VectorFieldMode  string
	InvocationMode   string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("signing_service", ServiceServerless)
	v.SetDefault("operation_timeout", DefaultOperationTimeout)
	v.SetDefault("response_margin", DefaultResponseMargin)
	v.SetDefault("vector_dimension", DefaultDimension)
	v.SetDefault("vector_field_mode", FieldModeSuffix)
	v.SetDefault("invocation_mode", InvocationProvider)

	bindings := map[string][]string{
		"region":            {"AWS_REGION", "AWS_DEFAULT_REGION"},
		"log_level":         {"LOG_LEVEL"},
		"log_format":        {"LOG_FORMAT"},
		"signing_service":   {"SIGNING_SERVICE"},
		"operation_timeout": {"OPERATION_TIMEOUT"},
		"response_margin":   {"RESPONSE_MARGIN"},
		"vector_dimension":  {"VECTOR_DIMENSION"},
		"vector_field_mode": {"VECTOR_FIELD_MODE"},
		"invocation_mode":   {"INVOCATION_MODE"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{
		Region:           strings.TrimSpace(v.GetString("region")),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        strings.ToLower(v.GetString("log_format")),
		SigningService:   strings.ToLower(v.GetString("signing_service")),
		OperationTimeout: v.GetDuration("operation_timeout"),
		ResponseMargin:   v.GetDuration("response_margin"),
		VectorDimension:  v.GetInt("vector_dimension"),
		VectorFieldMode:  strings.ToLower(v.GetString("vector_field_mode")),
		InvocationMode:   strings.ToLower(v.GetString("invocation_mode")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch c.SigningService {
	case ServiceServerless, ServiceDomain:
	default:
		return fmt.Errorf("invalid SIGNING_SERVICE %q: want %q or %q", c.SigningService, ServiceServerless, ServiceDomain)
	}

	switch c.VectorFieldMode {
	case FieldModeSuffix, FieldModeFixed:
	default:
		return fmt.Errorf("invalid VECTOR_FIELD_MODE %q: want %q or %q", c.VectorFieldMode, FieldModeSuffix, FieldModeFixed)
	}

	switch c.InvocationMode {
	case InvocationProvider, InvocationServiceToken:
	default:
		return fmt.Errorf("invalid INVOCATION_MODE %q: want %q or %q", c.InvocationMode, InvocationProvider, InvocationServiceToken)
	}

	if c.VectorDimension <= 0 {
		return fmt.Errorf("invalid VECTOR_DIMENSION %d: must be positive", c.VectorDimension)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("invalid OPERATION_TIMEOUT %s: must be positive", c.OperationTimeout)
	}
	if c.ResponseMargin < 0 {
		return fmt.Errorf("invalid RESPONSE_MARGIN %s: must not be negative", c.ResponseMargin)
	}
	return nil
}

// RequireRegion returns an error when no region is configured. The request
// signer cannot work without one.
func (c *Config) RequireRegion() error {
	if c.Region == "" {
		return fmt.Errorf("AWS_REGION is not set")
	}
	return nil
}
