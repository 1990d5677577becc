package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// OutputsAPI reads a single output value from a deployment stack.
// Implementations return an empty string when the key is absent.
type OutputsAPI interface {
	StackOutput(ctx context.Context, region, stackName, key string) (string, error)
}

// ErrEndpointNotFound means neither output key held a usable endpoint.
var ErrEndpointNotFound = errors.New("endpoint not found; deployment may be incomplete")

// Config identifies the deployment to resolve and the output keys to try.
type Config struct {
	Region      string
	StackName   string
	OutputKey   string
	FallbackKey string
}

// Resolver performs a single-pass endpoint lookup. Propagation delay is the
// poller's problem; a lookup is never retried here.
type Resolver struct {
	cfg     Config
	outputs OutputsAPI
	log     *slog.Logger
}

func New(cfg Config, outputs OutputsAPI, log *slog.Logger) (*Resolver, error) {
	if cfg.StackName == "" {
		return nil, errors.New("resolver: stack name required")
	}
	if cfg.OutputKey == "" {
		return nil, errors.New("resolver: output key required")
	}
	if outputs == nil {
		return nil, errors.New("resolver: outputs API required")
	}
	return &Resolver{cfg: cfg, outputs: outputs, log: log}, nil
}

// Resolve returns the service's base endpoint, guaranteed to end with "/"
// so probe path suffixes can be appended directly.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	endpoint, err := r.outputs.StackOutput(ctx, r.cfg.Region, r.cfg.StackName, r.cfg.OutputKey)
	if err != nil {
		return "", fmt.Errorf("describe stack %q: %w", r.cfg.StackName, err)
	}

	if endpoint == "" && r.cfg.FallbackKey != "" {
		r.log.Warn("primary output key is empty, trying fallback",
			slog.String("primary_key", r.cfg.OutputKey),
			slog.String("fallback_key", r.cfg.FallbackKey))

		endpoint, err = r.outputs.StackOutput(ctx, r.cfg.Region, r.cfg.StackName, r.cfg.FallbackKey)
		if err != nil {
			return "", fmt.Errorf("describe stack %q: %w", r.cfg.StackName, err)
		}
	}

	if endpoint == "" {
		return "", fmt.Errorf("stack %q: %w", r.cfg.StackName, ErrEndpointNotFound)
	}

	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	r.log.Info("resolved endpoint",
		slog.String("stack", r.cfg.StackName),
		slog.String("endpoint", endpoint))

	return endpoint, nil
}
