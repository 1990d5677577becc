package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Prober issues one readiness probe against a URL, returning the HTTP
// status code or the transport error.
type Prober interface {
	Probe(ctx context.Context, url string) (int, error)
}

// Config is the immutable poll loop configuration.
type Config struct {
	Targets      []ProbeTarget
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration

	// Sleep replaces time.Sleep in tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// Poller runs the availability retry loop against a resolved endpoint.
type Poller struct {
	cfg    Config
	prober Prober
	log    *slog.Logger
	sleep  func(time.Duration)
}

func New(cfg Config, prober Prober, log *slog.Logger) (*Poller, error) {
	if len(cfg.Targets) == 0 {
		return nil, errors.New("poller: at least one probe target required")
	}
	if cfg.MaxAttempts < 1 {
		return nil, errors.New("poller: max attempts must be >= 1")
	}
	if cfg.InitialDelay <= 0 {
		return nil, errors.New("poller: initial delay must be > 0")
	}
	if cfg.MaxDelay < cfg.InitialDelay {
		return nil, errors.New("poller: max delay must be >= initial delay")
	}
	if prober == nil {
		return nil, errors.New("poller: prober required")
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Poller{cfg: cfg, prober: prober, log: log, sleep: sleep}, nil
}

// Poll probes the endpoint until a target answers 200 or the attempt budget
// is spent. The endpoint must end with "/" so target paths concatenate
// directly.
func (p *Poller) Poll(ctx context.Context, endpoint string) Outcome {
	backoff := NewBackoff(p.cfg.InitialDelay, p.cfg.MaxDelay, p.cfg.MaxAttempts)

	state := StateIdle
	var hit ProbeOutcome
	var delay time.Duration

	for {
		switch state {
		case StateIdle:
			state = StateProbing

		case StateProbing:
			p.log.Info("probing endpoint",
				slog.String("endpoint", endpoint),
				slog.Int("attempt", backoff.Attempts()+1),
				slog.Int("max_attempts", p.cfg.MaxAttempts))

			result, ok := p.probeCycle(ctx, endpoint)
			if ok {
				hit = result
				state = StateHealthy
				break
			}

			d, more := backoff.Fail()
			if !more {
				state = StateExhausted
				break
			}
			delay = d
			state = StateRetrying

		case StateRetrying:
			p.log.Info("endpoint not ready, waiting before next attempt",
				slog.Duration("delay", delay))
			p.sleep(delay)
			state = StateProbing

		case StateHealthy:
			return Outcome{
				State:      StateHealthy,
				Target:     hit.Target,
				StatusCode: hit.StatusCode,
				Attempts:   backoff.Attempts() + 1,
			}

		case StateExhausted:
			p.log.Warn("endpoint never became ready",
				slog.String("endpoint", endpoint),
				slog.Int("attempts", backoff.Attempts()))
			return Outcome{State: StateExhausted, Attempts: backoff.Attempts()}
		}
	}
}

// probeCycle tries each target in order; the first 200 wins and the
// remaining targets are not probed.
func (p *Poller) probeCycle(ctx context.Context, endpoint string) (ProbeOutcome, bool) {
	for _, target := range p.cfg.Targets {
		code, err := p.prober.Probe(ctx, endpoint+target.Path)

		outcome := ProbeOutcome{Target: target, StatusCode: code, Err: err}
		if err != nil {
			// Transport failure and non-200 both mean "not yet".
			p.log.Warn("probe failed",
				slog.String("target", target.Name),
				slog.Any("err", err))
			continue
		}

		if outcome.IsHealthy() {
			p.log.Info("target answered",
				slog.String("target", target.Name),
				slog.Int("status", code))
			return outcome, true
		}

		p.log.Info("target not ready",
			slog.String("target", target.Name),
			slog.Int("status", code))
	}

	return ProbeOutcome{}, false
}
