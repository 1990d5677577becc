package probe

import (
	"context"
	"net"
	"net/http"
	"time"
)

// Config carries the two probe timeouts: ConnectTimeout bounds dialing and
// the TLS handshake, TotalTimeout bounds the whole request.
type Config struct {
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
}

// HTTPProber issues GET readiness probes with the configured timeouts.
type HTTPProber struct {
	client *http.Client
}

func New(cfg Config) *HTTPProber {
	dialer := &net.Dialer{
		Timeout: cfg.ConnectTimeout,
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: cfg.ConnectTimeout,
	}

	return &HTTPProber{
		client: &http.Client{
			Timeout:   cfg.TotalTimeout,
			Transport: transport,
		},
	}
}

// Probe issues one GET against url and returns the observed status code.
// A transport failure is returned as-is; the caller decides what it means.
func (p *HTTPProber) Probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	res, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	return res.StatusCode, nil
}
