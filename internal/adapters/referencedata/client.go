package referencedata

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Client loads reference data from the upstream data provider.
//
// The four resources are fetched concurrently; each request retries transient
// failures with exponential backoff. The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	log     *zap.Logger
	backoff time.Duration
}

func NewClient(baseURL string, log *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("reference client: base url is empty")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		log:     log,
		backoff: 200 * time.Millisecond,
	}, nil
}

// Load fetches and assembles a complete snapshot.
func (c *Client) Load(ctx context.Context) (_ *domain.ReferenceData, err error) {
	defer obs.Time(ctx, c.log, "reference.fetch")(&err)

	raw, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	ref, err := raw.toDomain()
	if err != nil {
		return nil, fmt.Errorf("assemble reference data: %w", err)
	}
	ref.LoadedAt = time.Now()
	return ref, nil
}

func (c *Client) fetch(ctx context.Context) (snapshot, error) {
	var s snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.getJSON(gctx, "/drones", &s.Drones) })
	g.Go(func() error { return c.getJSON(gctx, "/service-points", &s.ServicePoints) })
	g.Go(func() error { return c.getJSON(gctx, "/restricted-areas", &s.RestrictedAreas) })
	g.Go(func() error { return c.getJSON(gctx, "/drones-for-service-points", &s.Availability) })

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	endpoint := c.baseURL + path

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (c *Client) newRequest(ctx context.Context, method string, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	if id := obs.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx responses)
// using exponential backoff while respecting context cancellation.
func (c *Client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := c.backoff

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		c.log.Debug("retrying upstream request",
			zap.String("url", req.URL.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
