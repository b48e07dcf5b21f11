package widget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client talks to a running widget host.
type Client struct {
	base    string
	http    *http.Client
	log     *zap.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

// NewClient returns a client for the host at addr (host:port or a URL).
func NewClient(addr string, log *zap.Logger) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:    strings.TrimRight(addr, "/"),
		http:    &http.Client{Timeout: 2 * time.Second},
		log:     log,
		timeout: 500 * time.Millisecond,
	}
}

// RequestRefresh asks the host to reload without waiting for it. A host
// that is not running is not an error; the next scheduled or watched
// refresh picks the change up.
func (c *Client) RequestRefresh() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.Reload(ctx); err != nil {
			c.log.Debug("widget refresh signal not delivered", zap.String("host", c.base), zap.Error(err))
		}
	}()
}

// Wait blocks until every pending RequestRefresh has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Reload signals the host and waits for it to reload.
func (c *Client) Reload(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/reload", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("widget reload: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	body, err := c.get(ctx, "/v1/status")
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return st, fmt.Errorf("malformed status: %w", err)
	}
	return st, nil
}

// Render fetches the ANSI rendering of one widget size.
func (c *Client) Render(ctx context.Context, size string) (string, error) {
	body, err := c.get(ctx, "/v1/render/"+size)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
