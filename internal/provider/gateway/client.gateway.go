package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

const (
	maxAttempts = 3
	baseBackoff = 500 * time.Millisecond
)

// Client talks to the hosted-checkout payment gateway. The server key stays
// inside this package; only ClientKey and Environment are exported to the
// browser via the payment config endpoint.
type Client struct {
	BaseURL     string
	serverKey   string
	ClientKey   string
	Environment string // sandbox | production
	HttpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(baseURL, serverKey, clientKey, environment string, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:     baseURL,
		serverKey:   serverKey,
		ClientKey:   clientKey,
		Environment: environment,
		HttpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// postJSON sends one authenticated request with bounded retries. Network
// errors and 5xx responses are retried with exponential backoff; a 4xx is a
// gateway rejection and is never retried.
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(baseBackoff << (attempt - 2)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.serverKey, "")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.HttpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("gateway request failed",
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(respBody))
			c.logger.Warn("gateway server error",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt))
			continue
		}
		if resp.StatusCode >= 400 {
			c.logger.Error("gateway rejected request",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("%w: status %d", xerrors.ErrGatewayRejected, resp.StatusCode)
		}

		if out != nil {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("failed to decode gateway response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("%w: %v", xerrors.ErrGatewayUnavailable, lastErr)
}
