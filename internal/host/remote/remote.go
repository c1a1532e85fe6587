// Package remote implements host.Host over an HTTP bridge to the application
// that owns the parameters.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/paramedit/paramedit/internal/host"
	"github.com/paramedit/paramedit/internal/logging"
	"github.com/paramedit/paramedit/pkg/types"
)

// Host talks to a parameter bridge over HTTP. Transient transport failures
// are retried with exponential backoff; bridge rejections are returned as
// host sentinel errors without retrying.
type Host struct {
	baseURL string
	client  *http.Client
	maxTry  uint64
}

// Option configures a Host.
type Option func(*Host)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Host) { h.client = c }
}

// WithMaxRetries caps transport-level retries per call.
func WithMaxRetries(n uint64) Option {
	return func(h *Host) { h.maxTry = n }
}

// New creates a bridge client for the given base URL.
func New(baseURL string, opts ...Option) *Host {
	h := &Host{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
		maxTry:  3,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Connect verifies the bridge is reachable, retrying with backoff until it
// answers or ctx expires.
func (h *Host) Connect(ctx context.Context) error {
	op := func() error {
		_, err := h.List(ctx)
		return err
	}
	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	notify := func(err error, wait time.Duration) {
		logging.Warn().Err(err).Dur("retryIn", wait).Str("url", h.baseURL).Msg("bridge not reachable")
	}
	return backoff.RetryNotify(op, policy, notify)
}

// bridgeError is the bridge's error payload.
type bridgeError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// paramResponse wraps a single parameter.
type paramResponse struct {
	Param *types.Parameter `json:"param"`
}

// List implements host.Host.
func (h *Host) List(ctx context.Context) (*types.ParameterSet, error) {
	var out struct {
		Params []*types.Parameter `json:"params"`
	}
	if err := h.do(ctx, http.MethodGet, "/params", nil, &out); err != nil {
		return nil, host.Errorf("list", "", err)
	}

	set := types.NewParameterSet()
	for _, p := range out.Params {
		set.Put(p)
	}
	return set, nil
}

// SetExpression implements host.Host.
func (h *Host) SetExpression(ctx context.Context, name, expr string) (*types.Parameter, error) {
	return h.patch(ctx, name, map[string]string{"expression": expr})
}

// SetUnit implements host.Host.
func (h *Host) SetUnit(ctx context.Context, name, unit string) (*types.Parameter, error) {
	return h.patch(ctx, name, map[string]string{"unit": unit})
}

// SetComment implements host.Host.
func (h *Host) SetComment(ctx context.Context, name, comment string) (*types.Parameter, error) {
	return h.patch(ctx, name, map[string]string{"comment": comment})
}

func (h *Host) patch(ctx context.Context, name string, body map[string]string) (*types.Parameter, error) {
	var out paramResponse
	path := "/params/" + url.PathEscape(name)
	if err := h.do(ctx, http.MethodPatch, path, body, &out); err != nil {
		return nil, host.Errorf("set", name, err)
	}
	return out.Param, nil
}

// Create implements host.Host.
func (h *Host) Create(ctx context.Context, name, expr, unit, comment string) (*types.Parameter, error) {
	body := map[string]string{
		"name":       name,
		"expression": expr,
		"unit":       unit,
		"comment":    comment,
	}
	var out paramResponse
	if err := h.do(ctx, http.MethodPost, "/params", body, &out); err != nil {
		return nil, host.Errorf("create", name, err)
	}
	return out.Param, nil
}

// Delete implements host.Host.
func (h *Host) Delete(ctx context.Context, name string) error {
	path := "/params/" + url.PathEscape(name)
	if err := h.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return host.Errorf("delete", name, err)
	}
	return nil
}

// Dependents implements host.Host.
func (h *Host) Dependents(ctx context.Context, name string) ([]string, error) {
	var out struct {
		Dependents []string `json:"dependents"`
	}
	path := "/params/" + url.PathEscape(name) + "/dependents"
	if err := h.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, host.Errorf("dependents", name, err)
	}
	return out.Dependents, nil
}

// do performs one bridge request, retrying transport failures.
func (h *Host) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := h.client.Do(req)
		if err != nil {
			// Network errors are the retryable class.
			return fmt.Errorf("%w: %v", host.ErrUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", host.ErrUnavailable, err)
		}

		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: bridge returned %d", host.ErrUnavailable, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(decodeBridgeError(data, resp.StatusCode))
		}

		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return backoff.Permanent(fmt.Errorf("decoding bridge response: %w", err))
			}
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), h.maxTry), ctx)
	return backoff.Retry(op, policy)
}

// decodeBridgeError maps the bridge's error payload to host sentinels.
func decodeBridgeError(data []byte, status int) error {
	var be bridgeError
	if err := json.Unmarshal(data, &be); err != nil || be.Error.Code == "" {
		return fmt.Errorf("bridge returned %d", status)
	}

	var sentinel error
	switch be.Error.Code {
	case "NOT_FOUND":
		sentinel = host.ErrNotFound
	case "DUPLICATE":
		sentinel = host.ErrDuplicate
	case "INVALID_EXPRESSION":
		sentinel = host.ErrInvalidExpression
	case "CYCLE":
		sentinel = host.ErrCycle
	case "UNKNOWN_UNIT":
		sentinel = host.ErrUnknownUnit
	default:
		return fmt.Errorf("bridge error %s: %s", be.Error.Code, be.Error.Message)
	}
	if be.Error.Message != "" {
		return fmt.Errorf("%w: %s", sentinel, be.Error.Message)
	}
	return sentinel
}

var _ host.Host = (*Host)(nil)
