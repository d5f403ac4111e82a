package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/rl1809/cart-drawer/internal/adapter/rpc"
	"github.com/rl1809/cart-drawer/internal/core/domain"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	maxErrorBody = 4 << 10
)

// HTTPClient talks to the order service REST API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid order service url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{baseURL: u, http: httpClient}, nil
}

func (c *HTTPClient) FetchCart(ctx context.Context) (domain.CartSnapshot, error) {
	var cart rpc.Cart
	if err := c.do(ctx, domain.OpOpen, http.MethodGet, "/cart", nil, &cart); err != nil {
		return domain.CartSnapshot{}, err
	}
	snapshot, err := cart.Snapshot()
	if err != nil {
		return domain.CartSnapshot{}, domain.NewRemoteError(domain.OpOpen, "invalid cart snapshot", err)
	}
	return snapshot, nil
}

func (c *HTTPClient) AddItem(ctx context.Context, menuItemID string) error {
	path, err := itemPath(domain.OpAddItem, menuItemID)
	if err != nil {
		return err
	}
	return c.do(ctx, domain.OpAddItem, http.MethodPost, path, nil, nil)
}

func (c *HTTPClient) RemoveItem(ctx context.Context, menuItemID string) error {
	path, err := itemPath(domain.OpRemoveItem, menuItemID)
	if err != nil {
		return err
	}
	return c.do(ctx, domain.OpRemoveItem, http.MethodDelete, path, nil, nil)
}

// itemPath rejects ids that path cleaning would turn into another route.
func itemPath(op domain.Operation, menuItemID string) (string, error) {
	switch menuItemID {
	case "", ".", "..":
		return "", domain.NewRemoteError(op, "invalid menu item id", fmt.Errorf("menu item id %q", menuItemID))
	}
	return "/order/" + url.PathEscape(menuItemID), nil
}

// Checkout sends a fresh idempotency key so a transport-level retry of the
// same request cannot place two orders.
func (c *HTTPClient) Checkout(ctx context.Context) error {
	header := http.Header{}
	header.Set(HeaderIdempotencyKey, uuid.NewString())
	return c.do(ctx, domain.OpCheckout, http.MethodPost, "/cart/checkout", header, nil)
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	return c.do(ctx, domain.OpClear, http.MethodDelete, "/cart", nil, nil)
}

// Close releases idle keep-alive connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, op domain.Operation, method, path string, header http.Header, out any) error {
	u := c.baseURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return domain.NewRemoteError(op, "invalid request", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewRemoteError(op, "order service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewRemoteError(op, errorMessage(resp), fmt.Errorf("status %d", resp.StatusCode))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewRemoteError(op, "invalid response from order service", err)
	}
	return nil
}

// errorMessage prefers the service's own message, then the raw body, then
// the status text.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var ack rpc.Ack
	if err := json.Unmarshal(body, &ack); err == nil && ack.Message != "" {
		return ack.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return strings.ToLower(http.StatusText(resp.StatusCode))
}
