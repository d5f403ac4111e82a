package client

import (
	"fmt"
	"net/http"

	"github.com/rl1809/cart-drawer/internal/config"
	"github.com/rl1809/cart-drawer/internal/port"
)

// Client is an order service connection that can also empty the cart.
type Client interface {
	port.OrderService
	port.CartEmptier
	Close() error
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = (*GRPCClient)(nil)
)

// New dials the order service over the configured transport.
func New(cfg config.Config) (Client, error) {
	switch cfg.OrderServiceTransport {
	case config.TransportHTTP:
		c, err := NewHTTPClient(cfg.OrderServiceURL, &http.Client{Timeout: cfg.RequestTimeout})
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.TransportGRPC:
		c, err := NewGRPCClient(cfg.OrderServiceGRPCAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown order service transport %q", cfg.OrderServiceTransport)
	}
}
