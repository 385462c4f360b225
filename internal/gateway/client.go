package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/gestionpedidos/pedidos-sync/pkg/config"
	"github.com/gestionpedidos/pedidos-sync/pkg/errors"
	"github.com/gestionpedidos/pedidos-sync/pkg/logger"
)

// ErrNoBaseURL signals that no server has been configured yet. Delivery
// treats it as saved-locally; sync counts it as a failed attempt.
var ErrNoBaseURL = stdErrors.New("server base url not configured")

// BaseURLProvider yields the user-configured server URL. An empty string
// means the app runs in local-only mode.
type BaseURLProvider interface {
	BaseURL(ctx context.Context) (string, error)
}

// Client talks to the remote purchasing server. Reads and writes use
// separate timeouts so a slow catalog download cannot stretch the
// delivery window.
type Client struct {
	urls     BaseURLProvider
	getHTTP  *http.Client
	postHTTP *http.Client
	logg     *logger.Logger
}

func NewClient(urls BaseURLProvider, cfg config.RemoteConfig, logg *logger.Logger) (*Client, error) {
	if urls == nil {
		return nil, fmt.Errorf("gateway client requires a base url provider")
	}
	if logg == nil {
		return nil, fmt.Errorf("gateway client requires a logger")
	}
	return &Client{
		urls:     urls,
		getHTTP:  &http.Client{Timeout: cfg.GetTimeout},
		postHTTP: &http.Client{Timeout: cfg.PostTimeout},
		logg:     logg,
	}, nil
}

func (c *Client) GetProveedores(ctx context.Context) ([]ProveedorPayload, error) {
	var out []ProveedorPayload
	if err := c.getJSON(ctx, "/proveedores", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProductos(ctx context.Context) ([]ProductoPayload, error) {
	var out []ProductoPayload
	if err := c.getJSON(ctx, "/productos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPedidos(ctx context.Context) ([]PedidoPayload, error) {
	var out []PedidoPayload
	if err := c.getJSON(ctx, "/pedidos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PostPedido delivers an order to the server. A non-2xx response surfaces
// the server's own body text so the operator sees what was rejected.
func (c *Client) PostPedido(ctx context.Context, order PedidoRequest) error {
	base, err := c.baseURL(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(order)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "encoding pedido")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/pedidos", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "building pedido request")
	}
	req.Header.Set("Content-Type", "application/json")

	ctx = c.logg.WithProveedorID(ctx, order.ProveedorID)
	c.logg.Debug(ctx, "posting pedido to remote server")

	res, err := c.postHTTP.Do(req)
	if err != nil {
		return classify(err, "POST /pedidos")
	}
	defer res.Body.Close()

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}

	msg := readErrorBody(res.Body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", res.StatusCode)
	}
	return errors.New(errors.CodeServer, msg)
}

func (c *Client) baseURL(ctx context.Context) (string, error) {
	base, err := c.urls.BaseURL(ctx)
	if err != nil {
		return "", errors.Wrap(errors.CodeInternal, err, "reading server url")
	}
	if base == "" {
		return "", ErrNoBaseURL
	}
	return base, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	base, err := c.baseURL(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
	if err != nil {
		return errors.Wrap(errors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.getHTTP.Do(req)
	if err != nil {
		return classify(err, "GET "+path)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.New(errors.CodeServer, fmt.Sprintf("GET %s returned HTTP %d", path, res.StatusCode))
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(errors.CodeServer, err, fmt.Sprintf("decoding %s response", path))
	}
	return nil
}

// classify splits transport failures into connectivity errors (timeouts,
// unresolved hosts) and everything else. Only connectivity errors are
// retryable from the caller's point of view.
func classify(err error, op string) error {
	var dnsErr *net.DNSError
	if stdErrors.As(err, &dnsErr) {
		return errors.Wrap(errors.CodeConnectivity, err, op+": host unreachable")
	}
	var netErr net.Error
	if stdErrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Wrap(errors.CodeConnectivity, err, op+": request timed out")
	}
	if stdErrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.CodeConnectivity, err, op+": request timed out")
	}
	return errors.Wrap(errors.CodeServer, err, op+": request failed")
}

func readErrorBody(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
