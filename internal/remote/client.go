package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
)

const rpcPath = "/jsonrpc"

type Dialer struct {
	httpClient *http.Client
	logger     *zap.Logger
}

type DialerOption func(*Dialer)

func WithHTTPClient(c *http.Client) DialerOption {
	return func(d *Dialer) { d.httpClient = c }
}

func WithLogger(l *zap.Logger) DialerOption {
	return func(d *Dialer) {
		if l != nil {
			d.logger = l.Named("remote.client")
		}
	}
}

// NewDialer returns a Connector speaking JSON-RPC to the remote HR server.
// The default HTTP client has no timeout; callers bound calls through ctx.
func NewDialer(opts ...DialerOption) *Dialer {
	d := &Dialer{
		httpClient: &http.Client{},
		logger:     zap.L().Named("remote.client"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dialer) Connect(ctx context.Context, creds Credentials) (Session, error) {
	baseURL, err := creds.BaseURL()
	if err != nil {
		return nil, err
	}

	c := &client{
		http:     d.httpClient,
		url:      baseURL + rpcPath,
		db:       creds.Database,
		password: creds.Password,
		logger:   d.logger,
	}

	raw, err := c.call(ctx, "common", "authenticate", []any{creds.Database, creds.Login, creds.Password, map[string]any{}})
	if err != nil {
		return nil, err
	}

	var uid int64
	if err := json.Unmarshal(raw, &uid); err != nil || uid == 0 {
		// a rejected login comes back as `false`
		return nil, ErrAuthenticationFailed
	}
	c.uid = uid

	d.logger.Debug("remote session opened",
		zap.String("url", baseURL),
		zap.String("database", creds.Database),
		zap.Int64("uid", uid),
	)
	return c, nil
}

type client struct {
	http     *http.Client
	url      string
	db       string
	uid      int64
	password string
	seq      atomic.Int64
	logger   *zap.Logger
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcErrorBody   `json:"error"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Name    string `json:"name"`
		Message string `json:"message"`
		Debug   string `json:"debug"`
	} `json:"data"`
}

func (c *client) UserID() int64    { return c.uid }
func (c *client) Database() string { return c.db }

func (c *client) call(ctx context.Context, service, method string, args []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.seq.Add(1),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &TransportError{StatusCode: res.StatusCode, Body: string(b)}
	}

	var out rpcResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode rpc response: %w", err)
	}
	if out.Error != nil {
		return nil, &RPCError{
			Code:    out.Error.Code,
			Message: out.Error.Message,
			Name:    out.Error.Data.Name,
			Detail:  out.Error.Data.Message,
		}
	}
	return out.Result, nil
}

func (c *client) executeKw(ctx context.Context, model, method string, args []any, kwargs map[string]any, out any) error {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	c.logger.Debug("execute_kw", zap.String("model", model), zap.String("method", method))

	raw, err := c.call(ctx, "object", "execute_kw", []any{c.db, c.uid, c.password, model, method, args, kwargs})
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s.%s result: %w", model, method, err)
	}
	return nil
}

func orEmpty(domain Domain) Domain {
	if domain == nil {
		return Domain{}
	}
	return domain
}

func (c *client) Search(ctx context.Context, model string, domain Domain) ([]int64, error) {
	var ids []int64
	err := c.executeKw(ctx, model, "search", []any{orEmpty(domain)}, nil, &ids)
	return ids, err
}

func (c *client) SearchCount(ctx context.Context, model string, domain Domain) (int64, error) {
	var n int64
	err := c.executeKw(ctx, model, "search_count", []any{orEmpty(domain)}, nil, &n)
	return n, err
}

func (c *client) SearchRead(ctx context.Context, model string, domain Domain, fields []string) ([]Record, error) {
	var rows []Record
	err := c.executeKw(ctx, model, "search_read", []any{orEmpty(domain)}, map[string]any{"fields": fields}, &rows)
	return rows, err
}

func (c *client) Read(ctx context.Context, model string, ids []int64, fields []string) ([]Record, error) {
	var rows []Record
	err := c.executeKw(ctx, model, "read", []any{ids}, map[string]any{"fields": fields}, &rows)
	return rows, err
}

func (c *client) Create(ctx context.Context, model string, vals Values) (int64, error) {
	var raw json.RawMessage
	if err := c.executeKw(ctx, model, "create", []any{vals}, nil, &raw); err != nil {
		return 0, err
	}

	// newer servers answer a single create with a one-element list
	var id int64
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil || len(ids) == 0 {
		return 0, fmt.Errorf("unexpected create result for %s: %s", model, string(raw))
	}
	return ids[0], nil
}

func (c *client) Write(ctx context.Context, model string, ids []int64, vals Values) error {
	return c.executeKw(ctx, model, "write", []any{ids, vals}, nil, nil)
}

func (c *client) Unlink(ctx context.Context, model string, ids []int64) error {
	return c.executeKw(ctx, model, "unlink", []any{ids}, nil, nil)
}

func (c *client) Call(ctx context.Context, model, method string, ids []int64) error {
	return c.executeKw(ctx, model, method, []any{ids}, nil, nil)
}
