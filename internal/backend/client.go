// Package backend is the REST client for the launchpad record-keeping service.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ErrNotFound matches APIErrors with a 404 status.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client talks to the backend over HTTP.
type Client struct {
	http *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client) *resty.Client

// WithHTTPClient swaps the underlying transport, e.g. for httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(old *resty.Client) *resty.Client {
		return resty.NewWithClient(hc).SetBaseURL(old.BaseURL)
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) *resty.Client { return c.SetTimeout(d) }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	rc := resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(15 * time.Second)
	for _, opt := range opts {
		rc = opt(rc)
	}
	rc.SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})
	return &Client{http: rc}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string { return c.http.BaseURL }

// Meta is the pagination block of list responses.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	LastPage    int  `json:"last_page"`
	PerPage     int  `json:"per_page"`
	From        *int `json:"from"`
	To          *int `json:"to"`
	Total       int  `json:"total"`
}

// Page is one page of presales.
type Page struct {
	Data []presale.Presale `json:"data"`
	Meta Meta              `json:"meta"`
}

// Amount decodes amounts the backend sends either as numbers or strings.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount %s: %w", b, err)
	}
	*a = Amount(v)
	return nil
}

// Contributor is one row of a presale's contributor list.
type Contributor struct {
	WalletAddress string `json:"wallet_address"`
	Amount        Amount `json:"amount"`
}

// TransactionRecord is the audit record written after a purchase.
type TransactionRecord struct {
	TransactionHash string  `json:"transaction_hash"`
	BlockchainID    int64   `json:"blockchain_id"`
	BoughtAmount    float64 `json:"bought_amount"`
	LaunchpadID     int64   `json:"launchpad_id"`
	WalletAddress   string  `json:"wallet_address"`
}

// Schedule is the body of a schedule update.
type Schedule struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// GetPresale loads and validates the presale deployed at address.
func (c *Client) GetPresale(ctx context.Context, address string) (*presale.Presale, error) {
	var p presale.Presale
	if err := c.get(ctx, "/v1/launchpad/"+address, nil, &p); err != nil {
		return nil, fmt.Errorf("loading launchpad %s: %w", address, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPresales returns one page of presales matching query.
func (c *Client) ListPresales(ctx context.Context, query url.Values) (*Page, error) {
	var page Page
	if err := c.get(ctx, "/v1/launchpad", query, &page); err != nil {
		return nil, fmt.Errorf("listing launchpads: %w", err)
	}
	return &page, nil
}

// Contributors lists who contributed to the presale at address.
func (c *Client) Contributors(ctx context.Context, address string) ([]Contributor, error) {
	var out []Contributor
	if err := c.get(ctx, "/v1/launchpad/"+address+"/contributors", nil, &out); err != nil {
		return nil, fmt.Errorf("loading contributors: %w", err)
	}
	return out, nil
}

// WhitelistedTokens lists the payment tokens presales on chainID may accept.
func (c *Client) WhitelistedTokens(ctx context.Context, chainID int64) ([]presale.WhitelistToken, error) {
	var out []presale.WhitelistToken
	path := "/v1/blockchain/" + strconv.FormatInt(chainID, 10) + "/whitelisted-tokens"
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("loading whitelisted tokens: %w", err)
	}
	return out, nil
}

// CreateTransaction stores the audit record of a purchase.
func (c *Client) CreateTransaction(ctx context.Context, rec TransactionRecord) error {
	if err := c.send(ctx, http.MethodPost, "/v1/launchpad-transaction/create", rec, nil); err != nil {
		return fmt.Errorf("recording transaction: %w", err)
	}
	return nil
}

// UpdateSchedule mirrors a new sale window to the backend.
func (c *Client) UpdateSchedule(ctx context.Context, address string, s Schedule) error {
	if err := c.send(ctx, http.MethodPut, "/v1/launchpad/"+address, s, nil); err != nil {
		return fmt.Errorf("updating schedule: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Execute(method, path)
	if err != nil {
		return err
	}
	return decode(resp, out)
}

func decode(resp *resty.Response, out interface{}) error {
	if resp.IsError() {
		return apiError(resp)
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(resp.Body(), &body)
	return &APIError{Status: resp.StatusCode(), Message: body.Message}
}
