package price

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedTransport replaces the HTTP client without needing a real server.
type fixedTransport struct {
	body string
	code int
	err  error
	last *http.Request
}

func (ft *fixedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	ft.last = r
	if ft.err != nil {
		return nil, ft.err
	}
	return &http.Response{
		StatusCode: ft.code,
		Body:       io.NopCloser(strings.NewReader(ft.body)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

func newMockFetcher(body string, code int) (*Fetcher, *fixedTransport) {
	ft := &fixedTransport{body: body, code: code}
	f := NewFetcher("usd")
	f.client = resty.NewWithClient(&http.Client{Transport: ft})
	return f, ft
}

func TestNewFetcherDefaultCurrency(t *testing.T) {
	assert.Equal(t, "usd", NewFetcher("").currency)
	assert.Equal(t, "eur", NewFetcher("EUR").currency, "currency must be lowercased")
}

func TestGetPriceBySymbol(t *testing.T) {
	f, ft := newMockFetcher(`{"matic-network":{"usd":0.52}}`, http.StatusOK)

	p, err := f.GetPrice(context.Background(), "matic")
	require.NoError(t, err)
	assert.Equal(t, 0.52, p)
	assert.Equal(t, "matic-network", ft.last.URL.Query().Get("ids"))
	assert.Equal(t, "usd", ft.last.URL.Query().Get("vs_currencies"))
}

func TestGetPriceUnknownSymbol(t *testing.T) {
	f, _ := newMockFetcher(`{}`, http.StatusOK)
	_, err := f.GetPrice(context.Background(), "DOGE")
	assert.Error(t, err)
}

func TestGetPriceMissingInResponse(t *testing.T) {
	f, _ := newMockFetcher(`{"bitcoin":{"usd":60000}}`, http.StatusOK)
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.Error(t, err)
}

func TestGetPriceHTTPError(t *testing.T) {
	f, _ := newMockFetcher(`rate limited`, http.StatusTooManyRequests)
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.ErrorContains(t, err, "429")
}

func TestGetPriceInvalidJSON(t *testing.T) {
	f, _ := newMockFetcher(`not json`, http.StatusOK)
	_, err := f.GetPrice(context.Background(), "ETH")
	assert.Error(t, err)
}

func TestGetPricesDedupsIDs(t *testing.T) {
	f, ft := newMockFetcher(`{"ethereum":{"usd":3000},"matic-network":{"usd":0.5}}`, http.StatusOK)

	prices, err := f.GetPrices(context.Background(), []string{"ETH", "eth", "MATIC", "DOGE"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"ETH": 3000, "MATIC": 0.5}, prices)
	assert.Equal(t, "ethereum,matic-network", ft.last.URL.Query().Get("ids"))
}

func TestCoinPriceDefaultsToOne(t *testing.T) {
	f, _ := newMockFetcher(`{"ethereum":{"usd":3000}}`, http.StatusOK)
	assert.Equal(t, 3000.0, f.CoinPrice(context.Background(), "ETH"))
	assert.Equal(t, 1.0, f.CoinPrice(context.Background(), "DOGE"))

	ft := &fixedTransport{err: errors.New("offline")}
	f.client = resty.NewWithClient(&http.Client{Transport: ft})
	assert.Equal(t, 1.0, f.CoinPrice(context.Background(), "ETH"))
}
