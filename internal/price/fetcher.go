package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const coinGeckoURL = "https://api.coingecko.com/api/v3/simple/price"

// Fetcher retrieves native coin prices from CoinGecko.
type Fetcher struct {
	client   *resty.Client
	currency string
}

// NewFetcher creates a new price fetcher quoting in currency (default usd).
func NewFetcher(currency string) *Fetcher {
	if currency == "" {
		currency = "usd"
	}
	return &Fetcher{
		client:   resty.New().SetTimeout(10 * time.Second),
		currency: strings.ToLower(currency),
	}
}

// coinGeckoIDs maps native currency symbols to CoinGecko coin IDs.
var coinGeckoIDs = map[string]string{
	"ETH":   "ethereum",
	"MATIC": "matic-network",
	"POL":   "polygon-ecosystem-token",
	"BNB":   "binancecoin",
	"AVAX":  "avalanche-2",
	"FTM":   "fantom",
	"CELO":  "celo",
	"XDAI":  "xdai",
	"MNT":   "mantle",
	"CRO":   "crypto-com-chain",
}

// GetPrice returns the price of a native currency by symbol.
func (f *Fetcher) GetPrice(ctx context.Context, symbol string) (float64, error) {
	prices, err := f.GetPrices(ctx, []string{symbol})
	if err != nil {
		return 0, err
	}
	p, ok := prices[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("price not available for: %s", symbol)
	}
	return p, nil
}

// GetPrices fetches prices for several symbols in one request. Unknown
// symbols are left out of the result.
func (f *Fetcher) GetPrices(ctx context.Context, symbols []string) (map[string]float64, error) {
	ids := make(map[string]string)
	unique := make(map[string]struct{})
	for _, s := range symbols {
		sym := strings.ToUpper(s)
		if id, ok := coinGeckoIDs[sym]; ok {
			ids[sym] = id
			unique[id] = struct{}{}
		}
	}
	if len(unique) == 0 {
		return nil, fmt.Errorf("unknown currency: %s", strings.Join(symbols, ","))
	}
	idList := make([]string, 0, len(unique))
	for id := range unique {
		idList = append(idList, id)
	}
	sort.Strings(idList)

	byID, err := f.fetchBatch(ctx, idList)
	if err != nil {
		return nil, err
	}

	result := make(map[string]float64)
	for sym, id := range ids {
		if p, ok := byID[id]; ok {
			result[sym] = p
		}
	}
	return result, nil
}

// CoinPrice returns the price of symbol, or 1 when it is unknown or the
// lookup fails, so callers dividing by it stay defined.
func (f *Fetcher) CoinPrice(ctx context.Context, symbol string) float64 {
	p, err := f.GetPrice(ctx, symbol)
	if err != nil || p <= 0 {
		return 1
	}
	return p
}

func (f *Fetcher) fetchBatch(ctx context.Context, ids []string) (map[string]float64, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetQueryParam("vs_currencies", f.currency).
		Get(coinGeckoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching prices: unexpected status code: %d", resp.StatusCode())
	}

	// Response: {"ethereum":{"usd":1234.56}, ...}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}

	prices := make(map[string]float64)
	for id, currencies := range raw {
		if p, ok := currencies[f.currency]; ok {
			prices[id] = p
		}
	}
	return prices, nil
}
