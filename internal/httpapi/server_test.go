package httpapi_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/contract"
	"github.com/Mohsinsiddi/launchpad/internal/contract/contracttest"
	"github.com/Mohsinsiddi/launchpad/internal/httpapi"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	saleAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	now      = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func testPresale() presale.Presale {
	return presale.Presale{
		ID:                  7,
		ChainID:             contracttest.DefaultChainID,
		Softcap:             500,
		Hardcap:             1000,
		StartTime:           now.Add(-time.Hour),
		EndTime:             now.Add(time.Hour),
		SaleContractAddress: saleAddr,
		Token:               presale.Token{Symbol: "LNC", Decimals: 18},
		WhitelistedTokens: []presale.WhitelistToken{
			{Token: presale.Token{ID: 1, Symbol: "ETH", Decimals: 18}, Price: 0.5},
		},
	}
}

type fakeBackend struct {
	presales     map[string]presale.Presale
	contributors []backend.Contributor
	query        url.Values
}

func (b *fakeBackend) GetPresale(_ context.Context, address string) (*presale.Presale, error) {
	p, ok := b.presales[address]
	if !ok {
		return nil, &backend.APIError{Status: http.StatusNotFound, Message: "launchpad not found"}
	}
	return &p, nil
}

func (b *fakeBackend) ListPresales(_ context.Context, query url.Values) (*backend.Page, error) {
	b.query = query
	upcoming := testPresale()
	upcoming.StartTime = now.Add(time.Hour)
	upcoming.EndTime = now.Add(2 * time.Hour)
	return &backend.Page{
		Data: []presale.Presale{testPresale(), upcoming},
		Meta: backend.Meta{CurrentPage: 1, Total: 2},
	}, nil
}

func (b *fakeBackend) Contributors(context.Context, string) ([]backend.Contributor, error) {
	return b.contributors, nil
}

func newServer(t *testing.T) (*httptest.Server, *contracttest.Chain, *fakeBackend) {
	t.Helper()
	c := contracttest.New()
	c.Return(saleAddr, "totalTokensSold", mustUnits(t, "250"))
	c.Return(saleAddr, "getTotalContributors", big.NewInt(3))
	c.Return(saleAddr, "isCancelled", false)
	c.Return(saleAddr, "isFinalized", false)

	api := &fakeBackend{presales: map[string]presale.Presale{saleAddr.Hex(): testPresale()}}
	transports := func(id int64) (contract.Transport, error) {
		if id != contracttest.DefaultChainID {
			return nil, chain.ErrChainNotFound
		}
		return c, nil
	}
	s := httpapi.New(api, transports, zap.NewNop().Sugar(),
		httpapi.WithClock(func() time.Time { return now }), httpapi.WithVersion("test"))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv, c, api
}

func mustUnits(t *testing.T, v string) *big.Int {
	t.Helper()
	out, err := chain.ParseUnits(v, 18)
	require.NoError(t, err)
	return out
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := newServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthcheck", &body))
	assert.Equal(t, map[string]string{"status": "healthy", "version": "test"}, body)
}

func TestGetPresale(t *testing.T) {
	srv, _, _ := newServer(t)

	var view httpapi.PresaleView
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/presales/"+saleAddr.Hex(), &view))
	assert.Equal(t, presale.StatusLive, view.Status)
	assert.Equal(t, 250.0, view.Figures.TotalTokensSold)
	assert.Equal(t, int64(3), view.Figures.TotalContributors)
	assert.Equal(t, 50.0, view.Progress.SoftPercent)
	assert.Equal(t, 50, view.TimeProgress)
	require.NotNil(t, view.Countdown)
	assert.Equal(t, "Presale ends in", view.Countdown.Label)
	assert.True(t, now.Add(time.Hour).Equal(view.Countdown.Target))
}

func TestGetStatusFollowsChainFlags(t *testing.T) {
	srv, c, _ := newServer(t)
	c.Return(saleAddr, "isCancelled", true)

	var body map[string]string
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/presales/"+saleAddr.Hex()+"/status", &body))
	assert.Equal(t, "canceled", body["status"])
}

func TestGetPresaleErrors(t *testing.T) {
	srv, c, api := newServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/presales/not-an-address", &body))
	assert.Equal(t, "invalid presale address", body["error"])

	other := common.HexToAddress("0x9999999999999999999999999999999999999999")
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/presales/"+other.Hex(), &body))
	assert.Equal(t, "launchpad not found", body["error"])

	elsewhere := testPresale()
	elsewhere.ChainID = 56
	api.presales[saleAddr.Hex()] = elsewhere
	assert.Equal(t, http.StatusUnprocessableEntity, getJSON(t, srv.URL+"/presales/"+saleAddr.Hex(), nil))

	api.presales[saleAddr.Hex()] = testPresale()
	c.Revert(saleAddr, "totalTokensSold", "paused")
	assert.Equal(t, http.StatusBadGateway, getJSON(t, srv.URL+"/presales/"+saleAddr.Hex(), &body))
	assert.Contains(t, body["error"], "fetching sold amount")
}

func TestListPresales(t *testing.T) {
	srv, _, api := newServer(t)

	var body struct {
		Data []httpapi.ListItem `json:"data"`
		Meta backend.Meta       `json:"meta"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/presales?status=live&page=2", &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, presale.StatusLive, body.Data[0].ListStatus)
	assert.Equal(t, presale.StatusUpcoming, body.Data[1].ListStatus)
	require.NotNil(t, body.Data[0].TotalTokensSold)
	assert.Equal(t, 250.0, *body.Data[0].TotalTokensSold)
	assert.Equal(t, 2, body.Meta.Total)
	assert.Equal(t, "2", api.query.Get("page"))
}

func TestGetContributors(t *testing.T) {
	srv, _, api := newServer(t)

	var empty []backend.Contributor
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/presales/"+saleAddr.Hex()+"/contributors", &empty))
	assert.Empty(t, empty)

	api.contributors = []backend.Contributor{{WalletAddress: "0xabc", Amount: 12.5}}
	var list []backend.Contributor
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/presales/"+saleAddr.Hex()+"/contributors", &list))
	assert.Equal(t, api.contributors, list)
}

func TestRunStopsWithContext(t *testing.T) {
	s := httpapi.New(&fakeBackend{}, nil, zap.NewNop().Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
