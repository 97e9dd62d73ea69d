package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ep(url string, latency time.Duration, block uint64) rpc.Endpoint {
	return rpc.Endpoint{URL: url, Latency: latency, BlockNumber: block}
}

func TestFastestSelectsLowestLatency(t *testing.T) {
	winner, err := rpc.Fastest([]rpc.Endpoint{
		ep("http://slow.rpc", 200*time.Millisecond, 100),
		ep("http://fast.rpc", 30*time.Millisecond, 100),
		ep("http://medium.rpc", 80*time.Millisecond, 100),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", winner.URL)
}

func TestFastestDiscardsStaleNodes(t *testing.T) {
	winner, err := rpc.Fastest([]rpc.Endpoint{
		ep("http://fresh.rpc", 50*time.Millisecond, 1000),
		ep("http://stale.rpc", 10*time.Millisecond, 990),
	})
	require.NoError(t, err)
	assert.Equal(t, "http://fresh.rpc", winner.URL, "stale node should be discarded even if faster")
}

func TestFastestSkipsFailedProbes(t *testing.T) {
	failed := ep("http://down.rpc", time.Millisecond, 5000)
	failed.Err = errors.New("connection refused")

	winner, err := rpc.Fastest([]rpc.Endpoint{failed, ep("http://up.rpc", 90*time.Millisecond, 1000)})
	require.NoError(t, err)
	assert.Equal(t, "http://up.rpc", winner.URL, "a failed probe's block must not make others look stale")

	_, err = rpc.Fastest([]rpc.Endpoint{failed})
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
	_, err = rpc.Fastest(nil)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}

func TestProbe(t *testing.T) {
	blocks := map[string]uint64{"a": 10, "b": 12}
	probe := func(_ context.Context, url string) (uint64, error) {
		if n, ok := blocks[url]; ok {
			return n, nil
		}
		return 0, errors.New("unreachable")
	}

	got := rpc.Probe(context.Background(), []string{"a", "b", "c"}, probe)
	require.Len(t, got, 3)
	assert.Equal(t, uint64(10), got[0].BlockNumber)
	assert.Equal(t, uint64(12), got[1].BlockNumber)
	assert.True(t, got[1].Healthy())
	assert.False(t, got[2].Healthy())
}

func TestSelectorCachesWinner(t *testing.T) {
	var probes atomic.Int32
	probe := func(_ context.Context, url string) (uint64, error) {
		probes.Add(1)
		if url == "http://slow.rpc" {
			time.Sleep(20 * time.Millisecond)
		}
		return 100, nil
	}
	s := rpc.NewSelector(probe, time.Minute, nil)
	urls := []string{"http://slow.rpc", "http://fast.rpc"}

	u, err := s.Best(context.Background(), 137, urls)
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", u)
	assert.Equal(t, int32(2), probes.Load())

	u, err = s.Best(context.Background(), 137, urls)
	require.NoError(t, err)
	assert.Equal(t, "http://fast.rpc", u)
	assert.Equal(t, int32(2), probes.Load(), "winner is cached")

	_, err = s.Best(context.Background(), 1, urls)
	require.NoError(t, err)
	assert.Equal(t, int32(4), probes.Load(), "cache is per chain")
}

func TestSelectorSingleURLSkipsProbe(t *testing.T) {
	s := rpc.NewSelector(func(context.Context, string) (uint64, error) {
		t.Fatal("single URL must not be probed")
		return 0, nil
	}, time.Minute, nil)

	u, err := s.Best(context.Background(), 137, []string{"http://only.rpc"})
	require.NoError(t, err)
	assert.Equal(t, "http://only.rpc", u)

	_, err = s.Best(context.Background(), 137, nil)
	assert.ErrorIs(t, err, rpc.ErrNoHealthyRPC)
}

func TestEVMProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     int    `json:"id"`
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "eth_blockNumber", req.Method)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": "0x10"}) //nolint:errcheck
	}))
	defer srv.Close()

	n, err := rpc.EVMProber(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)
}
