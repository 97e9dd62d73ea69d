// Package rpc picks the JSON-RPC endpoint to talk to when a chain has
// several public RPCs: every candidate is probed for latency and head
// block, stale nodes are dropped and the fastest remaining one wins.
package rpc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

const (
	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
	// Per-endpoint probe budget.
	probeTimeout = 5 * time.Second
	// DefaultTTL is how long a winner is reused before re-probing.
	DefaultTTL = 5 * time.Minute
)

// Endpoint is a probed RPC endpoint.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	Err         error
}

// Healthy reports whether the probe succeeded.
func (e Endpoint) Healthy() bool { return e.Err == nil }

// Prober reads the head block of the node at url.
type Prober func(ctx context.Context, url string) (uint64, error)

// EVMProber probes with eth_blockNumber.
func EVMProber(ctx context.Context, url string) (uint64, error) {
	return chain.NewEVMClient(url).BlockNumber(ctx)
}

// Probe measures every url in parallel.
func Probe(ctx context.Context, urls []string, probe Prober) []Endpoint {
	out := make([]Endpoint, len(urls))
	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()
			start := time.Now()
			block, err := probe(pctx, u)
			out[i] = Endpoint{URL: u, Latency: time.Since(start), BlockNumber: block, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Fastest returns the best-scoring healthy endpoint that is no more than
// staleBlockThreshold blocks behind the highest head seen.
func Fastest(endpoints []Endpoint) (Endpoint, error) {
	var bestBlock uint64
	for _, e := range endpoints {
		if e.Healthy() && e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	var (
		winner    *Endpoint
		bestScore float64
	)
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Healthy() || bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		if s := score(e, bestBlock); winner == nil || s > bestScore {
			winner, bestScore = e, s
		}
	}
	if winner == nil {
		return Endpoint{}, ErrNoHealthyRPC
	}
	return *winner, nil
}

// score favors low latency, then recency: one point lost per block behind.
func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64
	if ms := e.Latency.Milliseconds(); ms > 0 {
		s += 1000.0 / float64(ms)
	} else {
		s += 1000.0
	}
	s += float64(10 - int64(bestBlock-e.BlockNumber))
	return s
}

type cached struct {
	url     string
	expires time.Time
}

// Selector remembers the winning endpoint per chain for a TTL.
type Selector struct {
	probe Prober
	ttl   time.Duration
	now   func() time.Time
	log   *zap.SugaredLogger

	mu    sync.Mutex
	cache map[int64]cached
}

// NewSelector creates a Selector. A nil probe uses EVMProber.
func NewSelector(probe Prober, ttl time.Duration, log *zap.SugaredLogger) *Selector {
	if probe == nil {
		probe = EVMProber
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Selector{
		probe: probe,
		ttl:   ttl,
		now:   time.Now,
		log:   log.Named("rpc"),
		cache: make(map[int64]cached),
	}
}

// Best returns the endpoint to use for chainID among urls. A single URL is
// returned without probing.
func (s *Selector) Best(ctx context.Context, chainID int64, urls []string) (string, error) {
	switch len(urls) {
	case 0:
		return "", ErrNoHealthyRPC
	case 1:
		return urls[0], nil
	}

	s.mu.Lock()
	c, ok := s.cache[chainID]
	s.mu.Unlock()
	if ok && s.now().Before(c.expires) {
		return c.url, nil
	}

	endpoints := Probe(ctx, urls, s.probe)
	for _, e := range endpoints {
		s.log.Debugw("probed", "chain_id", chainID, "url", e.URL, "latency", e.Latency, "block", e.BlockNumber, "error", e.Err)
	}
	winner, err := Fastest(endpoints)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cache[chainID] = cached{url: winner.URL, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return winner.URL, nil
}
