package presale

import (
	"sync"
	"time"
)

// Snapshot is a consistent copy of the store's state.
type Snapshot struct {
	Presale Presale
	Figures Figures
}

// Status derives the lifecycle status of the snapshot at now.
func (s Snapshot) Status(now time.Time) Status {
	return ComputeStatus(&s.Presale, s.Figures, now)
}

// Store owns the presale record being viewed and its on-chain figures.
// Writers are not coordinated with each other: the last write wins.
type Store struct {
	mu      sync.RWMutex
	presale Presale
	figures Figures
}

// NewStore creates a store for p with empty figures.
func NewStore(p Presale) *Store {
	return &Store{
		presale: p,
		figures: Figures{Balances: map[string]float64{}},
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Presale: s.presale, Figures: s.figuresLocked()}
}

// Presale returns a copy of the presale record.
func (s *Store) Presale() Presale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presale
}

// Figures returns a copy of the on-chain figures.
func (s *Store) Figures() Figures {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.figuresLocked()
}

// Status computes the lifecycle status from the current state. Nothing is cached.
func (s *Store) Status(now time.Time) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStatus(&s.presale, s.figures, now)
}

func (s *Store) figuresLocked() Figures {
	f := s.figures
	f.Balances = make(map[string]float64, len(s.figures.Balances))
	for k, v := range s.figures.Balances {
		f.Balances[k] = v
	}
	return f
}

func (s *Store) SetTotalTokensSold(v float64) {
	s.mu.Lock()
	s.figures.TotalTokensSold = v
	s.mu.Unlock()
}

func (s *Store) SetTotalContributors(n int64) {
	s.mu.Lock()
	s.figures.TotalContributors = n
	s.mu.Unlock()
}

func (s *Store) SetContributor(d ContributorDetails) {
	s.mu.Lock()
	s.figures.Contributor = d
	s.mu.Unlock()
}

// SetBalances replaces the viewer's balances, keyed by token symbol.
func (s *Store) SetBalances(b map[string]float64) {
	cp := make(map[string]float64, len(b))
	for k, v := range b {
		cp[k] = v
	}
	s.mu.Lock()
	s.figures.Balances = cp
	s.mu.Unlock()
}

func (s *Store) SetFlags(f SaleFlags) {
	s.mu.Lock()
	s.figures.Flags = f
	s.mu.Unlock()
}

// SetSchedule moves the sale window after the owner reschedules it.
func (s *Store) SetSchedule(start, end time.Time) {
	s.mu.Lock()
	s.presale.StartTime = start
	s.presale.EndTime = end
	s.mu.Unlock()
}

// Reset clears the figures, e.g. when the connected wallet changes.
func (s *Store) Reset() {
	s.mu.Lock()
	s.figures = Figures{Balances: map[string]float64{}}
	s.mu.Unlock()
}
