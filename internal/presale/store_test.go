package presale_test

import (
	"sync"
	"testing"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/stretchr/testify/assert"
)

func TestStoreStatusIsComputedOnRead(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))
	assert.Equal(t, presale.StatusLive, s.Status(now))

	s.SetTotalTokensSold(999.6)
	assert.Equal(t, presale.StatusFilled, s.Status(now))

	s.SetFlags(presale.SaleFlags{IsCancelled: true})
	assert.Equal(t, presale.StatusCanceled, s.Status(now))

	s.SetFlags(presale.SaleFlags{IsFinalized: true})
	assert.Equal(t, presale.StatusEnded, s.Status(now))
}

func TestStoreSetters(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))
	s.SetTotalTokensSold(12.5)
	s.SetTotalContributors(3)
	s.SetContributor(presale.ContributorDetails{Amount: 4, IsClaimed: true})
	s.SetBalances(map[string]float64{"USDT": 100})

	f := s.Figures()
	assert.Equal(t, 12.5, f.TotalTokensSold)
	assert.Equal(t, int64(3), f.TotalContributors)
	assert.Equal(t, 4.0, f.Contributor.Amount)
	assert.True(t, f.Contributor.IsClaimed)
	assert.Equal(t, 100.0, f.Balances["USDT"])
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))
	balances := map[string]float64{"MATIC": 1}
	s.SetBalances(balances)
	balances["MATIC"] = 99

	snap := s.Snapshot()
	snap.Figures.Balances["MATIC"] = 42

	assert.Equal(t, 1.0, s.Figures().Balances["MATIC"])
}

func TestStoreSetScheduleMovesStatus(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))
	assert.Equal(t, presale.StatusLive, s.Status(now))

	s.SetSchedule(now.Add(time.Hour), now.Add(2*time.Hour))
	assert.Equal(t, presale.StatusUpcoming, s.Status(now))
	assert.Equal(t, now.Add(time.Hour), s.Presale().StartTime)
}

func TestStoreReset(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))
	s.SetTotalTokensSold(10)
	s.SetContributor(presale.ContributorDetails{Amount: 1})
	s.Reset()

	f := s.Figures()
	assert.Zero(t, f.TotalTokensSold)
	assert.Zero(t, f.Contributor.Amount)
	assert.NotNil(t, f.Balances)
}

func TestStoreLastWriteWins(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			s.SetTotalTokensSold(v)
			_ = s.Status(now)
		}(float64(i))
	}
	wg.Wait()
	s.SetTotalTokensSold(500)

	assert.Equal(t, 500.0, s.Figures().TotalTokensSold)
}

func TestSnapshotStatus(t *testing.T) {
	s := presale.NewStore(*window(-time.Hour, time.Hour, 1000))
	s.SetTotalTokensSold(1000)
	assert.Equal(t, presale.StatusFilled, s.Snapshot().Status(now))
}
