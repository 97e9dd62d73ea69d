package presale

import (
	"math"
	"time"
)

// roundHalfUp rounds to the nearest integer with halves going up, so
// 999.5 becomes 1000 and -0.5 becomes 0.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ComputeStatus derives the lifecycle status. The checks run in a fixed
// order and the first match wins: finalized, cancelled, sale window, past end.
// The window includes start and excludes end.
func ComputeStatus(p *Presale, f Figures, now time.Time) Status {
	switch {
	case f.Flags.IsFinalized:
		return StatusEnded
	case f.Flags.IsCancelled:
		return StatusCanceled
	case !now.Before(p.StartTime) && now.Before(p.EndTime):
		if roundHalfUp(f.TotalTokensSold) >= p.Hardcap {
			return StatusFilled
		}
		return StatusLive
	case !now.Before(p.EndTime):
		return StatusEnded
	default:
		return StatusUpcoming
	}
}

// ListStatus is the time-only status shown on presale listings, which do
// not read contract flags.
func ListStatus(p *Presale, now time.Time) Status {
	switch {
	case now.Before(p.StartTime):
		return StatusUpcoming
	case now.Before(p.EndTime):
		return StatusLive
	default:
		return StatusEnded
	}
}

// TimeProgress returns how much of the sale window has elapsed, as a whole
// percentage between 0 and 100.
func TimeProgress(p *Presale, now time.Time) int {
	if now.Before(p.StartTime) {
		return 0
	}
	if !now.Before(p.EndTime) {
		return 100
	}
	total := p.EndTime.Unix() - p.StartTime.Unix()
	if total <= 0 {
		return 100
	}
	elapsed := now.Unix() - p.StartTime.Unix()
	return int(roundHalfUp(float64(elapsed) / float64(total) * 100))
}

// Countdown returns the label and target time of the sale countdown, or
// false when no countdown applies.
func Countdown(p *Presale, status Status) (string, time.Time, bool) {
	switch status {
	case StatusUpcoming:
		return "Presale starts in", p.StartTime, true
	case StatusLive, StatusFilled:
		return "Presale ends in", p.EndTime, true
	default:
		return "", time.Time{}, false
	}
}
