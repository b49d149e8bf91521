package pet

import (
	"log"
	"math"
	"time"
)

// ElapsedMinutes is the absolute gap between two timestamps in whole minutes
func ElapsedMinutes(previous, now time.Time) int {
	d := now.Sub(previous)
	if d < 0 {
		d = -d
	}
	return int(math.Round(d.Minutes()))
}

// CatchUp reconciles needs for the time since LastSeen and moves LastSeen to
// now. Gaps of a minute or less are ignored. The decay is applied as one
// linear batch, so calling CatchUp twice with the same stale LastSeen would
// apply it twice; stamping LastSeen here is what prevents that.
func (p *Pet) CatchUp(now time.Time) int {
	minutes := ElapsedMinutes(p.LastSeen, now)
	if minutes > 1 {
		p.DecreaseNeeds(float64(minutes))
		log.Printf("Caught up %d minutes for %s (sleeping: %t)", minutes, p.Name, p.Sleeping)
	}
	p.LastSeen = now
	return minutes
}
