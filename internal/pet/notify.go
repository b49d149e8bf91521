package pet

import (
	"fmt"
	"math"
	"time"
)

// Notification is a reminder for the platform scheduler
type Notification struct {
	Need            NeedKind  `json:"need"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	MinutesUntilDue int       `json:"minutes_until_due"`
	Due             time.Time `json:"due"`
}

var notificationBodies = [NeedCount]string{
	"%s is getting hungry. A feast would help!",
	"%s is feeling unwell. Time for a remedy.",
	"%s is bored. Come match some glyphs!",
	"%s is exhausted and needs a nap.",
}

// PlanNotifications works out when each decaying need will reach its
// critical limit. Needs still alarmed, not decaying, or due inside the
// silence window are skipped.
func (p *Pet) PlanNotifications(now time.Time) []Notification {
	if p.Level == LevelEgg {
		return nil
	}
	var out []Notification
	for _, n := range p.needs {
		if p.Sleeping && n.Kind == Energy {
			continue
		}
		rate := n.DecayRate()
		if rate <= 0 || n.Alarmed() {
			continue
		}
		minutes := int(math.Ceil((n.Current - n.CriticalLimit) / rate))
		if minutes < 1 {
			minutes = 1
		}
		due := now.Add(time.Duration(minutes) * time.Minute)
		if InSilenceWindow(due.Local().Hour(), p.settings.SilenceStart, p.settings.SilenceEnd) {
			continue
		}
		out = append(out, Notification{
			Need:            n.Kind,
			Title:           fmt.Sprintf("%s needs you", p.Name),
			Body:            fmt.Sprintf(notificationBodies[n.Kind], p.Name),
			MinutesUntilDue: minutes,
			Due:             due,
		})
	}
	return out
}

// InSilenceWindow reports whether hour falls in [start, end), wrapping past midnight
func InSilenceWindow(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	return hour >= start || hour < end
}
