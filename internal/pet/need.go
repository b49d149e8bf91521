package pet

import "math"

// Need is a clamped scalar that grows and decays by its current factors.
//
// The critical state is a latch with two edges: it is set when the value
// falls to or below CriticalLimit, the alarm is cleared as soon as the value
// climbs back above CriticalLimit, and the latch itself only resets above
// SatisfiedLimit. One drop/recovery cycle therefore reports exactly one
// critical-entered and one critical-cleared event.
type Need struct {
	Kind           NeedKind
	Initial        float64
	Current        float64
	CriticalLimit  float64
	SatisfiedLimit float64
	UpFactor       float64
	DownFactor     float64
	RandomOffset   float64

	critical bool
	alarmed  bool
	emit     func(Event)
}

func newNeed(kind NeedKind, s NeedSettings, emit func(Event)) *Need {
	n := &Need{
		Kind:           kind,
		Initial:        s.Initial,
		CriticalLimit:  s.CriticalLimit,
		SatisfiedLimit: s.SatisfiedLimit,
		emit:           emit,
	}
	n.Reset()
	return n
}

// IsCritical reports whether the latch is set
func (n *Need) IsCritical() bool { return n.critical }

// Alarmed reports whether the need is critical and has not yet recovered above its critical limit
func (n *Need) Alarmed() bool { return n.alarmed }

// Increase grows the value by amount scaled by the up factor.
// Values already outside [0,100] are left untouched.
func (n *Need) Increase(amount float64) {
	if amount == 0 || !inRange(n.Current) {
		return
	}
	delta := amount * n.rate(n.UpFactor)
	n.Current = clampNeed(n.Current + delta)
	n.notify(Event{Kind: EventNeedUpdated, Need: n.Kind, Sign: sign(delta)})

	if n.critical && n.Current > n.CriticalLimit {
		if n.alarmed {
			n.alarmed = false
			n.notify(Event{Kind: EventNeedCriticalChanged, Need: n.Kind, Critical: false})
		}
		if n.Current > n.SatisfiedLimit {
			n.critical = false
		}
	}
}

// Decrease shrinks the value by amount scaled by the down factor
func (n *Need) Decrease(amount float64) {
	if amount == 0 || !inRange(n.Current) {
		return
	}
	delta := -amount * n.rate(n.DownFactor)
	n.Current = clampNeed(n.Current + delta)
	n.notify(Event{Kind: EventNeedUpdated, Need: n.Kind, Sign: sign(delta)})
	n.checkEntered()
}

// SetupValues recomputes both factors and re-rolls the random offset.
// The offset scales with the number of care responses seen so far.
func (n *Need) SetupValues(up, down, increment float64, calls int) {
	n.UpFactor = math.Max(0, up)
	n.DownFactor = math.Max(0, down+increment)
	n.RandomOffset = (RandFloat64()*2 - 1) * MaxRandomOffset * float64(calls)
}

// GrowthRate is the effective amount gained per unit of Increase
func (n *Need) GrowthRate() float64 { return n.rate(n.UpFactor) }

// DecayRate is the effective amount lost per unit of Decrease
func (n *Need) DecayRate() float64 { return n.rate(n.DownFactor) }

// Reset puts the value back to its initial level without emitting events
func (n *Need) Reset() {
	n.Current = n.Initial
	n.syncLatch()
}

func (n *Need) restore(current, offset float64) {
	n.Current = current
	n.RandomOffset = offset
	n.syncLatch()
}

// restoreLatch reinstates a saved latch, corrected against the restored value
func (n *Need) restoreLatch(critical, alarmed bool) {
	switch {
	case n.Current > n.SatisfiedLimit:
		critical, alarmed = false, false
	case n.Current <= n.CriticalLimit && !critical:
		critical, alarmed = true, true
	case n.Current > n.CriticalLimit:
		alarmed = false
	}
	n.critical = critical
	n.alarmed = alarmed && critical
}

// drainTo lowers the value to at most v, bypassing factors
func (n *Need) drainTo(v float64) {
	if n.Current <= v {
		return
	}
	n.Current = clampNeed(v)
	n.notify(Event{Kind: EventNeedUpdated, Need: n.Kind, Sign: -1})
	n.checkEntered()
}

func (n *Need) checkEntered() {
	if !n.critical && n.Current <= n.CriticalLimit {
		n.critical = true
		n.alarmed = true
		n.notify(Event{Kind: EventNeedCriticalChanged, Need: n.Kind, Critical: true})
	}
}

func (n *Need) syncLatch() {
	n.critical = n.Current <= n.CriticalLimit
	n.alarmed = n.critical
}

// rate treats a zero factor as frozen so the offset cannot move a frozen need
func (n *Need) rate(factor float64) float64 {
	if factor == 0 {
		return 0
	}
	return math.Max(0, factor+n.RandomOffset)
}

func (n *Need) notify(e Event) {
	if n.emit != nil {
		n.emit(e)
	}
}

func inRange(v float64) bool {
	return v >= MinNeed && v <= MaxNeed
}

func clampNeed(v float64) float64 {
	return math.Max(MinNeed, math.Min(v, MaxNeed))
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
