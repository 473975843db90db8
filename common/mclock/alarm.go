// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package mclock

import "time"

// Alarm sends a value on C at most once per Schedule call, at the earliest
// scheduled time. It is the building block for the fiber scheduler's
// suspend_until: a suspended fiber with a concrete wake-up arms one Alarm.
type Alarm struct {
	clock Clock
	C     chan struct{}

	timer  Timer
	armed  bool
	wakeAt AbsTime
}

// NewAlarm creates an Alarm using clock (nil selects the system clock).
func NewAlarm(clock Clock) *Alarm {
	if clock == nil {
		clock = System{}
	}
	return &Alarm{clock: clock, C: make(chan struct{}, 1)}
}

// Schedule arms the alarm to fire at absolute time t, replacing any earlier
// pending deadline only if t is sooner.
func (a *Alarm) Schedule(t AbsTime) {
	now := a.clock.Now()
	if a.armed && now < a.wakeAt && t >= a.wakeAt {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.wakeAt = t
	a.armed = true
	d := time.Duration(t - now)
	if d < 0 {
		d = 0
	}
	a.timer = a.clock.AfterFunc(d, a.fire)
}

func (a *Alarm) fire() {
	select {
	case a.C <- struct{}{}:
	default:
	}
}

// Stop disarms the alarm.
func (a *Alarm) Stop() {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.armed = false
}
