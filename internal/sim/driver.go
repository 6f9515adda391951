package sim

// Driver owns the simulated clock. It pops due events in fire order
// and invokes them synchronously: an activity runs to completion,
// including any transform and rescheduling, before the next event is
// considered. There is no parallelism anywhere below this point.
type Driver struct {
	scheduler *Scheduler
	fired     uint64
}

// NewDriver wraps a scheduler for event extraction.
func NewDriver(scheduler *Scheduler) *Driver {
	return &Driver{scheduler: scheduler}
}

// RunUntil fires every event due at or before t, advancing the
// simulated clock through each event's fire time and finally to t.
// It returns the number of events fired.
func (d *Driver) RunUntil(t float64) int {
	count := 0
	for {
		ev, ok := d.scheduler.popDue(t)
		if !ok {
			break
		}
		ev.action()
		count++
	}
	d.scheduler.advanceTo(t)
	d.fired += uint64(count)
	return count
}

// Now returns the current simulated time.
func (d *Driver) Now() float64 {
	return d.scheduler.Now()
}

// EventsFired reports the total events invoked since construction.
func (d *Driver) EventsFired() uint64 {
	return d.fired
}
