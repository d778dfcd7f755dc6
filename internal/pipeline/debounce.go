package pipeline

// DebounceSlot holds at most one pending query application. Every edit arms
// the slot with the new value and a fresh generation, implicitly cancelling
// the previous pending application; only a Fire carrying the current
// generation lands. The caller owns the actual timer (the UI schedules a
// tick for the debounce window and delivers the generation back).
type DebounceSlot struct {
	gen     uint64
	pending string
}

// Arm records value as the pending application and returns the generation the
// eventual Fire must present. Any generation handed out earlier is dead from
// this point on.
func (d *DebounceSlot) Arm(value string) uint64 {
	d.gen++
	d.pending = value
	return d.gen
}

// Fire attempts to apply the pending value for the given generation. It
// returns the value and true only when gen is still current; a stale
// generation means a newer edit superseded this timer, and nothing applies.
func (d *DebounceSlot) Fire(gen uint64) (string, bool) {
	if gen != d.gen {
		return "", false
	}
	return d.pending, true
}

// Cancel drops any pending application.
func (d *DebounceSlot) Cancel() {
	d.gen++
}
