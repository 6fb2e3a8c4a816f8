package game

// RaiseSchedule gives the amount a raise adds to the table bet. raises is the
// number of raises already made in the current betting round. Schedules must
// never return a smaller increment for a larger raises value.
type RaiseSchedule interface {
	Increment(raises int) int
}

// FixedRaise adds the same amount for every raise
type FixedRaise int

func (f FixedRaise) Increment(int) int {
	return int(f)
}

// DoublingRaise doubles the increment after each raise in a round, up to Cap
// when Cap is positive.
type DoublingRaise struct {
	Base int
	Cap  int
}

func (d DoublingRaise) Increment(raises int) int {
	inc := d.Base
	for i := 0; i < raises; i++ {
		if d.Cap > 0 && inc >= d.Cap {
			break
		}
		inc *= 2
	}
	if d.Cap > 0 && inc > d.Cap {
		return d.Cap
	}
	return inc
}
