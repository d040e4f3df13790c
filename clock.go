package orrery

import "fmt"

// TimeScale selects one of the fixed time-compression presets. Presets range
// from true real time up to about a simulated year every ten seconds.
type TimeScale uint8

const (
	// ScaleRealTime is 1:1 with wall-clock time.
	ScaleRealTime TimeScale = iota
	// ScaleMinutePerSecond compresses one simulated minute into a second.
	ScaleMinutePerSecond
	// ScaleHourPerSecond compresses one simulated hour into a second.
	ScaleHourPerSecond
	// ScaleDayPerSecond compresses one simulated day into a second.
	ScaleDayPerSecond
	// ScaleWeekPerSecond compresses one simulated week into a second.
	ScaleWeekPerSecond
	// ScaleYearPerTenSeconds compresses a simulated Julian year into ten
	// seconds, ~36.5 simulated days per real second.
	ScaleYearPerTenSeconds
)

const secondsPerDay = 86400.0

// DaysPerSecond returns how many simulated days elapse per real second under
// this preset.
func (ts TimeScale) DaysPerSecond() float64 {
	switch ts {
	case ScaleRealTime:
		return 1 / secondsPerDay
	case ScaleMinutePerSecond:
		return 60 / secondsPerDay
	case ScaleHourPerSecond:
		return 3600 / secondsPerDay
	case ScaleDayPerSecond:
		return 1
	case ScaleWeekPerSecond:
		return 7
	case ScaleYearPerTenSeconds:
		return daysPerJulianYear / 10
	}
	return 1 / secondsPerDay
}

// Multiplier returns the compression ratio relative to real time.
func (ts TimeScale) Multiplier() float64 {
	return ts.DaysPerSecond() * secondsPerDay
}

func (ts TimeScale) String() string {
	switch ts {
	case ScaleRealTime:
		return "real-time"
	case ScaleMinutePerSecond:
		return "1min/s"
	case ScaleHourPerSecond:
		return "1hr/s"
	case ScaleDayPerSecond:
		return "1day/s"
	case ScaleWeekPerSecond:
		return "1wk/s"
	case ScaleYearPerTenSeconds:
		return "1yr/10s"
	}
	return fmt.Sprintf("TimeScale(%d)", uint8(ts))
}

// TimeScaleFromString resolves a preset by its display name.
func TimeScaleFromString(s string) (TimeScale, error) {
	for _, ts := range []TimeScale{ScaleRealTime, ScaleMinutePerSecond, ScaleHourPerSecond,
		ScaleDayPerSecond, ScaleWeekPerSecond, ScaleYearPerTenSeconds} {
		if ts.String() == s {
			return ts, nil
		}
	}
	return ScaleRealTime, fmt.Errorf("unknown time scale %q", s)
}

// Clock converts real elapsed time into simulated days under the currently
// selected preset. Switching presets only changes the rate of future ticks;
// accumulated simulated time, and therefore every propagated position, stays
// continuous.
type Clock struct {
	scale TimeScale
	days  float64 // total simulated days elapsed
}

// NewClock returns a clock at the given preset with zero elapsed time.
func NewClock(scale TimeScale) *Clock {
	return &Clock{scale: scale}
}

// Advance consumes a real-time delta in seconds and returns the simulated-days
// delta for this tick. Negative real deltas are treated as zero.
func (c *Clock) Advance(realΔt float64) float64 {
	if realΔt < 0 {
		realΔt = 0
	}
	Δdays := realΔt * c.scale.DaysPerSecond()
	c.days += Δdays
	return Δdays
}

// SetScale switches the preset, effective from the next Advance call.
func (c *Clock) SetScale(scale TimeScale) { c.scale = scale }

// Scale returns the selected preset.
func (c *Clock) Scale() TimeScale { return c.scale }

// Days returns the total simulated days elapsed.
func (c *Clock) Days() float64 { return c.days }
