package shared

import "fmt"

// Tick resolution of the host simulation.
const (
	TicksPerHour int64 = 2500
	TicksPerDay  int64 = TicksPerHour * 24
	TicksPerYear int64 = TicksPerDay * 60
)

// GameTime is an absolute in-game instant, measured in simulation ticks since
// world creation. All engine cadences (cache refresh, pass interval) are
// expressed in game time, never wall-clock time.
type GameTime int64

// GameTimeOf builds a GameTime from calendar components: year, day of year
// (0-based) and fractional hour of day.
func GameTimeOf(year int, dayOfYear int, hour float64) GameTime {
	ticks := int64(year)*TicksPerYear + int64(dayOfYear)*TicksPerDay + int64(hour*float64(TicksPerHour))
	return GameTime(ticks)
}

// Ticks returns the raw tick count.
func (t GameTime) Ticks() int64 { return int64(t) }

// Hours returns the absolute time expressed in fractional in-game hours.
func (t GameTime) Hours() float64 { return float64(t) / float64(TicksPerHour) }

// HoursSince returns the elapsed in-game hours between other and t.
// Negative when other is in the future.
func (t GameTime) HoursSince(other GameTime) float64 {
	return float64(t-other) / float64(TicksPerHour)
}

// AddHours returns t shifted forward by the given fractional hours.
func (t GameTime) AddHours(h float64) GameTime {
	return t + GameTime(h*float64(TicksPerHour))
}

// Year returns the in-game year component.
func (t GameTime) Year() int { return int(int64(t) / TicksPerYear) }

// DayOfYear returns the 0-based day within the year.
func (t GameTime) DayOfYear() int { return int((int64(t) % TicksPerYear) / TicksPerDay) }

// HourOfDay returns the fractional hour within the day.
func (t GameTime) HourOfDay() float64 {
	return float64(int64(t)%TicksPerDay) / float64(TicksPerHour)
}

func (t GameTime) String() string {
	return fmt.Sprintf("year %d day %d %05.2fh", t.Year(), t.DayOfYear(), t.HourOfDay())
}

// GameClock is an abstraction over the host's simulation time, allowing it to
// be mocked in tests.
type GameClock interface {
	Now() GameTime
}

// FixedClock is a controllable GameClock for tests and the sim harness.
type FixedClock struct {
	Current GameTime
}

// Now returns the clock's current game time.
func (c *FixedClock) Now() GameTime { return c.Current }

// AdvanceHours moves the clock forward by the given in-game hours.
func (c *FixedClock) AdvanceHours(h float64) { c.Current = c.Current.AddHours(h) }

// AdvanceTicks moves the clock forward by raw ticks.
func (c *FixedClock) AdvanceTicks(n int64) { c.Current += GameTime(n) }
