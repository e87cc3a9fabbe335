package profiler

import "time"

// ProfilerBuilderOption is a functional option applied to a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithName sets the name attached to every report.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the name option
func WithName(name string) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.name = name
	}
}

// WithInterval sets how often statistics are logged. Zero logs on every Record.
//
// Parameters:
//   - d: the interval
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the interval option
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.updateInterval = max(d, 0)
	}
}

// WithClock replaces the time source.
//
// Parameters:
//   - now: returns the current time
//
// Returns:
//   - ProfilerBuilderOption: a function that applies the clock option
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}
