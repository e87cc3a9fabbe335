package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-compose/common"
)

// Sample is the outcome of one composition update.
type Sample struct {
	Batches       bool
	Blend         bool
	Lights        bool
	Cameras       bool
	Duration      time.Duration
	RenderActions int
	Clusters      int
}

// Stats are the counters accumulated since the last report.
type Stats struct {
	Updates        int
	BatchRebuilds  int
	BlendRebuilds  int
	LightRebuilds  int
	CameraRebuilds int
	TotalDuration  time.Duration
	MaxDuration    time.Duration
	RenderActions  int
	Clusters       int
}

// Profiler tracks composition update cost and memory statistics.
// Outputs stats to the package logger at a configurable interval.
type Profiler struct {
	name           string
	stats          Stats
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	now            func() time.Time
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		name:           "composition",
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Stats returns the counters accumulated since the last report.
func (p *Profiler) Stats() Stats {
	return p.stats
}

// Record should be called once per composition update.
// Logs statistics when the update interval has elapsed and resets the counters.
// Statistics include: updates per second, rebuild counts per aggregate, average and
// max update time, live render actions and clusters, heap usage, allocation rate
// and GC count/pause times.
//
// Parameters:
//   - s: the sample of the update just finished
//
// Returns:
//   - bool: true if stats were logged this call, false otherwise
func (p *Profiler) Record(s Sample) bool {
	p.stats.Updates++
	if s.Batches {
		p.stats.BatchRebuilds++
	}
	if s.Blend {
		p.stats.BlendRebuilds++
	}
	if s.Lights {
		p.stats.LightRebuilds++
	}
	if s.Cameras {
		p.stats.CameraRebuilds++
	}
	p.stats.TotalDuration += s.Duration
	p.stats.MaxDuration = max(p.stats.MaxDuration, s.Duration)
	p.stats.RenderActions = s.RenderActions
	p.stats.Clusters = s.Clusters

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024

	var updatesPerSec, allocRateMB float64
	if seconds := elapsed.Seconds(); seconds > 0 {
		updatesPerSec = float64(p.stats.Updates) / seconds
		allocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds
	}

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	common.Logger().Info("profiler",
		"name", p.name,
		"updates", p.stats.Updates,
		"updates_per_sec", updatesPerSec,
		"avg_update", p.stats.TotalDuration/time.Duration(p.stats.Updates),
		"max_update", p.stats.MaxDuration,
		"batch_rebuilds", p.stats.BatchRebuilds,
		"blend_rebuilds", p.stats.BlendRebuilds,
		"light_rebuilds", p.stats.LightRebuilds,
		"camera_rebuilds", p.stats.CameraRebuilds,
		"render_actions", p.stats.RenderActions,
		"clusters", p.stats.Clusters,
		"heap_mb", allocMB,
		"alloc_rate_mb_s", allocRateMB,
		"gc", gcCount,
		"gc_max_pause_us", maxPauseUs,
	)

	p.stats = Stats{}
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
