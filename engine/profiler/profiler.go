package profiler

import (
	"fmt"
	"runtime"
	"time"

	"github.com/xGl0ck/XGEngine/common"
)

// Stats is one profiling window of frame and memory statistics.
type Stats struct {
	FPS         float64
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
	SysMB       float64
}

// Put writes the stats as debug lines in a fixed order.
//
// Parameters:
//   - put: receives each key and formatted value, e.g. Renderer.PutDebugLine
func (s Stats) Put(put func(key, value string)) {
	put("fps", fmt.Sprintf("%.1f", s.FPS))
	put("heap", fmt.Sprintf("%.2f MB", s.HeapMB))
	put("alloc rate", fmt.Sprintf("%.2f MB/s", s.AllocRateMB))
	put("gc", fmt.Sprintf("%d (last %d us, max %d us)", s.GCCount, s.LastPauseUs, s.MaxPauseUs))
	put("sys", fmt.Sprintf("%.2f MB", s.SysMB))
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Stats are produced, and logged at debug level, once per update interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now func() time.Time
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return newProfiler(time.Now)
}

func newProfiler(now func() time.Time) *Profiler {
	return &Profiler{
		lastTime:       now(),
		updateInterval: time.Second,
		now:            now,
	}
}

// Tick should be called once per frame to track frame timing.
// When the update interval has elapsed it computes FPS, heap usage, allocation rate,
// GC count and pause times, and total memory obtained from the OS.
//
// Returns:
//   - Stats: the stats of the window that just closed, or the previous stats
//   - bool: true if a new window closed on this tick
func (p *Profiler) Tick() (Stats, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return p.last, false
	}

	runtime.ReadMemStats(&p.memStats)
	// Alloc: live heap bytes. TotalAlloc: cumulative heap bytes. Sys: bytes obtained from the OS.
	stats := Stats{
		FPS:         float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:      float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB: float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:     p.memStats.NumGC,
		SysMB:       float64(p.memStats.Sys) / 1024 / 1024,
	}

	gcCount := p.memStats.NumGC
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		stats.LastPauseUs = p.memStats.PauseNs[(gcCount+255)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPauseUs = max(stats.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	common.Logger().Debug("profiler",
		"fps", stats.FPS,
		"heap_mb", stats.HeapMB,
		"alloc_rate_mb", stats.AllocRateMB,
		"gc", stats.GCCount,
		"gc_last_pause_us", stats.LastPauseUs,
		"gc_max_pause_us", stats.MaxPauseUs,
		"sys_mb", stats.SysMB,
	)

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.last = stats
	return stats, true
}
