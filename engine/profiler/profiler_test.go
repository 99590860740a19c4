package profiler

import (
	"math"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestTickReportsOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProfiler(clock.now)

	for range 29 {
		clock.t = clock.t.Add(10 * time.Millisecond)
		if _, ok := p.Tick(); ok {
			t.Fatal("Tick() reported before the interval elapsed")
		}
	}

	clock.t = time.Unix(1, 0)
	stats, ok := p.Tick()
	if !ok {
		t.Fatal("Tick() did not report after one second")
	}
	if math.Abs(stats.FPS-30) > 1e-9 {
		t.Errorf("FPS = %v, want 30", stats.FPS)
	}
	if stats.SysMB <= 0 {
		t.Errorf("SysMB = %v, want > 0", stats.SysMB)
	}

	clock.t = clock.t.Add(10 * time.Millisecond)
	again, ok := p.Tick()
	if ok || again != stats {
		t.Errorf("Tick() = %v, %v; want previous stats without a report", again, ok)
	}
}

func TestStatsPutOrder(t *testing.T) {
	var keys []string
	Stats{FPS: 60}.Put(func(key, value string) {
		keys = append(keys, key)
		if key == "fps" && value != "60.0" {
			t.Errorf("fps value = %q, want 60.0", value)
		}
	})
	want := []string{"fps", "heap", "alloc rate", "gc", "sys"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, keys[i], want[i])
		}
	}
}
