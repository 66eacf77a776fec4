// Package profiling is a lightweight per-frame CPU profiler.
package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
	verbose     bool
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	for k, v := range frameTotals {
		out[k] = v
	}
	return out
}

// SumWithPrefix adds up every bucket whose name starts with prefix
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

// SetVerbose toggles logging of every frame's totals, not only slow ones
func SetVerbose(on bool) {
	mu.Lock()
	verbose = on
	mu.Unlock()
}

// ToggleVerbose flips verbose mode and returns the new value
func ToggleVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	verbose = !verbose
	return verbose
}

// Verbose reports whether every frame should be logged
func Verbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// TopN formats top N durations from the current frame totals.
// Example: "renderer.Render:4.2ms, loop.Rotate:0.1ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0"
func formatMs(d time.Duration) string {
	tenths := d.Microseconds() / 100
	return strconv.FormatFloat(float64(tenths)/10, 'f', -1, 64) + "ms"
}
