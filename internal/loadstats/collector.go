// Package loadstats aggregates round-trip latencies from concurrent load
// generators and summarises them as percentiles.
package loadstats

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"time"
)

// Collector is safe for concurrent use.
type Collector struct {
	mu        sync.Mutex
	latencies []time.Duration
	flagged   int
	errors    int
	startTime time.Time
}

// NewCollector creates a Collector with the start time set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Add records one completed check and whether it was flagged.
func (c *Collector) Add(d time.Duration, flagged bool) {
	c.mu.Lock()
	c.latencies = append(c.latencies, d)
	if flagged {
		c.flagged++
	}
	c.mu.Unlock()
}

// AddError records one failed check.
func (c *Collector) AddError() {
	c.mu.Lock()
	c.errors++
	c.mu.Unlock()
}

// Summary is a point-in-time view of a Collector.
type Summary struct {
	Elapsed  time.Duration
	Requests int
	Flagged  int
	Errors   int
	Avg      time.Duration
	P50      time.Duration
	P95      time.Duration
	P99      time.Duration
	Max      time.Duration
}

// Throughput is completed requests per second.
func (s Summary) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Requests) / s.Elapsed.Seconds()
}

// Summary computes percentiles over everything recorded so far.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	sorted := slices.Clone(c.latencies)
	s := Summary{
		Elapsed:  time.Since(c.startTime),
		Requests: len(c.latencies),
		Flagged:  c.flagged,
		Errors:   c.errors,
	}
	c.mu.Unlock()

	n := len(sorted)
	if n == 0 {
		return s
	}
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}
	s.Avg = sum / time.Duration(n)
	s.P50 = sorted[n/2]
	s.P95 = sorted[rank(n, 0.95)]
	s.P99 = sorted[rank(n, 0.99)]
	s.Max = sorted[n-1]
	return s
}

// rank is the nearest-rank index of percentile p in n sorted samples.
func rank(n int, p float64) int {
	return max(int(math.Ceil(float64(n)*p))-1, 0)
}

// Report writes a human readable summary to w.
func (c *Collector) Report(w io.Writer) {
	s := c.Summary()

	fmt.Fprintln(w, "\n=== Moderation Check Load Results ===")
	fmt.Fprintf(w, "Duration:     %s\n", s.Elapsed.Round(time.Second))
	fmt.Fprintf(w, "Requests:     %d (%.0f/s)\n", s.Requests, s.Throughput())
	fmt.Fprintf(w, "Flagged:      %d\n", s.Flagged)
	fmt.Fprintf(w, "Errors:       %d\n", s.Errors)
	if total := s.Requests + s.Errors; total > 0 {
		fmt.Fprintf(w, "Error rate:   %.2f%%\n", float64(s.Errors)/float64(total)*100)
	}
	if s.Requests > 0 {
		fmt.Fprintln(w, "\n--- Round-trip Latency ---")
		fmt.Fprintf(w, "  avg: %v  p50: %v  p95: %v  p99: %v  max: %v  (n=%d)\n",
			s.Avg.Round(time.Microsecond),
			s.P50.Round(time.Microsecond),
			s.P95.Round(time.Microsecond),
			s.P99.Round(time.Microsecond),
			s.Max.Round(time.Microsecond),
			s.Requests,
		)
	}
	fmt.Fprintln(w)
}
