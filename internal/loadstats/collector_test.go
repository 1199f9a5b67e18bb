package loadstats

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSummary_Percentiles(t *testing.T) {
	c := NewCollector()
	// 1ms..100ms, added out of order.
	for i := 100; i >= 1; i-- {
		c.Add(time.Duration(i)*time.Millisecond, i%10 == 0)
	}
	c.AddError()

	s := c.Summary()
	if s.Requests != 100 {
		t.Errorf("Requests = %d, want 100", s.Requests)
	}
	if s.Flagged != 10 {
		t.Errorf("Flagged = %d, want 10", s.Flagged)
	}
	if s.Errors != 1 {
		t.Errorf("Errors = %d, want 1", s.Errors)
	}

	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"p50", s.P50, 51 * time.Millisecond},
		{"p95", s.P95, 95 * time.Millisecond},
		{"p99", s.P99, 99 * time.Millisecond},
		{"max", s.Max, 100 * time.Millisecond},
		{"avg", s.Avg, 50500 * time.Microsecond},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	s := NewCollector().Summary()
	if s.Requests != 0 || s.P99 != 0 || s.Max != 0 {
		t.Errorf("empty Summary = %+v", s)
	}
}

func TestSummary_SingleSample(t *testing.T) {
	c := NewCollector()
	c.Add(3*time.Millisecond, false)

	s := c.Summary()
	if s.P50 != 3*time.Millisecond || s.P95 != 3*time.Millisecond || s.P99 != 3*time.Millisecond {
		t.Errorf("Summary = %+v", s)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Add(time.Millisecond, false)
			}
		}()
	}
	wg.Wait()

	if got := c.Summary().Requests; got != 800 {
		t.Errorf("Requests = %d, want 800", got)
	}
}

func TestReport(t *testing.T) {
	c := NewCollector()
	c.Add(2*time.Millisecond, true)

	var buf bytes.Buffer
	c.Report(&buf)

	for _, want := range []string{"Requests:     1", "Flagged:      1", "p99:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("report missing %q:\n%s", want, buf.String())
		}
	}
}
