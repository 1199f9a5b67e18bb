// Command loadcheck drives request/reply load against moderation.check and
// prints a latency summary.
//
// Usage:
//
//	loadcheck [-nats url] [-workers n] [-duration d] [-violations ratio]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/venuemarket/moderation/internal/loadstats"
	"github.com/venuemarket/moderation/internal/messaging"
	"github.com/venuemarket/moderation/internal/review"
)

// Sample message bodies. The flagged set covers every detector family.
var (
	cleanBodies = []string{
		"Hi, is the garden venue available on June 14th for about 80 guests?",
		"Could we get the catering menu and the deposit terms before Friday?",
		"Thanks! We'd like to book the loft for the 3pm to 9pm slot.",
	}
	flaggedBodies = []string{
		"Just call me at 555-123-4567 and we can sort it out",
		"email me directly: events.planner@gmail.com",
		"my number is five five five one two three four five six seven",
		"reach me at events (at) gmail (dot) com",
		"text 2125551234 or write to host@example.com",
	}
)

func main() {
	url := flag.String("nats", nats.DefaultURL, "NATS server URL")
	workers := flag.Int("workers", 16, "Concurrent requesters")
	duration := flag.Duration("duration", 30*time.Second, "Test duration")
	timeout := flag.Duration("timeout", 2*time.Second, "Per-request timeout")
	violations := flag.Float64("violations", 0.2, "Fraction of messages carrying contact details")
	flag.Parse()

	nc, err := nats.Connect(*url, nats.Name("moderation-loadcheck"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer nc.Close()

	fmt.Printf("Load check: %d workers against %s on %s for %s (violations=%.0f%%)\n",
		*workers, messaging.SubjectModerationCheck, *url, *duration, *violations*100)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *duration)
	defer cancel()

	collector := loadstats.NewCollector()
	var seq atomic.Int64
	var wg sync.WaitGroup

	for w := range *workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				id := seq.Add(1)
				msg := review.Message{
					MessageID:  id,
					SenderID:   int64(w + 1),
					ReceiverID: int64(w + 1 + *workers),
					LocationID: 1 + id%50,
					Content:    pickBody(*violations),
				}
				if err := roundTrip(nc, msg, *timeout, collector); err != nil {
					collector.AddError()
				}
			}
		}()
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			s := collector.Summary()
			fmt.Printf("  [%s] requests=%d errors=%d p99=%v\n",
				s.Elapsed.Round(time.Second), s.Requests, s.Errors, s.P99.Round(time.Microsecond))
		}
	}

	wg.Wait()
	collector.Report(os.Stdout)
}

func pickBody(violations float64) string {
	if rand.Float64() < violations {
		return flaggedBodies[rand.IntN(len(flaggedBodies))]
	}
	return cleanBodies[rand.IntN(len(cleanBodies))]
}

func roundTrip(nc *nats.Conn, msg review.Message, timeout time.Duration, c *loadstats.Collector) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	start := time.Now()
	reply, err := nc.Request(messaging.SubjectModerationCheck, data, timeout)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var out struct {
		review.Outcome
		Error string `json:"error"`
	}
	if err := json.Unmarshal(reply.Data, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return fmt.Errorf("moderator: %s", out.Error)
	}
	c.Add(elapsed, out.Action != review.ActionDeliver)
	return nil
}
