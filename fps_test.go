package krasue

import (
	"testing"
	"time"
)

func TestRateCounterReportsPerWindow(t *testing.T) {
	c := NewRateCounter(time.Second)
	start := time.Unix(100, 0)

	// 30 events spaced 50ms apart cover 1.45s; the report fires at the
	// first event at or past one second.
	var reported []float64
	for i := 0; i < 30; i++ {
		if rate, ok := c.Tick(start.Add(time.Duration(i) * 50 * time.Millisecond)); ok {
			reported = append(reported, rate)
		}
	}
	if len(reported) != 1 {
		t.Fatalf("reports = %v, want exactly one", reported)
	}
	// 21 events over 1s.
	if reported[0] != 21 {
		t.Errorf("rate = %v, want 21", reported[0])
	}
}

func TestRateCounterQuietBeforeWindow(t *testing.T) {
	c := NewRateCounter(time.Second)
	now := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		if _, ok := c.Tick(now); ok {
			t.Fatal("zero-length span should not report")
		}
	}
}

func TestRateCounterCountsOnlyAuthorizedDraws(t *testing.T) {
	inv, _ := newTestInvocation(conservativeConfig(100 * time.Millisecond))
	c := NewRateCounter(time.Second)
	clock := time.Unix(0, 0)

	var rates []float64
	inv.hooks = HookFuncs{Draw: func(*Invocation) error {
		if rate, ok := c.Tick(clock); ok {
			rates = append(rates, rate)
		}
		return nil
	}}

	// 25 ticks per second; the scheduler lets roughly one in three draw.
	for i := 0; i < 50; i++ {
		clock = clock.Add(40 * time.Millisecond)
		if err := inv.tick(40 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
		if err := inv.drawFrame(nil); err != nil {
			t.Fatal(err)
		}
	}

	if len(rates) == 0 {
		t.Fatal("no rate reported")
	}
	if rates[0] < 8 || rates[0] > 11 {
		t.Errorf("draw rate = %.2f, want about 10 (ticks run at 25)", rates[0])
	}
}
