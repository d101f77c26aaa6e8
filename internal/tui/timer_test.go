package tui

import (
	"testing"
	"time"
)

func TestTickTimerScheduleOnce(t *testing.T) {
	timer := &tickTimer{}
	if timer.schedule() != nil {
		t.Fatalf("expected no tick before Every")
	}
	timer.Every(time.Millisecond, func() {})
	if timer.schedule() == nil {
		t.Fatalf("expected first tick after Every")
	}
	if timer.schedule() != nil {
		t.Fatalf("expected the first tick to be scheduled once")
	}
}

func TestTickTimerFireRunsCurrentGeneration(t *testing.T) {
	timer := &tickTimer{}
	calls := 0
	timer.Every(time.Millisecond, func() { calls++ })
	if cmd := timer.fire(tickMsg{gen: timer.gen}); cmd == nil {
		t.Fatalf("expected a follow-up tick")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestTickTimerDropsStaleTicks(t *testing.T) {
	timer := &tickTimer{}
	calls := 0
	stop := timer.Every(time.Millisecond, func() { calls++ })
	stale := tickMsg{gen: timer.gen}
	stop()
	if cmd := timer.fire(stale); cmd != nil {
		t.Fatalf("expected stale tick to stop the chain")
	}

	timer.Every(time.Millisecond, func() { calls++ })
	if cmd := timer.fire(stale); cmd != nil {
		t.Fatalf("expected tick from an older callback to be dropped")
	}
	if calls != 0 {
		t.Fatalf("expected no calls, got %d", calls)
	}
}

func TestTickTimerStopIsIdempotent(t *testing.T) {
	timer := &tickTimer{}
	stop := timer.Every(time.Millisecond, func() {})
	stop()
	gen := timer.gen
	stop()
	if timer.gen != gen {
		t.Fatalf("second stop should not bump the generation")
	}
}
