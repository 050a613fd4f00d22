package service

import (
	"errors"
	"testing"
	"time"

	"device_control/internal/clock"
	"device_control/internal/gpio"
)

func newTestScheduler() (*SchedulerService, *clock.Manual, *gpio.SimPins) {
	clk := clock.NewManual(time.Time{})
	pins := gpio.NewSimPins()
	return NewSchedulerService(clk, pins, nil, nil), clk, pins
}

func TestInsert_RejectsInvalidGpio(t *testing.T) {
	s, clk, _ := newTestScheduler()
	clk.Set(10 * time.Second)

	for _, pin := range []int{0, 13, 24, 28, 31, 34, -1} {
		if _, err := s.Insert(pin, 100, 1); !errors.Is(err, ErrInvalidGpio) {
			t.Fatalf("gpio %d: expected ErrInvalidGpio, got %v", pin, err)
		}
	}
	if got := len(s.List()); got != 0 {
		t.Fatalf("rejected inserts consumed %d slots", got)
	}
}

func TestInsert_RejectsInvalidStateAndPastTime(t *testing.T) {
	s, clk, _ := newTestScheduler()
	clk.Set(50 * time.Second)

	if _, err := s.Insert(25, 100, 2); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := s.Insert(25, 49, 1); !errors.Is(err, ErrTimeInPast) {
		t.Fatalf("expected ErrTimeInPast, got %v", err)
	}
	// fireAt == now is allowed; only strictly past times are rejected.
	if _, err := s.Insert(25, 50, 1); err != nil {
		t.Fatalf("insert at now: %v", err)
	}
}

func TestInsert_FullTableAndSlotReuse(t *testing.T) {
	s, clk, _ := newTestScheduler()
	clk.Set(1 * time.Second)

	for i := 0; i < MaxEvents; i++ {
		ev, err := s.Insert(25, 100, 1)
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if ev.ID != i {
			t.Fatalf("insert %d claimed slot %d", i, ev.ID)
		}
	}

	if _, err := s.Insert(26, 100, 0); !errors.Is(err, ErrTableFull) {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}

	if err := s.Delete(7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ev, err := s.Insert(26, 200, 0)
	if err != nil {
		t.Fatalf("insert after delete: %v", err)
	}
	if ev.ID != 7 {
		t.Fatalf("expected freed slot 7 to be reused, got %d", ev.ID)
	}
}

func TestDelete_OutOfRangeMutatesNothing(t *testing.T) {
	s, clk, _ := newTestScheduler()
	clk.Set(1 * time.Second)
	if _, err := s.Insert(25, 100, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}

	for _, id := range []int{-1, MaxEvents, MaxEvents + 5} {
		if err := s.Delete(id); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("id %d: expected ErrOutOfRange, got %v", id, err)
		}
	}
	if got := len(s.List()); got != 1 {
		t.Fatalf("out-of-range delete mutated the table: %d active", got)
	}

	// Deleting an inactive slot is a harmless no-op.
	if err := s.Delete(19); err != nil {
		t.Fatalf("delete inactive slot: %v", err)
	}
}

func TestTick_FiresStrictlyAfterFireTime(t *testing.T) {
	s, clk, pins := newTestScheduler()
	clk.Set(10 * time.Second)

	ev, err := s.Insert(27, 20, 1)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// now == fireAt: must not fire yet.
	clk.Set(20 * time.Second)
	s.Tick()
	if _, ok := pins.State(27); ok {
		t.Fatal("event fired at fireAt == now")
	}
	if len(s.List()) != 1 {
		t.Fatal("event deactivated without firing")
	}

	// Clock advanced past the fire time: fires exactly once.
	clk.Set(21 * time.Second)
	s.Tick()
	state, ok := pins.State(27)
	if !ok || state != 1 {
		t.Fatalf("pin 27 not driven high: state=%d ok=%v", state, ok)
	}
	if len(s.List()) != 0 {
		t.Fatalf("fired event still active: %+v", s.List())
	}

	// A later tick must not re-fire the consumed slot.
	if err := pins.Write(27, 0); err != nil {
		t.Fatalf("reset pin: %v", err)
	}
	clk.Set(100 * time.Second)
	s.Tick()
	if state, _ := pins.State(27); state != 0 {
		t.Fatalf("slot %d re-fired", ev.ID)
	}
}

func TestList_AscendingSlotOrder(t *testing.T) {
	s, clk, _ := newTestScheduler()
	clk.Set(1 * time.Second)

	// Later fire time in an earlier slot: list order follows slots, not time.
	if _, err := s.Insert(25, 500, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Insert(26, 100, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	events := s.List()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != 0 || events[1].ID != 1 {
		t.Fatalf("events not in slot order: %+v", events)
	}
	if events[0].Time != 500 {
		t.Fatalf("slot 0 should keep its later fire time: %+v", events[0])
	}
}
