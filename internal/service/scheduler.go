package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"device_control"
	"device_control/internal/clock"
	"device_control/internal/gpio"
	"device_control/internal/logger"
)

// MaxEvents is the capacity of the event table. Slots are reused after an
// event is deleted or fires, so slot indices stay valid as public IDs.
const MaxEvents = 20

// Pins the device exposes as outputs.
var allowedGpios = map[int]struct{}{
	25: {}, 26: {}, 27: {}, 32: {}, 33: {},
}

var (
	ErrInvalidGpio  = errors.New("gpio is not an allowed output pin")
	ErrInvalidState = errors.New("state must be 0 (LOW) or 1 (HIGH)")
	ErrTimeInPast   = errors.New("fire time is in the past")
	ErrTableFull    = errors.New("event table is full")
	ErrOutOfRange   = errors.New("event id out of range")
)

type eventSlot struct {
	active bool
	gpio   int
	state  int
	fireAt uint64 // seconds since boot
}

// SchedulerService owns the event table. All access goes through its mutex;
// Tick runs from the control loop concurrently with request handlers.
type SchedulerService struct {
	mu      sync.Mutex
	events  [MaxEvents]eventSlot
	clk     clock.Clock
	pins    gpio.Pins
	history History
	log     *logger.Logger
}

func NewSchedulerService(clk clock.Clock, pins gpio.Pins, history History, log *logger.Logger) *SchedulerService {
	return &SchedulerService{clk: clk, pins: pins, history: history, log: log}
}

// Insert claims the lowest-numbered inactive slot for the event and returns
// the stored event with its slot index as ID. Validation failures consume no
// slot.
func (s *SchedulerService) Insert(gpioPin int, fireAt uint64, state int) (device_control.ScheduledEvent, error) {
	if _, ok := allowedGpios[gpioPin]; !ok {
		return device_control.ScheduledEvent{}, ErrInvalidGpio
	}
	if state != device_control.StateLow && state != device_control.StateHigh {
		return device_control.ScheduledEvent{}, ErrInvalidState
	}
	if fireAt < s.clk.Seconds() {
		return device_control.ScheduledEvent{}, ErrTimeInPast
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].active {
			continue
		}
		s.events[i] = eventSlot{active: true, gpio: gpioPin, state: state, fireAt: fireAt}
		return device_control.ScheduledEvent{GPIO: gpioPin, State: state, Time: fireAt, ID: i}, nil
	}
	return device_control.ScheduledEvent{}, ErrTableFull
}

// Delete deactivates the slot. Deleting an already-inactive slot is a no-op
// and still succeeds; only an out-of-range id is an error.
func (s *SchedulerService) Delete(id int) error {
	if id < 0 || id >= MaxEvents {
		return ErrOutOfRange
	}
	s.mu.Lock()
	s.events[id].active = false
	s.mu.Unlock()
	return nil
}

// List returns all active events in ascending slot order.
func (s *SchedulerService) List() []device_control.ScheduledEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]device_control.ScheduledEvent, 0, MaxEvents)
	for i := range s.events {
		if !s.events[i].active {
			continue
		}
		out = append(out, device_control.ScheduledEvent{
			GPIO:  s.events[i].gpio,
			State: s.events[i].state,
			Time:  s.events[i].fireAt,
			ID:    i,
		})
	}
	return out
}

// Tick fires every active event whose time has passed, exactly once. The
// comparison is strictly fireAt < now: an event scheduled for the current
// second fires on the next tick after the clock advances past it.
func (s *SchedulerService) Tick() {
	now := s.clk.Seconds()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if !s.events[i].active || s.events[i].fireAt >= now {
			continue
		}
		ev := s.events[i]
		if err := s.pins.Write(ev.gpio, ev.state); err != nil {
			if s.log != nil {
				s.log.Errorw("gpio_write_failed", "gpio", ev.gpio, "state", ev.state, "err", err)
			}
		}
		// Fired or not, the slot is consumed so it never re-fires.
		s.events[i].active = false

		if s.history != nil {
			s.history.Record(uint32(ev.gpio), uint8(ev.state))
		}
		if s.log != nil {
			s.log.Infow("event_fired", "id", i, "gpio", ev.gpio, "state", ev.state, "scheduled_at", ev.fireAt, "now", now)
		}
	}
}

// Run drives Tick at the given interval until ctx is canceled.
func (s *SchedulerService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick()
		}
	}
}
