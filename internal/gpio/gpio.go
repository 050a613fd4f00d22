// Package gpio abstracts the output pins the scheduler drives. The real
// device writes hardware registers; this build ships a simulated pin bank so
// the control logic runs and tests anywhere.
package gpio

import (
	"fmt"
	"sync"
)

// Pins is the write interface the scheduler fires events through.
type Pins interface {
	Write(pin, state int) error
}

// SimPins records the last state written to each pin.
type SimPins struct {
	mu     sync.Mutex
	states map[int]int
}

func NewSimPins() *SimPins {
	return &SimPins{states: make(map[int]int)}
}

// Write stores the state for the pin. States outside {0,1} are rejected the
// same way the hardware driver would refuse them.
func (p *SimPins) Write(pin, state int) error {
	if state != 0 && state != 1 {
		return fmt.Errorf("gpio %d: unsupported state %d", pin, state)
	}
	p.mu.Lock()
	p.states[pin] = state
	p.mu.Unlock()
	return nil
}

// State returns the last written state of pin and whether it was ever set.
func (p *SimPins) State(pin int) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.states[pin]
	return s, ok
}

// Writes returns how many pins have been driven at least once.
func (p *SimPins) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}
