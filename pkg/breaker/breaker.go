package breaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

var ErrOpen = errors.New("circuit breaker is open")

type Breaker interface {
	Call(fn func() error) error
	Reset()
}

type breaker struct {
	mu    sync.Mutex
	state State
	// sliding window of the last recordLength call outcomes
	recordLength int
	buffer       []bool
	pos          int
	// failure share of the window that trips the breaker
	threshold float64
	// how long the breaker stays open before probing
	timeout      time.Duration
	lastOpenedAt time.Time
	// consecutive successes in half-open needed to close again
	recoveryCalls int
	successCount  int
}

func New(recordLength int, timeout time.Duration, threshold float64, recoveryCalls int) Breaker {
	return &breaker{
		state:         Closed,
		recordLength:  recordLength,
		buffer:        make([]bool, recordLength),
		threshold:     threshold,
		timeout:       timeout,
		recoveryCalls: recoveryCalls,
	}
}

func (b *breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == Open {
		if time.Since(b.lastOpenedAt) > b.timeout {
			b.state = HalfOpen
			b.successCount = 0
		} else {
			b.mu.Unlock()
			return ErrOpen
		}
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.buffer[b.pos] = err != nil
	b.pos = (b.pos + 1) % b.recordLength

	if b.state == HalfOpen {
		if err != nil {
			b.successCount = 0
			b.state = Open
			b.lastOpenedAt = time.Now()
		} else {
			b.successCount++
			if b.successCount >= b.recoveryCalls {
				b.reset()
			}
		}
		return err
	}

	fails := 0
	for _, failed := range b.buffer {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(b.recordLength) >= b.threshold {
		b.state = Open
		b.successCount = 0
		b.lastOpenedAt = time.Now()
	}

	return err
}

func (b *breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
}

// reset requires b.mu to be held.
func (b *breaker) reset() {
	for i := range b.buffer {
		b.buffer[i] = false
	}
	b.successCount = 0
	b.pos = 0
	b.state = Closed
}
