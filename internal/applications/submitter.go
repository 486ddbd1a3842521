package applications

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Submitter forwards an application to the employer and reports the outcome,
// either StatusSubmittedSuccessfully or StatusSubmissionFailed.
type Submitter interface {
	Submit(ctx context.Context, app Application) (Status, error)
}

// SimulatedSubmitter fails a configurable share of submissions at random.
type SimulatedSubmitter struct {
	FailureRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedSubmitter returns a submitter seeded from seed; seed 0 uses the clock.
func NewSimulatedSubmitter(failureRate float64, seed int64) *SimulatedSubmitter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	switch {
	case failureRate < 0:
		failureRate = 0
	case failureRate > 1:
		failureRate = 1
	}
	return &SimulatedSubmitter{FailureRate: failureRate, rng: rand.New(rand.NewSource(seed))}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, app Application) (Status, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()
	if roll < s.FailureRate {
		return StatusSubmissionFailed, nil
	}
	return StatusSubmittedSuccessfully, nil
}

// FixedSubmitter returns Outcomes in order and repeats the last one.
type FixedSubmitter struct {
	Outcomes []Status

	mu    sync.Mutex
	calls int
}

func (f *FixedSubmitter) Submit(ctx context.Context, app Application) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Outcomes) == 0 {
		f.calls++
		return StatusSubmittedSuccessfully, nil
	}
	i := f.calls
	if i >= len(f.Outcomes) {
		i = len(f.Outcomes) - 1
	}
	f.calls++
	return f.Outcomes[i], nil
}

// Calls reports how many submissions were made.
func (f *FixedSubmitter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
