package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Check pings one dependency. A nil error means it is reachable.
type Check func(ctx context.Context) error

// Report is the readiness payload.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Service encapsulates health-related checks.
type Service struct {
	mu      sync.RWMutex
	checks  map[string]Check
	timeout time.Duration
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: make(map[string]Check), timeout: 2 * time.Second}
}

// Register adds a named readiness check, ex: "postgres" or "redis".
func (s *Service) Register(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Status returns a simple liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// Ready runs every registered check concurrently.
func (s *Service) Ready(ctx context.Context) Report {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	checks := s.checks
	s.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	results := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, check Check) {
			defer wg.Done()
			if err := check(ctx); err != nil {
				results[i] = err.Error()
				return
			}
			results[i] = "ok"
		}(i, checks[name])
	}
	wg.Wait()

	report := Report{OK: true, Checks: make(map[string]string, len(names))}
	for i, name := range names {
		report.Checks[name] = results[i]
		if results[i] != "ok" {
			report.OK = false
		}
	}
	return report
}
