package core

import (
	"sync"
)

// Flush flushes the scheduler registered for t, if there is one.
// This is the package-level flush for tests that build sources and
// expectations through SchedulerFor.
func Flush(t TestReporter) {
	t.Helper()

	registryMu.Lock()

	sched, ok := registry[t]

	registryMu.Unlock()

	if !ok {
		return
	}

	sched.Flush()
}

// Run creates a scheduler for t, hands it to body, and flushes it.
func Run(t TestReporter, body func(s *Scheduler), opts ...Option) {
	t.Helper()

	sched := NewScheduler(t, opts...)
	body(sched)
	sched.Flush()
}

// SchedulerFor returns the Scheduler for the given test, creating one if needed.
// Multiple calls with the same TestReporter return the same Scheduler instance;
// options only apply when the scheduler is created.
//
// If the TestReporter supports Cleanup (like *testing.T), the Scheduler is
// automatically removed from the registry when the test completes.
func SchedulerFor(t TestReporter, opts ...Option) *Scheduler {
	registryMu.Lock()
	defer registryMu.Unlock()

	if sched, ok := registry[t]; ok {
		return sched
	}

	sched := NewScheduler(t, opts...)
	registry[t] = sched

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, t)
			registryMu.Unlock()
		})
	}

	return sched
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[TestReporter]*Scheduler)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)
