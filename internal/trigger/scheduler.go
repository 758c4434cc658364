package trigger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service is the scheduler loop: it sleeps for the poll interval, then
// scans all trigger states in order and executes the due ones. It runs
// until Stop or context cancellation; no execution failure terminates it.
type Service struct {
	triggers []*State
	interval time.Duration
	exec     Runner
	notifier *Notifier
	clock    func() time.Time

	mu      sync.Mutex
	stopCh  chan struct{}
	done    chan struct{}
	running bool
}

type Options struct {
	Triggers []*State
	Interval time.Duration
	Executor Runner
	Notifier *Notifier
	Clock    func() time.Time // defaults to time.Now
}

func NewService(opts Options) *Service {
	interval := opts.Interval
	if interval == 0 {
		interval = 30 * time.Second
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		triggers: opts.Triggers,
		interval: interval,
		exec:     opts.Executor,
		notifier: opts.Notifier,
		clock:    clock,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the scheduler loop. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		timer := time.NewTimer(s.interval)
		defer timer.Stop()
		for {
			select {
			case <-timer.C:
				s.safeScan(ctx)
				timer.Reset(s.interval)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the loop at its next cancellation point and waits for it to
// exit, so no background activity survives teardown.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()
	close(s.stopCh)
	<-s.done
}

// safeScan isolates the loop from a panicking scan: the panic is logged
// and the loop sleeps and retries.
func (s *Service) safeScan(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler: scan panicked", "panic", r)
		}
	}()
	s.scanOnce(ctx)
}

// scanOnce checks every trigger once, in list order. A due trigger is
// executed synchronously, then LastRun is set and NextRun recomputed from
// the scan instant regardless of the execution outcome: the firing
// contract is at most once per due window, not retry until success.
func (s *Service) scanOnce(ctx context.Context) {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.triggers {
		// Explicit cancellation abandons the rest of the scan; a failed
		// execution does not.
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		default:
		}

		if st.NextRun.After(now) {
			continue
		}

		slog.Info("executing due trigger", "origin", st.Def.Origin(), "cron", st.Def.CronExpr)
		err := s.exec.Execute(ctx, st.Def)

		st.LastRun = now
		st.NextRun = st.Schedule.Next(now)

		if err != nil {
			slog.Error("trigger execution failed", "origin", st.Def.Origin(), "error", err)
			s.notifier.Failure(fmt.Sprintf("scheduled LLM trigger failed: %s: %v", st.Def.Origin(), err))
			continue
		}

		slog.Info("trigger executed", "origin", st.Def.Origin(), "nextRun", st.NextRun)
		s.notifier.Success(fmt.Sprintf("scheduled LLM trigger succeeded: %s", st.Def.Origin()))
	}
}

// Interval returns the poll cadence.
func (s *Service) Interval() time.Duration { return s.interval }
