package varinspect

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// ErrPassSuperseded is returned for a pass replaced by a newer selection change
var ErrPassSuperseded = errors.New("inspection superseded by newer selection")

// ErrSessionClosed is returned when refreshing a closed session
var ErrSessionClosed = errors.New("session closed")

// DefaultDebounce coalesces bursts of selection changes
const DefaultDebounce = 100 * time.Millisecond

// Session reruns inspection whenever the host selection changes. A new
// pass cancels the in-flight one; results of superseded passes are
// discarded and never reach the sink.
type Session struct {
	host    Host
	opts    Options
	sink    func(*Report)
	onError func(error)

	trigger func(func())

	mu          sync.Mutex
	ctx         context.Context
	stop        context.CancelFunc
	cancel      context.CancelFunc
	gen         uint64
	closed      bool
	unsubscribe func()
	wg          sync.WaitGroup

	deliverMu sync.Mutex
	delivered uint64
}

// NewSession creates a session delivering reports to sink. onError
// receives pass failures other than supersession; it may be nil.
func NewSession(host Host, opts Options, wait time.Duration, sink func(*Report), onError func(error)) *Session {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Session{
		host:    host,
		opts:    opts,
		sink:    sink,
		onError: onError,
		trigger: debounce.New(wait),
	}
}

// Start subscribes to selection changes and runs the initial pass
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.stop = context.WithCancel(ctx)
	s.unsubscribe = s.host.OnSelectionChange(s.Trigger)
	s.mu.Unlock()

	s.runAsync()
}

// Trigger schedules a pass after the debounce window
func (s *Session) Trigger() {
	s.trigger(s.runAsync)
}

func (s *Session) runAsync() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		report, err := s.Refresh()
		switch {
		case errors.Is(err, ErrPassSuperseded), errors.Is(err, ErrSessionClosed):
			return
		case err != nil:
			if s.onError != nil && !errors.Is(err, context.Canceled) {
				s.onError(err)
			}
			return
		}
		s.deliver(report)
	}()
}

// Refresh runs a pass now, cancelling any pass in flight
func (s *Session) Refresh() (*Report, error) {
	s.mu.Lock()
	if s.closed || s.ctx == nil {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	report, err := Inspect(ctx, s.host, s.opts)

	if !s.current(gen) {
		return nil, ErrPassSuperseded
	}
	if err != nil {
		return nil, err
	}
	report.Generation = gen
	return report, nil
}

func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

// deliver hands a report to the sink unless a newer one was already delivered
func (s *Session) deliver(report *Report) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if report.Generation <= s.delivered || !s.current(report.Generation) {
		return
	}
	s.delivered = report.Generation
	if s.sink != nil {
		s.sink(report)
	}
}

// Close unsubscribes, cancels the in-flight pass and waits for it to finish
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.stop != nil {
		s.stop()
	}
	s.mu.Unlock()

	s.wg.Wait()
}
