// Package shutdown coordinates graceful process teardown: callers
// register named callbacks, then block in WaitForShutdown until an OS
// signal (or a manual trigger) fires every callback with an optional
// per-callback timeout.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Shutdown tracks the registered teardown callbacks for one process and
// the signal channel that triggers them.
type Shutdown struct {
	logger  zerolog.Logger
	rootCtx context.Context
	cancel  context.CancelFunc

	mutex     sync.Mutex
	callbacks []callback
	sigCh     chan os.Signal
}

type callback struct {
	name    string
	f       func()
	timeout time.Duration // 0 disables the timeout
}

// New constructs a Shutdown that begins listening for os.Interrupt
// immediately.
func New(log zerolog.Logger) *Shutdown {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	return &Shutdown{
		logger:  log,
		rootCtx: ctx,
		cancel:  cancel,
		sigCh:   sigCh,
	}
}

// HookShutdownCallback registers f to run during shutdown under the
// given name. timeout bounds how long shutdown waits for f; 0 means no
// bound.
func (s *Shutdown) HookShutdownCallback(name string, f func(), timeout time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.callbacks = append(s.callbacks, callback{name: name, f: f, timeout: timeout})
}

// Context is cancelled the moment a shutdown signal is received, before
// any callback runs; long-lived loops (the gRPC server, adapter
// goroutines) should select on it to start winding down immediately.
func (s *Shutdown) Context() context.Context {
	return s.rootCtx
}

// WaitForShutdown blocks until an interrupt (or any of the additional
// sigs) arrives, then cancels Context and runs every registered
// callback concurrently.
func (s *Shutdown) WaitForShutdown(sigs ...os.Signal) {
	if len(sigs) > 0 {
		signal.Notify(s.sigCh, sigs...)
	}
	<-s.sigCh
	s.cancel()
	s.logger.Info().Msg("shutdown signal received")
	s.run()
	s.logger.Info().Msg("shutdown complete")
}

// ShutdownNow triggers the same sequence as WaitForShutdown without
// waiting for a signal, for programmatic shutdown (tests, admin RPCs).
func (s *Shutdown) ShutdownNow() {
	s.cancel()
	s.run()
}

func (s *Shutdown) run() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var wg sync.WaitGroup
	for _, cb := range s.callbacks {
		wg.Add(1)
		go func(cb callback) {
			defer wg.Done()

			done := make(chan struct{})
			go func() {
				defer close(done)
				cb.f()
			}()

			if cb.timeout <= 0 {
				<-done
				return
			}
			timer := time.NewTimer(cb.timeout)
			defer timer.Stop()
			select {
			case <-done:
			case <-timer.C:
				s.logger.Error().Str("callback", cb.name).Dur("timeout", cb.timeout).Msg("shutdown callback timed out")
			}
		}(cb)
	}
	wg.Wait()
}
