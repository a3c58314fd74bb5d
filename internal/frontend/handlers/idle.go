package handlers

import (
	"sync"
	"sync/atomic"
	"time"
)

// defaultIdleTick is the idle monitor's polling interval when none is set.
const defaultIdleTick = time.Second

// IdleMonitorConfig configures StartIdleMonitor.
type IdleMonitorConfig struct {
	// LastInput holds the UnixNano time of the session's most recent input.
	LastInput *atomic.Int64
	// IdleTimeout is how long without input before OnWarning fires.
	IdleTimeout time.Duration
	// GracePeriod is how long after the warning before OnDisconnect fires.
	GracePeriod time.Duration
	// TickInterval is the polling interval.
	TickInterval time.Duration
	OnWarning    func()
	OnDisconnect func()
}

// StartIdleMonitor polls cfg.LastInput on a ticker. Once the session has
// been idle for IdleTimeout it calls OnWarning; if no input arrives within
// GracePeriod after that it calls OnDisconnect and exits. Input after the
// warning re-arms it.
//
// Precondition: LastInput, OnWarning and OnDisconnect must be non-nil;
// IdleTimeout > 0.
// Postcondition: the returned stop function blocks until the monitor
// goroutine has exited; no callback fires after it returns.
func StartIdleMonitor(cfg IdleMonitorConfig) (stop func()) {
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = defaultIdleTick
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(tick)
		defer ticker.Stop()

		var warnedAt time.Time
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				idle := now.Sub(time.Unix(0, cfg.LastInput.Load()))
				switch {
				case idle < cfg.IdleTimeout:
					warnedAt = time.Time{}
				case warnedAt.IsZero():
					warnedAt = now
					cfg.OnWarning()
				case now.Sub(warnedAt) >= cfg.GracePeriod:
					cfg.OnDisconnect()
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
