// Package monitoring forwards prediction failures to an error tracker. The
// process-wide Monitor defaults to a no-op until Init is called at startup.
package monitoring

import (
	"sync"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

// NopMonitor discards everything.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation. A nil monitor is ignored.
func Init(m Monitor) {
	if m == nil {
		return
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

func get() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	get().CaptureException(err, tags)
}

// Recover reports a panic before re-raising it. It must be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		m := get()
		if rm, ok := m.(interface{ RecoverValue(any) }); ok {
			rm.RecoverValue(r)
		}
		m.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) { get().Flush(d) }
