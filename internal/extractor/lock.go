package extractor

import "sync/atomic"

// RunLock rejects overlapping extraction runs without blocking the caller.
type RunLock struct {
	state atomic.Int32 // 0 = idle, 1 = running
}

// TryAcquire reports whether the caller now owns the lock
func (l *RunLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release frees the lock. Only the owner may call it.
func (l *RunLock) Release() {
	l.state.Store(0)
}

// Running reports whether a run currently holds the lock
func (l *RunLock) Running() bool {
	return l.state.Load() == 1
}
