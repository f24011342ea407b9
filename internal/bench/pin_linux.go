//go:build linux

package bench

import (
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/agbru/bigocalc/internal/logging"
)

// pinThread locks the goroutine to its OS thread and restricts that thread
// to the first CPU it is allowed on. The returned func restores both.
func pinThread(logger logging.Logger) func() {
	runtime.LockOSThread()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		logger.Warn("cpu affinity unavailable, thread lock only", logging.Err(err))
		return runtime.UnlockOSThread
	}

	cpu := -1
	for i := 0; i < len(prev)*64; i++ {
		if prev.IsSet(i) {
			cpu = i
			break
		}
	}
	if cpu < 0 {
		return runtime.UnlockOSThread
	}

	var set unix.CPUSet
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		logger.Warn("cpu pinning failed, thread lock only", logging.Err(err))
		return runtime.UnlockOSThread
	}
	logger.Debug("measurement thread pinned", logging.Int("cpu", cpu))

	return func() {
		if err := unix.SchedSetaffinity(0, &prev); err != nil {
			logger.Warn("restoring cpu affinity failed", logging.Err(err))
		}
		runtime.UnlockOSThread()
	}
}
