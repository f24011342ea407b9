//go:build !linux

package bench

import (
	"runtime"

	"github.com/agbru/bigocalc/internal/logging"
)

// pinThread locks the goroutine to its OS thread. CPU affinity is only
// applied on Linux.
func pinThread(logger logging.Logger) func() {
	runtime.LockOSThread()
	logger.Debug("cpu affinity not supported on this platform, thread lock only")
	return runtime.UnlockOSThread
}
