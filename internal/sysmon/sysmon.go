// Package sysmon samples system-wide CPU and memory usage. Timings taken
// on a busy machine are noisy, so callers use it to warn before and while
// measuring.
package sysmon

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// HighLoadPercent is the CPU usage above which measurements are likely
// to be disturbed by other processes.
const HighLoadPercent = 50.0

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	return sample(0)
}

// SampleOver measures CPU usage over the given interval. It blocks for
// that long.
func SampleOver(interval time.Duration) Stats {
	return sample(interval)
}

func sample(interval time.Duration) Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(interval, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// HighLoad reports whether the CPU is busy enough to skew timings.
func (s Stats) HighLoad() bool {
	return s.CPUPercent >= HighLoadPercent
}

// LoadWarning returns a one-line warning when the system is busy, or ""
// otherwise.
func (s Stats) LoadWarning() string {
	if !s.HighLoad() {
		return ""
	}
	return fmt.Sprintf("System CPU usage is %.0f%%; timings may be noisy.", s.CPUPercent)
}
