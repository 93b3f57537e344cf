// Package telemetry captures process and host resource measurements
// recorded alongside each analysis run.
package telemetry

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceSnapshot is a point-in-time view of process and host resources.
type ResourceSnapshot struct {
	Timestamp         string  `json:"timestamp"`
	HostMemoryUsedPct float64 `json:"host_memory_used_pct"`
	HostMemoryTotalMB float64 `json:"host_memory_total_mb"`
	ProcessMemoryMB   float64 `json:"process_memory_mb"`
	ProcessCPUPct     float64 `json:"process_cpu_pct"`
	CPUCores          int     `json:"cpu_cores"`
	Goroutines        int     `json:"goroutines"`
}

// Snapshot collects current resource usage. Individual probes that fail
// leave their fields at zero rather than failing the snapshot; resource
// accounting is advisory, never a reason to abort an analysis.
func Snapshot() ResourceSnapshot {
	snap := ResourceSnapshot{
		Timestamp:  time.Now().Format(time.RFC3339),
		CPUCores:   runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		snap.HostMemoryUsedPct = vm.UsedPercent
		snap.HostMemoryTotalMB = float64(vm.Total) / (1024 * 1024)
	}

	if counts, err := cpu.Counts(true); err == nil {
		snap.CPUCores = counts
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			snap.ProcessMemoryMB = float64(info.RSS) / (1024 * 1024)
		}
		if pct, err := proc.CPUPercent(); err == nil {
			snap.ProcessCPUPct = pct
		}
	}

	return snap
}
