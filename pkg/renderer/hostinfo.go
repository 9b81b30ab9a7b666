package renderer

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostInfo describes the machine a render runs on
type HostInfo struct {
	CPUModel     string  // Model name of the first CPU
	ClockGHz     float64 // Nominal clock of the first CPU
	LogicalCores int     // Logical cores visible to the process
	TotalRAMGB   uint64  // Installed memory
}

// GetHostInfo queries CPU and memory information for render logs
func GetHostInfo() (HostInfo, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return HostInfo{}, fmt.Errorf("querying cpu info: %w", err)
	}
	if len(cpuInfo) == 0 {
		return HostInfo{}, fmt.Errorf("no CPU information available")
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return HostInfo{}, fmt.Errorf("querying memory info: %w", err)
	}

	return HostInfo{
		CPUModel:     cpuInfo[0].ModelName,
		ClockGHz:     cpuInfo[0].Mhz / 1000, // Convert MHz to GHz
		LogicalCores: runtime.NumCPU(),
		TotalRAMGB:   memInfo.Total / (1024 * 1024 * 1024),
	}, nil
}

// String formats the host info for a log line
func (h HostInfo) String() string {
	return fmt.Sprintf("%s @ %.2f GHz, %d logical cores, %d GB RAM",
		h.CPUModel, h.ClockGHz, h.LogicalCores, h.TotalRAMGB)
}
