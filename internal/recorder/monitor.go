package recorder

import (
	"context"

	"github.com/shirou/gopsutil/v3/process"
)

// Stat is one resource sample of the ffmpeg process.
type Stat struct {
	Running    bool
	CPUPercent float64
	RSS        uint64
}

// Monitor samples CPU and memory of a child process.
type Monitor struct {
	proc *process.Process
}

// NewMonitor attaches to pid.
func NewMonitor(ctx context.Context, pid int) (*Monitor, error) {
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil, err
	}
	return &Monitor{proc: p}, nil
}

// Sample reads the current state. A process that has gone away reports
// Running=false without an error.
func (m *Monitor) Sample(ctx context.Context) (Stat, error) {
	running, err := m.proc.IsRunningWithContext(ctx)
	if err != nil || !running {
		return Stat{}, err
	}
	stat := Stat{Running: true}
	if cpu, err := m.proc.CPUPercentWithContext(ctx); err == nil {
		stat.CPUPercent = cpu
	}
	mem, err := m.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return stat, err
	}
	stat.RSS = mem.RSS
	return stat, nil
}
