//go:build linux || darwin

package system

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// RaiseOpenFileLimit lifts the soft RLIMIT_NOFILE to want, capped at the hard
// limit. Parallel batches keep one decoder and one encoder file open per worker.
func RaiseOpenFileLimit(logger *slog.Logger, want uint64) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		logger.Warn("read open file limit", "error", err)
		return
	}
	if rl.Cur >= want {
		return
	}
	rl.Cur = want
	if rl.Cur > rl.Max {
		rl.Cur = rl.Max
	}
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		logger.Warn("raise open file limit", "error", err)
		return
	}
	logger.Debug("open file limit raised", "limit", rl.Cur)
}
