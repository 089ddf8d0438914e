//go:build !linux && !darwin

package system

import "log/slog"

// RaiseOpenFileLimit is a no-op on platforms without a tunable RLIMIT_NOFILE.
func RaiseOpenFileLimit(_ *slog.Logger, _ uint64) {}
