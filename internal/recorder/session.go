package recorder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/mediatools/internal/logging"
)

// ErrStoppedUnexpectedly reports that ffmpeg exited before it was asked to.
var ErrStoppedUnexpectedly = errors.New("ffmpeg stopped unexpectedly")

const tailLines = 20

// Options configures a recording session.
type Options struct {
	FFmpegPath   string
	Args         []string
	Output       io.Writer
	StopTimeout  time.Duration
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Session owns one running ffmpeg process. Its stdin receives the quit
// command; stdout and stderr share one pipe that a single goroutine drains.
type Session struct {
	opts    Options
	logger  *slog.Logger
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	group   errgroup.Group
	done    chan struct{}
	drained chan struct{}
	waitErr error
	monitor *Monitor

	stopping atomic.Bool
	killed   atomic.Bool
	stopOnce sync.Once

	tailMu sync.Mutex
	tail   []string
}

// Start launches ffmpeg with opts.Args.
func Start(ctx context.Context, opts Options) (*Session, error) {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 5 * time.Second
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}

	s := &Session{
		opts:    opts,
		logger:  logging.WithComponent(opts.Logger, "recorder"),
		done:    make(chan struct{}),
		drained: make(chan struct{}),
	}

	// Not CommandContext: cancellation must go through the graceful quit path.
	s.cmd = exec.Command(opts.FFmpegPath, opts.Args...)
	configureProcess(s.cmd)

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	s.stdin = stdin

	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("output pipe: %w", err)
	}
	s.cmd.Stdout = outW
	s.cmd.Stderr = outW

	if err := s.cmd.Start(); err != nil {
		outR.Close()
		outW.Close()
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}
	// The child holds its own copy; ours must go so the reader sees EOF.
	outW.Close()

	s.logger.Info("ffmpeg started", "pid", s.cmd.Process.Pid)

	s.group.Go(func() error {
		defer close(s.drained)
		defer outR.Close()
		return s.drain(outR)
	})
	s.group.Go(func() error {
		s.waitErr = s.cmd.Wait()
		close(s.done)
		return nil
	})

	if mon, err := NewMonitor(ctx, s.cmd.Process.Pid); err == nil {
		s.monitor = mon
	} else {
		s.logger.Debug("process monitor unavailable", "error", err)
	}

	return s, nil
}

// Pid returns the ffmpeg process id.
func (s *Session) Pid() int {
	return s.cmd.Process.Pid
}

// Killed reports whether ffmpeg had to be killed after the stop timeout.
func (s *Session) Killed() bool {
	return s.killed.Load()
}

// Tail returns the last lines ffmpeg printed.
func (s *Session) Tail() []string {
	s.tailMu.Lock()
	defer s.tailMu.Unlock()
	return append([]string(nil), s.tail...)
}

// Run blocks until ctx is cancelled, then stops ffmpeg gracefully. If ffmpeg
// exits on its own first, Run returns ErrStoppedUnexpectedly.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.Stop()
		case <-s.done:
			if s.stopping.Load() {
				return nil
			}
			s.waitDrained()
			if s.waitErr != nil {
				return fmt.Errorf("%w: %v", ErrStoppedUnexpectedly, s.waitErr)
			}
			return ErrStoppedUnexpectedly
		case <-ticker.C:
			s.sample(ctx)
		}
	}
}

// Stop asks ffmpeg to finish the file by writing "q" to its stdin. If that
// write fails the process is terminated; if it has not exited within
// StopTimeout it is killed. Stop is safe to call more than once.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		s.stopping.Store(true)

		if _, err := io.WriteString(s.stdin, "q\n"); err != nil {
			s.logger.Warn("quit command failed, terminating", "error", err)
			if err := terminate(s.cmd.Process); err != nil {
				s.logger.Debug("terminate", "error", err)
			}
		}

		timer := time.NewTimer(s.opts.StopTimeout)
		defer timer.Stop()
		select {
		case <-s.done:
		case <-timer.C:
			s.logger.Warn("ffmpeg did not exit in time, killing", "timeout", s.opts.StopTimeout)
			s.killed.Store(true)
			if err := s.cmd.Process.Kill(); err != nil {
				s.logger.Debug("kill", "error", err)
			}
			<-s.done
		}
		s.stdin.Close()
		s.waitDrained()
	})
	return nil
}

// Wait returns once both session goroutines are finished.
func (s *Session) Wait() error {
	return s.group.Wait()
}

func (s *Session) waitDrained() {
	select {
	case <-s.drained:
	case <-time.After(s.opts.StopTimeout):
		s.logger.Debug("output drain still open after exit")
	}
}

func (s *Session) sample(ctx context.Context) {
	if s.monitor == nil {
		return
	}
	stat, err := s.monitor.Sample(ctx)
	if err != nil {
		s.logger.Debug("sample ffmpeg", "error", err)
		return
	}
	s.logger.Debug("ffmpeg running", "running", stat.Running, "cpu_percent", stat.CPUPercent, "rss", stat.RSS)
}

func (s *Session) drain(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLinesOrCR)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " ")
		if line == "" {
			continue
		}
		fmt.Fprintf(s.opts.Output, "  %s\n", line)
		s.remember(line)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

func (s *Session) remember(line string) {
	s.tailMu.Lock()
	defer s.tailMu.Unlock()
	s.tail = append(s.tail, line)
	if len(s.tail) > tailLines {
		s.tail = s.tail[len(s.tail)-tailLines:]
	}
}

// scanLinesOrCR splits on \n or \r; ffmpeg redraws its progress line with \r.
func scanLinesOrCR(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
