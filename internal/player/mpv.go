package player

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// MPVBackend plays audio by driving an external mpv process. It satisfies
// [AudioBackend] without any in-process audio decoding: each Start spawns a
// fresh process, pause and resume use job-control signals, and seeking
// restarts the process with a start offset.
//
// mpv does not report the media duration back to us, so Duration returns 0
// and the session falls back to catalog metadata.
type MPVBackend struct {
	mu     sync.Mutex
	binary string
	source string
	cmd    *exec.Cmd
	gen    int

	offset    float64
	startedAt time.Time
	running   bool
	paused    bool

	onEnd  func()
	logger *log.Logger
}

// NewMPVBackend creates a backend driving the given player binary. An empty
// binary defaults to "mpv".
func NewMPVBackend(binary string, logger *log.Logger) *MPVBackend {
	if binary == "" {
		binary = "mpv"
	}
	return &MPVBackend{binary: binary, logger: logger}
}

// OnEnd registers the callback fired when a track plays to completion.
func (b *MPVBackend) OnEnd(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onEnd = fn
}

// Load stops any current process and stages a new source.
func (b *MPVBackend) Load(source string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.killLocked()
	b.source = source
	b.offset = 0
	return nil
}

// Start launches the player process at the staged source.
func (b *MPVBackend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.source == "" {
		return fmt.Errorf("no source loaded")
	}
	return b.spawnLocked(0)
}

// Pause suspends the player process.
func (b *MPVBackend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cmd == nil || b.cmd.Process == nil || !b.running {
		return nil
	}
	if err := b.cmd.Process.Signal(syscall.SIGSTOP); err != nil {
		return fmt.Errorf("failed to suspend player: %w", err)
	}
	b.offset += time.Since(b.startedAt).Seconds()
	b.paused = true
	return nil
}

// Resume continues a suspended player process.
func (b *MPVBackend) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cmd == nil || b.cmd.Process == nil || !b.paused {
		return nil
	}
	if err := b.cmd.Process.Signal(syscall.SIGCONT); err != nil {
		return fmt.Errorf("failed to resume player: %w", err)
	}
	b.startedAt = time.Now()
	b.paused = false
	return nil
}

// SeekTo restarts the process with a start offset. mpv has no remote control
// without an IPC socket, so a restart is the portable way to reposition.
func (b *MPVBackend) SeekTo(seconds float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.source == "" {
		return fmt.Errorf("no source loaded")
	}
	b.killLocked()
	return b.spawnLocked(seconds)
}

// Duration is unknown for the exec backend.
func (b *MPVBackend) Duration() float64 { return 0 }

// Position returns the elapsed playback offset in seconds.
func (b *MPVBackend) Position() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.running {
		return b.offset
	}
	if b.paused {
		return b.offset
	}
	return b.offset + time.Since(b.startedAt).Seconds()
}

// Close stops the player process, keeping the backend usable.
func (b *MPVBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.killLocked()
	b.source = ""
	b.offset = 0
	return nil
}

// spawnLocked launches the process at the given start offset and watches for
// natural completion. The generation counter distinguishes a track that played
// out from one we killed for a seek or stop.
func (b *MPVBackend) spawnLocked(startAt float64) error {
	args := []string{"--no-video", "--really-quiet"}
	if startAt > 0 {
		args = append(args, fmt.Sprintf("--start=%f", startAt))
	}
	args = append(args, b.source)

	cmd := exec.Command(b.binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}

	b.gen++
	gen := b.gen
	b.cmd = cmd
	b.offset = startAt
	b.startedAt = time.Now()
	b.running = true
	b.paused = false

	go func() {
		err := cmd.Wait()

		b.mu.Lock()
		current := b.gen == gen
		if current {
			b.running = false
			b.cmd = nil
		}
		onEnd := b.onEnd
		b.mu.Unlock()

		if !current {
			return
		}
		if err != nil {
			b.logger.Debug("player process exited", "err", err)
		}
		if onEnd != nil {
			onEnd()
		}
	}()

	return nil
}

// killLocked terminates the current process, if any, and bumps the generation
// so its exit is not reported as an end-of-track.
func (b *MPVBackend) killLocked() {
	if b.cmd == nil || b.cmd.Process == nil {
		return
	}
	b.gen++
	if b.paused {
		// A stopped process ignores SIGTERM until continued.
		_ = b.cmd.Process.Signal(syscall.SIGCONT)
	}
	_ = b.cmd.Process.Signal(syscall.SIGTERM)
	b.cmd = nil
	b.running = false
	b.paused = false
}
