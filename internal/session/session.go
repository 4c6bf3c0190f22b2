package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"lofty-launcher/internal/config"
	"lofty-launcher/internal/process"
)

// ErrLaunchWrapperMissing is reported when a legacy game cannot find the
// LaunchWrapper main class.
var ErrLaunchWrapperMissing = errors.New("launchwrapper library is missing")

// Presence receives the rich presence details of a running game.
type Presence interface {
	UpdateDetails(details string)
	Shutdown()
}

// Presence details per phase.
const (
	DetailsLoading = "loading"
	DetailsJoining = "joining"
	DetailsJoined  = "joined"
)

// Options configure a session.
type Options struct {
	// Player is the name the in-server pattern looks for in chat.
	Player string
	// Presence is optional.
	Presence Presence
	// MinLinger defaults to config.DefaultMinLinger.
	MinLinger time.Duration
	// OnPhase and OnError are called from the session's goroutines.
	OnPhase func(Phase)
	OnError func(error)

	now func() time.Time
}

// Session is one running game process.
type Session struct {
	cmd      *exec.Cmd
	spec     *process.LaunchSpec
	opts     Options
	monitor  *Monitor
	presence Presence

	mu      sync.Mutex
	phase   Phase
	timer   *time.Timer
	failure error

	done    chan struct{}
	waitErr error
}

// Start launches the game described by spec. A non-detached game is
// terminated when ctx is cancelled.
func Start(ctx context.Context, spec *process.LaunchSpec, opts Options) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.MinLinger <= 0 {
		opts.MinLinger = config.DefaultMinLinger
	}
	if opts.now == nil {
		opts.now = time.Now
	}

	var cmd *exec.Cmd
	if spec.Detached {
		cmd = exec.Command(spec.Executable, spec.Argv()...)
	} else {
		cmd = exec.CommandContext(ctx, spec.Executable, spec.Argv()...)
	}
	cmd.Dir = spec.Dir
	cmd.Env = append(os.Environ(), spec.Env...)
	setProcAttrs(cmd, spec.Detached)

	s := &Session{
		cmd:      cmd,
		spec:     spec,
		opts:     opts,
		presence: opts.Presence,
		done:     make(chan struct{}),
	}
	if !spec.Detached {
		cmd.Cancel = s.terminate
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("unable to open game stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("unable to open game stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start game: %w", err)
	}
	s.monitor = NewMonitor(opts.Player, opts.now(), opts.MinLinger)

	slog.Info("game started",
		"pid", cmd.Process.Pid,
		"executable", spec.Executable,
		"dir", spec.Dir,
		"detached", spec.Detached,
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.watchStdout(Lines(stdout))
	}()
	go func() {
		defer wg.Done()
		s.watchStderr(Lines(stderr))
	}()
	go func() {
		wg.Wait()
		s.exit(cmd.Wait())
	}()

	return s, nil
}

// Phase returns the phase surfaced so far.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Done is closed when the process has exited and the session is cleaned up.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the process exits and returns its exit error, or the
// launch failure detected in the output.
func (s *Session) Wait() error {
	<-s.done
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure != nil {
		return s.failure
	}
	return s.waitErr
}

// Stop terminates the game and its child processes.
func (s *Session) Stop() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	slog.Info("stopping game", "pid", s.cmd.Process.Pid)
	if err := s.terminate(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("unable to stop game: %w", err)
	}
	return nil
}

func (s *Session) watchStdout(lines iter.Seq[string]) {
	for line := range lines {
		slog.Debug("game output", "stream", "stdout", "line", line)

		s.mu.Lock()
		t, ok := s.monitor.Observe(line, s.opts.now())
		s.mu.Unlock()
		if !ok {
			continue
		}

		if t.Delay > 0 {
			s.mu.Lock()
			s.timer = time.AfterFunc(t.Delay, func() { s.enter(t.To) })
			s.mu.Unlock()
			continue
		}
		s.enter(t.To)
	}
}

func (s *Session) watchStderr(lines iter.Seq[string]) {
	for line := range lines {
		slog.Debug("game output", "stream", "stderr", "line", line)

		if strings.Contains(line, launchWrapperMissing) {
			s.fail(ErrLaunchWrapperMissing)
		}
	}
}

// enter surfaces a phase. Ready never replaces a later phase, and nothing
// follows Exited.
func (s *Session) enter(p Phase) {
	s.mu.Lock()
	if s.phase == Exited || p == s.phase || (p == Ready && s.phase > Ready) {
		s.mu.Unlock()
		return
	}
	s.phase = p
	s.mu.Unlock()

	slog.Info("game phase changed", "phase", p.String())

	if s.presence != nil {
		switch p {
		case Ready:
			s.presence.UpdateDetails(DetailsLoading)
		case Joining:
			s.presence.UpdateDetails(DetailsJoining)
		case InServer:
			s.presence.UpdateDetails(DetailsJoined)
		}
	}
	if s.opts.OnPhase != nil {
		s.opts.OnPhase(p)
	}
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	if s.failure != nil {
		s.mu.Unlock()
		return
	}
	s.failure = err
	s.mu.Unlock()

	sentry.CaptureException(err)
	slog.Error("game launch failed", "error", err)
	if s.opts.OnError != nil {
		s.opts.OnError(err)
	}
}

func (s *Session) exit(err error) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.monitor.Exit()
	s.waitErr = err
	s.mu.Unlock()

	code := s.cmd.ProcessState.ExitCode()
	if err != nil {
		slog.Warn("game exited with error", "code", code, "error", err)
	} else {
		slog.Info("game exited", "code", code)
	}

	if s.spec.NativesDir != "" {
		if rmErr := os.RemoveAll(s.spec.NativesDir); rmErr != nil {
			slog.Warn("unable to remove natives directory", "dir", s.spec.NativesDir, "error", rmErr)
		}
	}

	s.enter(Exited)
	if s.presence != nil {
		slog.Debug("shutting down presence")
		s.presence.Shutdown()
	}
	close(s.done)
}
