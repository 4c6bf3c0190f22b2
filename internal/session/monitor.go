// Package session runs the game process and follows its progress through
// the log output.
package session

import (
	"bufio"
	"io"
	"iter"
	"regexp"
	"strings"
	"time"
)

// Phase is the progress of a running game as seen from its log output.
type Phase int

const (
	Launching Phase = iota
	Ready
	Joining
	InServer
	Exited
)

func (p Phase) String() string {
	switch p {
	case Launching:
		return "launching"
	case Ready:
		return "ready"
	case Joining:
		return "joining"
	case InServer:
		return "in_server"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

var (
	launchPattern  = regexp.MustCompile(`^\[.+\]: (?:MinecraftForge .+ Initialized|ModLauncher .+ starting: .+|Loading Minecraft .+ with Fabric Loader .+)$`)
	joiningPattern = regexp.MustCompile(`\[.+\]: Sound engine started`)
)

// launchWrapperMissing is printed by the JVM when the legacy LaunchWrapper
// library was not downloaded.
const launchWrapperMissing = "Could not find or load main class net.minecraft.launchwrapper.Launch"

// Transition is a phase change caused by a log line. Delay is how long
// the change has to wait before it may be surfaced.
type Transition struct {
	To    Phase
	Delay time.Duration
}

// Monitor is the log-driven state machine of one game process. It is not
// safe for concurrent use.
type Monitor struct {
	inServer *regexp.Regexp
	start    time.Time
	linger   time.Duration

	phase   Phase
	readyAt time.Time
}

// NewMonitor returns a monitor for a game started at start by player. The
// ready phase is not reached earlier than linger after start.
func NewMonitor(player string, start time.Time, linger time.Duration) *Monitor {
	return &Monitor{
		inServer: regexp.MustCompile(`\[.+\]: \[CHAT\] ` + regexp.QuoteMeta(player) + ` joined the game`),
		start:    start,
		linger:   linger,
	}
}

// Phase returns the phase reached by the lines observed so far.
func (m *Monitor) Phase() Phase {
	return m.phase
}

// Observe feeds one stdout line seen at the given time. It reports whether
// the line moved the game to another phase.
func (m *Monitor) Observe(line string, at time.Time) (Transition, bool) {
	line = strings.TrimSpace(line)

	switch m.phase {
	case Launching:
		if !launchPattern.MatchString(line) {
			return Transition{}, false
		}
		m.phase = Ready
		m.readyAt = m.start.Add(m.linger)
		if m.readyAt.Before(at) {
			m.readyAt = at
		}
		return Transition{To: Ready, Delay: m.readyAt.Sub(at)}, true

	case Exited:
		return Transition{}, false
	}

	// Game state is only followed once the launch screen is gone.
	if at.Before(m.readyAt) {
		return Transition{}, false
	}

	next := m.phase
	switch {
	case m.inServer.MatchString(line):
		next = InServer
	case joiningPattern.MatchString(line):
		next = Joining
	}
	if next == m.phase {
		return Transition{}, false
	}
	m.phase = next
	return Transition{To: next}, true
}

// Exit marks the process as gone.
func (m *Monitor) Exit() {
	m.phase = Exited
}

// Lines yields the lines read from r until EOF or a read error.
func Lines(r io.Reader) iter.Seq[string] {
	return func(yield func(string) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	}
}
