// Package autosave periodically overwrites the bound file with the editor
// buffer. Ticks are bubbletea commands, so every write runs on the program's
// event loop and no locking is needed.
package autosave

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// State of the policy: Idle until a destination path is bound.
type State int

const (
	Idle State = iota
	Bound
)

func (s State) String() string {
	return map[State]string{
		Idle:  "idle",
		Bound: "bound",
	}[s]
}

// WriteFunc persists content to path.
type WriteFunc func(path, content string) error

// TickMsg is delivered when an autosave interval elapses. Ticks from a
// stopped or reset schedule carry a stale generation and are ignored.
type TickMsg struct {
	Generation int
	Time       time.Time
}

// ResultMsg reports the outcome of an autosave tick.
type ResultMsg struct {
	Path string
	Time time.Time
	Err  error
}

type Policy struct {
	interval   time.Duration
	path       string
	generation int
	stopped    bool
	write      WriteFunc

	LastSaved time.Time
	LastErr   error
}

func New(interval time.Duration, write WriteFunc) *Policy {
	return &Policy{interval: interval, write: write}
}

func (p *Policy) State() State {
	if p.path == "" {
		return Idle
	}
	return Bound
}

func (p *Policy) Path() string            { return p.path }
func (p *Policy) Interval() time.Duration { return p.interval }

// Bind moves the policy to Bound; subsequent ticks write to path.
func (p *Policy) Bind(path string) { p.path = path }

// Unbind moves the policy back to Idle.
func (p *Policy) Unbind() { p.path = "" }

// Schedule returns the command for the next tick of the current generation.
func (p *Policy) Schedule() tea.Cmd {
	if p.stopped || p.interval <= 0 {
		return nil
	}
	gen := p.generation
	return tea.Tick(p.interval, func(t time.Time) tea.Msg {
		return TickMsg{Generation: gen, Time: t}
	})
}

// Stop cancels the schedule. Ticks already in flight are dropped when they
// arrive.
func (p *Policy) Stop() {
	p.stopped = true
	p.generation++
}

// Reset restarts the schedule with a new interval and returns its first tick.
func (p *Policy) Reset(interval time.Duration) tea.Cmd {
	p.interval = interval
	p.stopped = false
	p.generation++
	return p.Schedule()
}

// Current reports whether msg belongs to the live schedule.
func (p *Policy) Current(msg TickMsg) bool {
	return !p.stopped && msg.Generation == p.generation
}

// Tick writes content when Bound. Failures are logged and returned but never
// retried before the next tick. Idle ticks and stale ticks do nothing and
// return a zero ResultMsg with ok false.
func (p *Policy) Tick(msg TickMsg, content string) (ResultMsg, bool) {
	if !p.Current(msg) || p.State() == Idle {
		return ResultMsg{}, false
	}

	res := ResultMsg{Path: p.path, Time: msg.Time}
	if err := p.write(p.path, content); err != nil {
		res.Err = fmt.Errorf("autosave to %s failed: %w", p.path, err)
		p.LastErr = res.Err
		log.Printf("Autosave failed: %v", err)
		return res, true
	}

	p.LastSaved = msg.Time
	p.LastErr = nil
	log.Printf("Autosaved %s at %s", p.path, msg.Time.Format("03:04 PM"))
	return res, true
}
