package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type deferredCall struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

type deferredMsg struct {
	call *deferredCall
}

// teaScheduler turns engine callbacks into tea.Tick messages so they run on
// the Update loop.
type teaScheduler struct {
	queued []*deferredCall
}

func (s *teaScheduler) After(d time.Duration, fn func()) func() {
	call := &deferredCall{delay: d, fn: fn}
	s.queued = append(s.queued, call)
	return func() { call.cancelled = true }
}

// drain returns a command for every callback queued since the last drain.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(s.queued))
	for _, call := range s.queued {
		call := call
		cmds = append(cmds, tea.Tick(call.delay, func(time.Time) tea.Msg {
			return deferredMsg{call: call}
		}))
	}
	s.queued = nil
	return tea.Batch(cmds...)
}

func (m deferredMsg) run() {
	if m.call.cancelled {
		return
	}
	m.call.fn()
}
