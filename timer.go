package main

import (
	"time"

	"github.com/charmbracelet/bubbletea"
)

// TimerID identifies one scheduled call so it can be cancelled
type TimerID uint64

// Timer schedules deferred calls on the UI thread
type Timer interface {
	After(d time.Duration, fn func()) TimerID
	Cancel(id TimerID)
}

// Fired when a tea.Tick scheduled by teaTimer elapses
type timerFiredMsg struct {
	id TimerID
}

// teaTimer implements Timer on top of bubbletea commands. Callbacks run inside
// Update, so they never overlap with each other or with key handling.
type teaTimer struct {
	nextID  TimerID
	pending map[TimerID]scheduledCall
	queued  []tea.Cmd
}

type scheduledCall struct {
	fn   func()
	stop chan struct{}
}

func newTeaTimer() *teaTimer {
	return &teaTimer{pending: make(map[TimerID]scheduledCall)}
}

func (t *teaTimer) After(d time.Duration, fn func()) TimerID {
	t.nextID++
	id := t.nextID
	stop := make(chan struct{})
	t.pending[id] = scheduledCall{fn: fn, stop: stop}
	t.queued = append(t.queued, waitCmd(id, d, stop))
	return id
}

// waitCmd is tea.Tick that can be abandoned. A stopped wait returns a nil
// message, which the runtime drops, and its goroutine exits right away.
func waitCmd(id TimerID, d time.Duration, stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return timerFiredMsg{id: id}
		case <-stop:
			return nil
		}
	}
}

// Cancel drops the callback and releases its wait
func (t *teaTimer) Cancel(id TimerID) {
	call, ok := t.pending[id]
	if !ok {
		return
	}
	delete(t.pending, id)
	close(call.stop)
}

// Fire runs the callback for id if it is still scheduled
func (t *teaTimer) Fire(id TimerID) {
	call, ok := t.pending[id]
	if !ok {
		return
	}
	delete(t.pending, id)
	call.fn()
}

// Pending reports how many callbacks are waiting to fire
func (t *teaTimer) Pending() int {
	return len(t.pending)
}

// Flush hands the ticks queued since the last call to the bubbletea runtime
func (t *teaTimer) Flush() tea.Cmd {
	if len(t.queued) == 0 {
		return nil
	}
	cmds := t.queued
	t.queued = nil
	return tea.Batch(cmds...)
}
