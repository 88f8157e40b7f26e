// Package status tracks the process-wide state of the in-flight generation.
// Readers get immutable snapshots behind an atomic pointer swap; a torn read
// is impossible because snapshots are never mutated in place.
package status

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Phase of the current generation.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseGenerating Phase = "generating"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// Progress points at the page/section currently being materialized.
type Progress struct {
	Page    string `json:"page"`
	Section string `json:"section"`
	Status  string `json:"status"`
}

// Status is one immutable snapshot of the tracker.
type Status struct {
	Status          Phase     `json:"status"`
	Message         string    `json:"message"`
	CurrentProgress *Progress `json:"currentProgress"`
	Logs            []string  `json:"logs"`
	RunID           string    `json:"runId,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// maxLogEntries bounds the rolling log; the oldest entries are evicted first.
const maxLogEntries = 100

// EventKind classifies stream events pushed to subscribers.
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
	EventPhase
)

// Event mirrors one tracker transition for stream subscribers.
type Event struct {
	Kind     EventKind
	Phase    Phase
	Message  string
	Progress *Progress
}

// Tracker is the process-wide generation status. There is one writer (the
// build in flight) and any number of concurrent readers.
type Tracker struct {
	cur atomic.Pointer[Status]

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewTracker() *Tracker {
	t := &Tracker{subs: make(map[chan Event]struct{})}
	t.cur.Store(&Status{Status: PhaseIdle, Logs: []string{}, UpdatedAt: time.Now()})
	return t
}

// Start replaces the whole status with a fresh generating one. A build that
// starts while another is in flight takes the tracker over; the statuses are
// not merged.
func (t *Tracker) Start(message string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	next := &Status{
		Status:    PhaseGenerating,
		Message:   message,
		Logs:      []string{message},
		RunID:     uuid.NewString(),
		UpdatedAt: time.Now(),
	}
	t.cur.Store(next)
	t.mu.Unlock()
	t.publish(Event{Kind: EventPhase, Phase: PhaseGenerating, Message: message})
}

// Update swaps in a snapshot with a new phase, message and optional progress
// marker. The message is also appended to the log.
func (t *Tracker) Update(phase Phase, message string, progress *Progress) {
	if t == nil {
		return
	}
	t.mu.Lock()
	next := t.clone()
	next.Status = phase
	next.Message = message
	next.CurrentProgress = cloneProgress(progress)
	next.Logs = appendLog(next.Logs, message)
	next.UpdatedAt = time.Now()
	t.cur.Store(next)
	t.mu.Unlock()
	t.publish(Event{Kind: EventProgress, Phase: phase, Message: message, Progress: cloneProgress(progress)})
}

// Complete finalizes the current generation.
func (t *Tracker) Complete(success bool, message string) {
	if t == nil {
		return
	}
	phase := PhaseComplete
	if !success {
		phase = PhaseError
	}
	t.mu.Lock()
	next := t.clone()
	next.Status = phase
	next.Message = message
	next.CurrentProgress = nil
	next.Logs = appendLog(next.Logs, message)
	next.UpdatedAt = time.Now()
	t.cur.Store(next)
	t.mu.Unlock()
	t.publish(Event{Kind: EventPhase, Phase: phase, Message: message})
}

// Log appends a line to the rolling log without touching phase or progress.
func (t *Tracker) Log(message string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	next := t.clone()
	next.Logs = appendLog(next.Logs, message)
	next.UpdatedAt = time.Now()
	t.cur.Store(next)
	t.mu.Unlock()
	t.publish(Event{Kind: EventLog, Message: message})
}

// Logf is Log with formatting.
func (t *Tracker) Logf(format string, args ...any) {
	t.Log(fmt.Sprintf(format, args...))
}

// Snapshot returns a copy safe to hold across later tracker writes.
func (t *Tracker) Snapshot() Status {
	if t == nil {
		return Status{Status: PhaseIdle, Logs: []string{}}
	}
	cur := t.cur.Load()
	out := *cur
	out.Logs = append([]string(nil), cur.Logs...)
	out.CurrentProgress = cloneProgress(cur.CurrentProgress)
	return out
}

// Subscribe returns a channel of tracker events. Slow subscribers lose
// events rather than blocking the build. The subscription ends when ctx is
// canceled.
func (t *Tracker) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 32)
	if t == nil {
		close(ch)
		return ch
	}
	t.mu.Lock()
	t.subs[ch] = struct{}{}
	t.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.mu.Lock()
		delete(t.subs, ch)
		t.mu.Unlock()
		close(ch)
	}()
	return ch
}

func (t *Tracker) publish(evt Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for ch := range t.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// clone copies the current snapshot for the writer to modify. Callers hold
// t.mu.
func (t *Tracker) clone() *Status {
	cur := t.cur.Load()
	next := *cur
	next.Logs = append([]string(nil), cur.Logs...)
	next.CurrentProgress = cloneProgress(cur.CurrentProgress)
	return &next
}

func appendLog(logs []string, message string) []string {
	logs = append(logs, message)
	if over := len(logs) - maxLogEntries; over > 0 {
		logs = logs[over:]
	}
	return logs
}

func cloneProgress(p *Progress) *Progress {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
