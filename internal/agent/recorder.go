package agent

import (
	"context"
	"sync"
	"time"
)

// Call is one exchange with the agent service.
type Call struct {
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Endpoint  string    `json:"endpoint"`
	Request   string    `json:"request,omitempty"`
	Response  string    `json:"response,omitempty"`
	Err       error     `json:"-"`
}

func (c Call) Succeeded() bool {
	return c.Err == nil
}

type Recorder interface {
	Record(ctx context.Context, call Call)
}

// MemoryRecorder keeps the most recent calls, newest last.
type MemoryRecorder struct {
	limit int
	mu    sync.RWMutex
	calls []Call
}

var _ Recorder = (*MemoryRecorder)(nil)

func NewMemoryRecorder(limit int) *MemoryRecorder {
	if limit <= 0 {
		limit = 100
	}
	return &MemoryRecorder{limit: limit, calls: make([]Call, 0, limit)}
}

func (m *MemoryRecorder) Record(_ context.Context, call Call) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.calls) == m.limit {
		copy(m.calls, m.calls[1:])
		m.calls = m.calls[:len(m.calls)-1]
	}
	m.calls = append(m.calls, call)
}

func (m *MemoryRecorder) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// Recorders fans every call out to each non-nil recorder.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, call Call) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, call)
		}
	}
}
