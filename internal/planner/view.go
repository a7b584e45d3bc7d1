package planner

import (
	"context"
	"sync"
)

// PanelSink receives rendered fragments for exactly one panel. Each sink has
// a single writer within a session, so implementations only need to guard
// against writes from consecutive sessions.
type PanelSink interface {
	// Set replaces the panel's content.
	Set(html string)

	// Clear empties the panel.
	Clear()
}

// ViewBinding groups the per-panel sinks for one page. It is constructed
// once and passed into the orchestrator; each render step receives only the
// sink it writes. The view also owns its session state: a resubmission
// against the same view supersedes the in-flight one, while submissions
// against other views are unaffected.
type ViewBinding struct {
	Trip       PanelSink
	Prediction PanelSink
	Weather    PanelSink
	Laps       PanelSink
	Monitor    PanelSink

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
}

// begin starts a new session on this view: the previous session's context is
// cancelled and a new generation token is issued. Renders carrying a stale
// token are discarded at write time.
func (v *ViewBinding) begin(ctx context.Context) (uint64, context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancelPrev != nil {
		v.cancelPrev()
	}

	v.generation++
	sessionCtx, cancel := context.WithCancel(ctx)
	v.cancelPrev = cancel

	return v.generation, sessionCtx
}

func (v *ViewBinding) currentGeneration() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.generation
}

func (v *ViewBinding) isCurrent(gen uint64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return gen == v.generation
}

// Reset clears every panel, discarding the previous session's fragments.
func (v *ViewBinding) Reset() {
	for _, sink := range []PanelSink{v.Trip, v.Prediction, v.Weather, v.Laps, v.Monitor} {
		if sink != nil {
			sink.Clear()
		}
	}
}

// MemoryPanel is an in-memory PanelSink. It backs the HTTP API response and
// the tests.
type MemoryPanel struct {
	mu   sync.Mutex
	html string
}

// Set replaces the panel's content.
func (p *MemoryPanel) Set(html string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html = html
}

// Clear empties the panel.
func (p *MemoryPanel) Clear() {
	p.Set("")
}

// HTML returns the panel's current content.
func (p *MemoryPanel) HTML() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.html
}

// NewMemoryView returns a ViewBinding backed by in-memory panels.
func NewMemoryView() *ViewBinding {
	return &ViewBinding{
		Trip:       &MemoryPanel{},
		Prediction: &MemoryPanel{},
		Weather:    &MemoryPanel{},
		Laps:       &MemoryPanel{},
		Monitor:    &MemoryPanel{},
	}
}
