//go:build headless

// gantt_headless.go - no-op Gantt backend for headless builds, grounded on
// video_backend_headless.go's shape: same interface, no window, frame/
// render calls counted but not drawn.
package main

func init() {
	registerFeature("gantt-headless")
}

type headlessGantt struct {
	started     bool
	renderCount uint64
}

// NewGanttBackend returns the headless no-op Gantt backend.
func NewGanttBackend() (ganttBackend, error) {
	return &headlessGantt{}, nil
}

func (h *headlessGantt) Start() error {
	h.started = true
	return nil
}

func (h *headlessGantt) Stop() error {
	h.started = false
	return nil
}

func (h *headlessGantt) Render(events []traceEvent, priorities int) error {
	h.renderCount++
	return nil
}
