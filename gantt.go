// gantt.go - schedule trace visualizer, split into an ebiten-backed window
// and a headless no-op exactly like the teacher splits VideoOutput into
// video_backend_ebiten.go/video_backend_headless.go behind a "headless"
// build tag and a shared factory. ganttBackend plays the role of
// VideoOutput; NewGanttBackend plays the role of NewEbitenOutput.
package main

// ganttBackend renders the kernel's trace as a Gantt chart, one row per
// priority and one column per trace event.
type ganttBackend interface {
	Start() error
	Stop() error
	// Render draws the given events (oldest first, as returned by
	// traceRecorder.Recent) for the given priorities.
	Render(events []traceEvent, priorities int) error
}
