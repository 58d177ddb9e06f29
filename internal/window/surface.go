package window

// EventKind identifies a window event reported by a Surface.
type EventKind int

const (
	// EventResize carries the new framebuffer size.
	EventResize EventKind = iota
	// EventClose is a user or OS request to close the window.
	EventClose
)

type Event struct {
	Kind   EventKind
	Width  int
	Height int
}

// Surface is the native window the loop pumps. Exists must be safe to call
// from the update goroutine.
type Surface interface {
	PollEvents() []Event
	Exists() bool
	Size() (width, height int)
}

// Handler receives the loop's lifecycle callbacks.
type Handler interface {
	OnLoad()
	OnUpdate(delta float64)
	OnRender(delta float64)
	OnResize(width, height int)
	// OnClosing returns true to cancel the close.
	OnClosing() (cancel bool)
	OnUnload()
}
