package gfx

import (
	"fmt"
	"sync"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

// Handle is a buffer object owned by a Tracker.
type Handle struct {
	ID   uint32
	Kind Kind
	// Test marks allocations made by tests and diagnostics; they are logged
	// on the test channel.
	Test bool
}

// Tracker records every live vertex array, vertex buffer and index buffer so
// they can be released together at shutdown.
type Tracker struct {
	mu   sync.Mutex
	dev  Device
	log  *debug.Logger
	live map[Kind][]Handle
}

func NewTracker(dev Device, log *debug.Logger) *Tracker {
	return &Tracker{
		dev:  dev,
		log:  log,
		live: make(map[Kind][]Handle),
	}
}

// Create allocates an object of the given kind, optionally binding it.
func (t *Tracker) Create(kind Kind, bind, test bool) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var id uint32
	if kind == VertexArray {
		id = t.dev.GenVertexArray()
	} else {
		id = t.dev.GenBuffer()
	}

	h := Handle{ID: id, Kind: kind, Test: test}
	t.report(h, "Created")
	t.live[kind] = append(t.live[kind], h)

	if bind {
		switch kind {
		case VertexArray:
			t.dev.BindVertexArray(id)
		case VertexBuffer:
			t.dev.BindBuffer(ArrayBuffer, id)
		case IndexBuffer:
			t.dev.BindBuffer(ElementArrayBuffer, id)
		}
	}
	return id
}

// Delete releases the object with the given id. Unknown ids are ignored.
func (t *Tracker) Delete(kind Kind, id uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	handles := t.live[kind]
	for i, h := range handles {
		if h.ID != id {
			continue
		}
		t.report(h, "Deleting")
		t.release(h)
		t.live[kind] = append(handles[:i], handles[i+1:]...)
		return
	}
}

// Cleanup releases every tracked object: vertex buffers, then index buffers,
// then vertex arrays.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.log.DoIfAssertionPasses(func() bool { return t.len() > 0 }, func() {
		t.log.ProcessStart("Cleaning up VAOs, VBOs and EBOs", debug.VerboseOnly)
		for _, kind := range []Kind{VertexBuffer, IndexBuffer, VertexArray} {
			for _, h := range t.live[kind] {
				t.report(h, "Deleting")
				t.release(h)
			}
			delete(t.live, kind)
		}
		t.log.ProcessEnd(true, debug.VerboseOnly)
	})
}

// Live returns a copy of the tracked handles of one kind.
func (t *Tracker) Live(kind Kind) []Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Handle(nil), t.live[kind]...)
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.len()
}

func (t *Tracker) len() int {
	n := 0
	for _, handles := range t.live {
		n += len(handles)
	}
	return n
}

func (t *Tracker) release(h Handle) {
	if h.Kind == VertexArray {
		t.dev.DeleteVertexArray(h.ID)
	} else {
		t.dev.DeleteBuffer(h.ID)
	}
}

func (t *Tracker) report(h Handle, verb string) {
	if h.Test {
		t.log.Test(fmt.Sprintf("%s test %s (%d)", verb, h.Kind, h.ID), debug.VerboseOnly)
		return
	}
	t.log.Debug(fmt.Sprintf("%s %s (%d)", verb, h.Kind, h.ID), debug.VerboseOnly)
}
