package window

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies window events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKey
	EventExpose
)

// Event is a processed SDL event.
type Event struct {
	Type EventType
	Key  string // SDL key name, e.g. "N", "Right", "Escape"
}

// Wait blocks up to timeoutMS for events and returns everything queued.
func (w *Window) Wait(timeoutMS int) []Event {
	var events []Event

	event := sdl.WaitEventTimeout(timeoutMS)
	for ; event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			events = append(events, Event{Type: EventQuit})

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_EXPOSED:
				events = append(events, Event{Type: EventExpose})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				events = append(events, Event{
					Type: EventKey,
					Key:  sdl.GetKeyName(e.Keysym.Sym),
				})
			}
		}
	}

	return events
}
