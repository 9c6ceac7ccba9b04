// Package mpv speaks the player's JSON IPC protocol: newline-delimited JSON
// commands out, newline-delimited JSON events in.
package mpv

import (
	"encoding/json"
	"math"
)

// Observed property ids
const (
	ObservePlaylistPos = 1
	ObserveTimePos     = 2
)

// Property names
const (
	PropPlaylistPos = "playlist-pos"
	PropTimePos     = "time-pos"
)

// EventKind identifies a decoded event
type EventKind int

const (
	EventPlaylistPos EventKind = iota + 1
	EventTimePos
	EventEndFile
)

// Event is a decoded property change or lifecycle notice
type Event struct {
	Kind EventKind

	// Index is set for EventPlaylistPos
	Index int64

	// Seconds is set for EventTimePos
	Seconds float64

	// Reason is set for EventEndFile ("eof", "stop", "quit", ...)
	Reason string
}

type command struct {
	Command []any `json:"command"`
}

type rawEvent struct {
	Event  string          `json:"event"`
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
	Reason string          `json:"reason"`
}

// Command encodes a JSON command as one protocol line (newline included)
func Command(args ...any) []byte {
	data, err := json.Marshal(command{Command: args})
	if err != nil {
		// Only reachable with unencodable args, which callers never pass
		panic(err)
	}
	return append(data, '\n')
}

// Observe encodes an observe_property subscription
func Observe(id int, name string) []byte {
	return Command("observe_property", id, name)
}

// Subscriptions returns the lines sent after every connect
func Subscriptions() [][]byte {
	return [][]byte{
		Observe(ObservePlaylistPos, PropPlaylistPos),
		Observe(ObserveTimePos, PropTimePos),
	}
}

// ParseEvent decodes one event line. Lines that are not JSON, carry no
// usable data, or describe something other than the observed properties
// report false.
func ParseEvent(line []byte) (Event, bool) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil {
		return Event{}, false
	}

	switch raw.Event {
	case "property-change":
	case "end-file":
		return Event{Kind: EventEndFile, Reason: raw.Reason}, true
	default:
		return Event{}, false
	}

	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return Event{}, false
	}

	switch raw.Name {
	case PropPlaylistPos:
		var n float64
		if err := json.Unmarshal(raw.Data, &n); err != nil {
			return Event{}, false
		}
		if n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return Event{}, false
		}
		return Event{Kind: EventPlaylistPos, Index: int64(n)}, true

	case PropTimePos:
		var secs float64
		if err := json.Unmarshal(raw.Data, &secs); err != nil {
			return Event{}, false
		}
		if math.IsNaN(secs) || secs < 0 {
			return Event{}, false
		}
		return Event{Kind: EventTimePos, Seconds: secs}, true
	}
	return Event{}, false
}
