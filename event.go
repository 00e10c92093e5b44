package scoreboard

import "github.com/jpalmerr/scoreboard/internal/store"

// EventKind names the change an [Event] reports.
type EventKind string

const (
	// EventStarted reports a newly started match.
	EventStarted EventKind = "started"

	// EventUpdated reports an accepted score change.
	EventUpdated EventKind = "updated"

	// EventFinished reports a finished match. The event carries the final
	// state of the match.
	EventFinished EventKind = "finished"
)

// String returns the string representation of the kind.
func (k EventKind) String() string {
	return string(k)
}

// Event describes one successful change to the scoreboard.
//
// Events are delivered to callbacks registered with [WithEventCallback] and
// to channels returned by [Scoreboard.Watch]. Rejected operations never
// produce events.
type Event struct {
	Kind  EventKind
	Match Match
}

func eventFromStore(ev store.Event) Event {
	return Event{
		Kind:  EventKind(ev.Kind),
		Match: matchFromState(ev.Match),
	}
}
