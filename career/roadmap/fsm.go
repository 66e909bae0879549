package roadmap

// Status is the lifecycle state of a roadmap
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether no event can leave s
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Event drives a status transition
type Event string

const (
	EventStart    Event = "start"
	EventPause    Event = "pause"
	EventResume   Event = "resume"
	EventComplete Event = "complete"
	EventAbandon  Event = "abandon"
)

// transitions is the complete lifecycle table. EventComplete is never sent by
// callers; it fires from the progress guard once every milestone is done.
var transitions = map[Status]map[Event]Status{
	StatusDraft: {
		EventStart:    StatusActive,
		EventComplete: StatusCompleted,
		EventAbandon:  StatusAbandoned,
	},
	StatusActive: {
		EventPause:    StatusPaused,
		EventComplete: StatusCompleted,
		EventAbandon:  StatusAbandoned,
	},
	StatusPaused: {
		EventResume:   StatusActive,
		EventComplete: StatusCompleted,
		EventAbandon:  StatusAbandoned,
	},
	StatusCompleted: {},
	StatusAbandoned: {},
}

// Next returns the state reached from s on event, if the transition exists
func (s Status) Next(event Event) (Status, bool) {
	next, ok := transitions[s][event]
	return next, ok
}

// CanTransition reports whether event is accepted in state s
func (s Status) CanTransition(event Event) bool {
	_, ok := s.Next(event)
	return ok
}
