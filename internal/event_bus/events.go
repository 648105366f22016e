package event_bus

const (
	// StateChanged is published after every committed change of the tracker state,
	// and once after the state is loaded.
	StateChanged EventType = "tracker.state.changed"
)
