package domain

// TimerState is the observable state of the countdown.
type TimerState struct {
	Mode     Mode
	TimeLeft int
	IsActive bool
}

// NewTimerState seeds an idle timer for mode m from settings.
func NewTimerState(m Mode, settings Settings) TimerState {
	return TimerState{
		Mode:     m,
		TimeLeft: settings.DurationFor(m),
	}
}

// Status reports IDLE or RUNNING.
func (s TimerState) Status() TimerStatus {
	if s.IsActive {
		return TimerStatusRunning
	}
	return TimerStatusIdle
}

// Finished reports whether the countdown has reached zero.
func (s TimerState) Finished() bool {
	return s.TimeLeft == 0
}

// TimerStatus is the coarse state of the state machine.
type TimerStatus string

const (
	TimerStatusIdle    TimerStatus = "idle"
	TimerStatusRunning TimerStatus = "running"
)

// GetTimerStatusLabel returns a human-readable label for the status.
func GetTimerStatusLabel(s TimerStatus) string {
	switch s {
	case TimerStatusIdle:
		return "Paused"
	case TimerStatusRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// EventType identifies what changed in a controller Event.
type EventType string

const (
	EventTick          EventType = "tick"
	EventStateChange   EventType = "state_change"
	EventModeChange    EventType = "mode_change"
	EventCompleted     EventType = "completed"
	EventSettingsSaved EventType = "settings_saved"
)

// Event is published by the timer controller to its subscribers. Seq
// increases by one per event and matches delivery order. State is the state
// at the moment the event happened, which for EventCompleted may already be
// superseded by a later event; subscribers that render the timer read the
// controller's current snapshot.
type Event struct {
	Seq      uint64
	Type     EventType
	State    TimerState
	Settings Settings
}
