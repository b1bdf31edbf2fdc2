package progress

import "time"

// Stage names the enrichment step an event reports on.
type Stage string

const (
	StageRun     Stage = "run"
	StageOdds    Stage = "odds"
	StageWeather Stage = "weather"
	StageOutcome Stage = "outcome"
	StageRow     Stage = "row"
)

// Status is the result of a stage.
type Status string

const (
	StatusStarted  Status = "started"
	StatusFilled   Status = "filled"
	StatusNoData   Status = "no_data"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusFinished Status = "finished"
)

// Event is one progress notification.
type Event struct {
	RunID   string    `json:"run_id"`
	Seq     int64     `json:"seq"`
	EventID string    `json:"event_id,omitempty"`
	Stage   Stage     `json:"stage"`
	Status  Status    `json:"status"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher accepts progress events. Implementations must not block.
type Publisher interface {
	Publish(Event)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
