package task

import (
	"time"

	"time-tracking-bot/internal/model"
)

// Action tells the presentation layer what TrackMessage did.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// TrackInput is the input for TrackMessage.
type TrackInput struct {
	Text string // Raw message text, including an optional leading "HH:MM"
}

// ClosedTask is a task that an operation just closed.
type ClosedTask struct {
	Task     model.Task
	Duration time.Duration
}

// TrackOutput is the result of TrackMessage.
type TrackOutput struct {
	Action       Action
	Task         model.Task
	Previous     *ClosedTask // Set when a previous task was closed
	IsTicket     bool
	ExplicitTime bool // Start time came from a leading "HH:MM"
	User         model.User
}

// RestInput is the input for StartRest. Zero At means now.
type RestInput struct {
	At time.Time
}

// RestOutput is the result of StartRest.
type RestOutput struct {
	Task     model.Task
	Previous *ClosedTask
	User     model.User
}

// CloseInput is the input for CloseActive. Zero At means now.
type CloseInput struct {
	At time.Time
}

// CloseOutput is the result of CloseActive. Closed is nil when nothing was active.
type CloseOutput struct {
	Closed *ClosedTask
}

// AutoClosed describes one task closed by the sweep.
type AutoClosed struct {
	User   model.User
	Closed ClosedTask
}

// SweepOutput is the result of AutoCloseSweep.
type SweepOutput struct {
	Closed []AutoClosed
	Failed int // Users whose check or close failed
}

// SummaryInput selects the day. Zero Date means today in the user's zone;
// otherwise only the calendar date of Date is used.
type SummaryInput struct {
	Date time.Time
}

// LabelTotal is the summed duration of all work tasks sharing a label.
type LabelTotal struct {
	Label           string
	IsTicket        bool
	OriginalMessage string
	Duration        time.Duration
}

// SummaryEntry is one task row of a daily summary, with local clock times.
type SummaryEntry struct {
	Task     model.Task
	Start    string // HH:MM local
	End      string // HH:MM local, or OngoingMarker
	Ongoing  bool
	Duration time.Duration
}

// OngoingMarker replaces the end time of an open task in summaries.
const OngoingMarker = "сейчас"

// SummaryReport is the aggregated day.
type SummaryReport struct {
	User      model.User
	Date      time.Time // Local midnight in the user's zone
	Empty     bool
	TotalWork time.Duration
	TotalRest time.Duration
	Groups    []LabelTotal // Work tasks by label, first-seen order
	Entries   []SummaryEntry
	Comments  []string // Distinct non-empty comments, alphabetical
	Active    *model.Task
}

// SetTimezoneInput is the input for SetTimezone.
type SetTimezoneInput struct {
	Timezone string
}

// SetWorkdayInput is the input for SetWorkday; both values are "HH:MM".
type SetWorkdayInput struct {
	Start string
	End   string
}
