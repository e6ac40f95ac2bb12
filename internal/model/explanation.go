package model

// Phase is the state of the explanation state machine
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// Explanation is the outcome of the most recent generate request.
// Loading=true means a request is outstanding and Text/Error are not meaningful.
type Explanation struct {
	Text    string `json:"text"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Phase derives the state machine phase from the record
func (e Explanation) Phase() Phase {
	switch {
	case e.Loading:
		return PhasePending
	case e.Error != "":
		return PhaseFailed
	case e.Text != "":
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// DisplayKind selects what the result region shows
type DisplayKind string

const (
	DisplayError       DisplayKind = "error"
	DisplayText        DisplayKind = "text"
	DisplayLoading     DisplayKind = "loading"
	DisplayPlaceholder DisplayKind = "placeholder"
)

// Placeholder is shown before anything has been generated
const Placeholder = "Set parameters and click generate..."

// Display picks the region content. Priority: error, text, loading, placeholder.
func (e Explanation) Display() DisplayKind {
	switch {
	case e.Error != "":
		return DisplayError
	case e.Text != "":
		return DisplayText
	case e.Loading:
		return DisplayLoading
	default:
		return DisplayPlaceholder
	}
}
