package domain

import "fmt"

// InterviewStatus is the closed set of interview outcomes tracked per
// candidate. The upstream API does not carry this field; records without a
// status display as StatusScheduled.
type InterviewStatus string

const (
	StatusScheduled InterviewStatus = "scheduled"
	StatusCompleted InterviewStatus = "completed"
	StatusNoShow    InterviewStatus = "no_show"
)

// ParseInterviewStatus returns the InterviewStatus for s, or an error when s
// is outside the closed set.
func ParseInterviewStatus(s string) (InterviewStatus, error) {
	switch InterviewStatus(s) {
	case StatusScheduled:
		return StatusScheduled, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusNoShow:
		return StatusNoShow, nil
	default:
		return "", fmt.Errorf("unknown interview status %q", s)
	}
}

// CandidateRecord is one row of the candidates collection. Records are
// immutable once fetched; views over them are derived, never edited in place.
type CandidateRecord struct {
	ID         int             `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Department string          `json:"department,omitempty"`
	Role       string          `json:"role,omitempty"`
	Status     InterviewStatus `json:"status,omitempty"`
}

// FullName returns "FirstName LastName", the form used for display, filtering
// and name-keyed sorting.
func (c CandidateRecord) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DisplayStatus resolves the optional status field to its display value.
func (c CandidateRecord) DisplayStatus() InterviewStatus {
	if c.Status == "" {
		return StatusScheduled
	}
	return c.Status
}

// ScheduleItem is one entry of a candidate's interview schedule. The mock API
// serves these from its todos collection.
type ScheduleItem struct {
	ID        int    `json:"id"`
	Title     string `json:"todo"`
	Completed bool   `json:"completed"`
}

// FeedbackPost is one piece of recorded interviewer feedback. The mock API
// serves these from its posts collection.
type FeedbackPost struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CandidateDetail bundles everything the detail page shows for one candidate.
type CandidateDetail struct {
	Profile  CandidateRecord
	Schedule []ScheduleItem
	Feedback []FeedbackPost
}

// FeedbackForm is the panelist feedback entry form. Validation tags are
// enforced with go-playground/validator before a submission is accepted.
type FeedbackForm struct {
	Score        int    `validate:"required,min=1,max=5"`
	Strengths    string `validate:"required,min=5,max=500"`
	Improvements string `validate:"required,min=5,max=500"`
}
