package domain

import "time"

// Subtask is a unit of work inside one stage. Subtasks sharing a StageID form
// an ordering group.
type Subtask struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	Status            SubtaskStatus `json:"status"`
	StartDate         *time.Time    `json:"startDate,omitempty"`
	EndDate           *time.Time    `json:"endDate,omitempty"`
	SuggestedDeadline *time.Time    `json:"suggestedDeadline,omitempty"`
	Cost              *float64      `json:"cost,omitempty"`
	StageID           string        `json:"stageId"`
	Order             int           `json:"order"`
	CreatedAt         time.Time     `json:"createdAt"`
}

func (s *Subtask) Clone() *Subtask {
	c := *s
	c.StartDate = cloneTime(s.StartDate)
	c.EndDate = cloneTime(s.EndDate)
	c.SuggestedDeadline = cloneTime(s.SuggestedDeadline)
	c.Cost = cloneFloat(s.Cost)
	return &c
}

// IsDone reports whether the subtask counts towards completion.
func (s *Subtask) IsDone() bool {
	return s.Status == SubtaskDone
}

func (s *Subtask) ItemID() string { return s.ID }
func (s *Subtask) GroupKey() string { return s.StageID }
func (s *Subtask) Position() int { return s.Order }
func (s *Subtask) SetPosition(o int) { s.Order = o }
func (s *Subtask) Created() time.Time { return s.CreatedAt }

// SubtaskInput is the caller-supplied part of a new subtask. Stage placement
// and order are decided by the store.
type SubtaskInput struct {
	Name              string
	Description       string
	Status            SubtaskStatus
	StartDate         *time.Time
	EndDate           *time.Time
	SuggestedDeadline *time.Time
	Cost              *float64
}

func (in SubtaskInput) Validate() error {
	if err := validateName("subtask name", in.Name); err != nil {
		return err
	}
	if in.Status != "" && !in.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown subtask status " + quote(string(in.Status))}
	}
	if err := validateDateRange(in.StartDate, in.EndDate); err != nil {
		return err
	}
	return validateAmount("cost", in.Cost)
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return &ValidationError{Field: "end date", Reason: "must not be before start date"}
	}
	return nil
}
