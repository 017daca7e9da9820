package domain

import "time"

// Stage is an ordered column of a project's pipeline. All stages of a
// project form a single ordering group.
type Stage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Stage) Clone() *Stage {
	c := *s
	return &c
}

func (s *Stage) ItemID() string { return s.ID }
func (s *Stage) GroupKey() string { return "" }
func (s *Stage) Position() int { return s.Order }
func (s *Stage) SetPosition(o int) { s.Order = o }
func (s *Stage) Created() time.Time { return s.CreatedAt }
