package domain

import "strings"

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "Not Started"
	ProjectPlanning   ProjectStatus = "Planning"
	ProjectInProgress ProjectStatus = "In Progress"
	ProjectOnHold     ProjectStatus = "On Hold"
	ProjectCompleted  ProjectStatus = "Completed"
	ProjectCancelled  ProjectStatus = "Cancelled"
)

// DefaultProjectStatus is assigned to projects created without a status.
const DefaultProjectStatus = ProjectNotStarted

// ProjectStatuses lists every project status in lifecycle order.
var ProjectStatuses = []ProjectStatus{
	ProjectNotStarted, ProjectPlanning, ProjectInProgress,
	ProjectOnHold, ProjectCompleted, ProjectCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Normalize maps the zero value to the default status and leaves every
// other value untouched.
func (s ProjectStatus) Normalize() ProjectStatus {
	if s == "" {
		return DefaultProjectStatus
	}
	return s
}

// ParseProjectStatus accepts the canonical label or a loose spelling such as
// "in_progress", "on-hold" or "notstarted".
func ParseProjectStatus(raw string) (ProjectStatus, error) {
	key := statusKey(raw)
	for _, v := range ProjectStatuses {
		if statusKey(string(v)) == key {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: "unknown project status " + quote(raw)}
}

type SubtaskStatus string

const (
	SubtaskToDo       SubtaskStatus = "To Do"
	SubtaskInProgress SubtaskStatus = "In Progress"
	SubtaskDone       SubtaskStatus = "Done"
	SubtaskBlocked    SubtaskStatus = "Blocked"
)

// DefaultSubtaskStatus is assigned to subtasks created without a status.
const DefaultSubtaskStatus = SubtaskToDo

var SubtaskStatuses = []SubtaskStatus{
	SubtaskToDo, SubtaskInProgress, SubtaskDone, SubtaskBlocked,
}

func (s SubtaskStatus) Valid() bool {
	for _, v := range SubtaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s SubtaskStatus) Normalize() SubtaskStatus {
	if s == "" {
		return DefaultSubtaskStatus
	}
	return s
}

// ParseSubtaskStatus accepts the canonical label or a loose spelling such as
// "todo", "in-progress" or "DONE".
func ParseSubtaskStatus(raw string) (SubtaskStatus, error) {
	key := statusKey(raw)
	for _, v := range SubtaskStatuses {
		if statusKey(string(v)) == key {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: "unknown subtask status " + quote(raw)}
}

// statusKey folds case and drops separators so "In Progress",
// "in_progress" and "IN-PROGRESS" compare equal.
func statusKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func quote(s string) string {
	return `"` + s + `"`
}
