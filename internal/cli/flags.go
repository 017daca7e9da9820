package cli

import (
	"strconv"
	"time"

	"github.com/alexanderramin/stageplan/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// projectStatusValue is a pflag.Value accepting loose status spellings.
type projectStatusValue struct{ status *domain.ProjectStatus }

func (v projectStatusValue) String() string {
	if v.status == nil {
		return ""
	}
	return string(*v.status)
}

func (v projectStatusValue) Set(raw string) error {
	st, err := domain.ParseProjectStatus(raw)
	if err != nil {
		return err
	}
	*v.status = st
	return nil
}

func (projectStatusValue) Type() string { return "status" }

type subtaskStatusValue struct{ status *domain.SubtaskStatus }

func (v subtaskStatusValue) String() string {
	if v.status == nil {
		return ""
	}
	return string(*v.status)
}

func (v subtaskStatusValue) Set(raw string) error {
	st, err := domain.ParseSubtaskStatus(raw)
	if err != nil {
		return err
	}
	*v.status = st
	return nil
}

func (subtaskStatusValue) Type() string { return "status" }

// dateValue parses YYYY-MM-DD into an optional time.
type dateValue struct{ t **time.Time }

func (v dateValue) String() string {
	if v.t == nil || *v.t == nil {
		return ""
	}
	return (*v.t).Format(dateLayout)
}

func (v dateValue) Set(raw string) error {
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return &domain.ValidationError{Field: "date", Reason: strconv.Quote(raw) + " is not a YYYY-MM-DD date"}
	}
	*v.t = &parsed
	return nil
}

func (dateValue) Type() string { return "date" }

var (
	_ pflag.Value = projectStatusValue{}
	_ pflag.Value = subtaskStatusValue{}
	_ pflag.Value = dateValue{}
)

// parsePosition turns a 1-based position argument into a 0-based order.
func parsePosition(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &domain.ValidationError{Field: "position", Reason: strconv.Quote(raw) + " is not a positive integer"}
	}
	return n - 1, nil
}

// optionalFloat returns a pointer to the flag's value when it was set.
func optionalFloat(flags *pflag.FlagSet, name string, v float64) *float64 {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}

// optionalString returns a pointer to the flag's value when it was set.
func optionalString(flags *pflag.FlagSet, name, v string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}
