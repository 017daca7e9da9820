package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func errStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func TestValidateDocument_Valid(t *testing.T) {
	assert.Empty(t, ValidateDocument(decode(t, surveyDoc)))
}

func TestValidateDocument_CollectsAllErrors(t *testing.T) {
	doc := decode(t, `version: 2
project:
  name: ""
  status: paused
  budget: -1
stages:
  - name: ""
    subtasks:
      - name: ""
        status: finished
        cost: -5
        start_date: "2025-05-02"
        end_date: "2025-05-01"
      - name: ok
        suggested_deadline: next week
`)

	errs := errStrings(ValidateDocument(doc))

	for _, want := range []string{
		"version: unsupported value 2",
		"project.name is required",
		`project.status: invalid value "paused"`,
		"project.budget must be non-negative",
		"stages[0].name is required",
		"stages[0].subtasks[0].name is required",
		`stages[0].subtasks[0].status: invalid value "finished"`,
		"stages[0].subtasks[0].cost must be non-negative",
		`stages[0].subtasks[0].end_date "2025-05-01" must not be before start_date "2025-05-02"`,
		`stages[0].subtasks[1].suggested_deadline: invalid date format "next week"`,
	} {
		assert.True(t, containsPrefix(errs, want), "missing error %q in %v", want, errs)
	}
}

func TestValidateDocument_BadMetadataDates(t *testing.T) {
	doc := decode(t, `version: 1
project:
  name: Dates
  metadata:
    start_date: "01/02/2025"
stages: []
`)
	errs := errStrings(ValidateDocument(doc))
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "project.metadata.start_date")
}

func TestValidateDocument_StatusSpellings(t *testing.T) {
	doc := decode(t, `version: 1
project:
  name: Loose
  status: On-Hold
stages:
  - name: S
    subtasks:
      - name: t
        status: to do
`)
	assert.Empty(t, ValidateDocument(doc))
}

func containsPrefix(errs []string, prefix string) bool {
	for _, e := range errs {
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func TestValidateDocument_NonFiniteAmounts(t *testing.T) {
	doc := decode(t, `version: 1
project:
  name: Odd
  budget: .nan
stages:
  - name: Work
    subtasks:
      - name: Scan
        cost: .inf
      - name: Pack
        cost: -.inf
`)

	errs := errStrings(ValidateDocument(doc))

	assert.ElementsMatch(t, []string{
		"project.budget must be a finite number",
		"stages[0].subtasks[0].cost must be a finite number",
		"stages[0].subtasks[1].cost must be a finite number",
	}, errs)
}
