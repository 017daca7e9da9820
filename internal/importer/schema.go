package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is written by Encode and the only version Decode accepts.
const DocumentVersion = 1

const dateLayout = "2006-01-02"

// Document is the YAML exchange format for a single project. Stages and
// their subtasks are listed in board order; positions are implied by the
// list order, so documents can be hand-edited without renumbering.
type Document struct {
	Version int           `yaml:"version"`
	Project ProjectImport `yaml:"project"`
	Stages  []StageImport `yaml:"stages"`
}

// ProjectImport defines the project-level fields of the document.
type ProjectImport struct {
	Name             string          `yaml:"name"`
	Description      string          `yaml:"description,omitempty"`
	Status           string          `yaml:"status,omitempty"`
	Budget           *float64        `yaml:"budget,omitempty"`
	ExecutiveSummary string          `yaml:"executive_summary,omitempty"`
	Metadata         *MetadataImport `yaml:"metadata,omitempty"`
	Outcomes         *OutcomesImport `yaml:"outcomes,omitempty"`
}

// MetadataImport mirrors domain.Metadata with dates as YYYY-MM-DD strings.
type MetadataImport struct {
	ProjectNumber    string   `yaml:"project_number,omitempty"`
	Client           string   `yaml:"client,omitempty"`
	Site             string   `yaml:"site,omitempty"`
	CoordinateSystem string   `yaml:"coordinate_system,omitempty"`
	StartDate        *string  `yaml:"start_date,omitempty"`
	EndDate          *string  `yaml:"end_date,omitempty"`
	OutcomeNotes     string   `yaml:"outcome_notes,omitempty"`
	Equipment        []string `yaml:"equipment,omitempty"`
	Personnel        []string `yaml:"personnel,omitempty"`
}

// OutcomesImport mirrors domain.Outcomes.
type OutcomesImport struct {
	KeyFindings     string `yaml:"key_findings,omitempty"`
	Conclusions     string `yaml:"conclusions,omitempty"`
	Recommendations string `yaml:"recommendations,omitempty"`
	Achievements    string `yaml:"achievements,omitempty"`
	Challenges      string `yaml:"challenges,omitempty"`
	LessonsLearned  string `yaml:"lessons_learned,omitempty"`
}

// StageImport is one pipeline stage with its subtasks.
type StageImport struct {
	Name     string          `yaml:"name"`
	Subtasks []SubtaskImport `yaml:"subtasks,omitempty"`
}

// SubtaskImport is one subtask. Order comes from its list position.
type SubtaskImport struct {
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description,omitempty"`
	Status            string   `yaml:"status,omitempty"`
	StartDate         *string  `yaml:"start_date,omitempty"`
	EndDate           *string  `yaml:"end_date,omitempty"`
	SuggestedDeadline *string  `yaml:"suggested_deadline,omitempty"`
	Cost              *float64 `yaml:"cost,omitempty"`
}

// Decode parses a YAML document. Unknown fields are rejected so typos
// surface instead of silently dropping data.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing import file: document is empty")
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &doc, nil
}

// Encode writes doc as YAML with two-space indentation.
func Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return enc.Close()
}

// LoadDocument reads and parses a project document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}
