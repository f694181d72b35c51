package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ImportFile is the top-level JSON structure for backfilling paper logs.
type ImportFile struct {
	Defaults    *DefaultsImport    `json:"defaults,omitempty"`
	Submissions []SubmissionImport `json:"submissions"`
}

// DefaultsImport holds values applied to submissions that leave them out.
type DefaultsImport struct {
	VolunteerName string `json:"volunteer_name,omitempty"`
	Class         string `json:"class,omitempty"`
}

// SubmissionImport is one volunteer's day.
type SubmissionImport struct {
	Date          string          `json:"date"`
	VolunteerName string          `json:"volunteer_name,omitempty"`
	Sections      []SectionImport `json:"sections"`
}

// SectionImport becomes one progress entry.
type SectionImport struct {
	KidsTaught  []string `json:"kids_taught"`
	Class       string   `json:"class,omitempty"`
	TopicTaught string   `json:"topic_taught"`
	Homework    string   `json:"homework,omitempty"`
}

// LoadImportFile reads and parses an import file. A path of "-" reads stdin.
func LoadImportFile(path string, stdin io.Reader) (*ImportFile, error) {
	if path == "-" {
		return ParseImportFile(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseImportFile(f)
}

// ParseImportFile decodes an import file, rejecting unknown fields.
func ParseImportFile(r io.Reader) (*ImportFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var file ImportFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &file, nil
}
