package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 6, 15, 18, 30, 0, 0, time.UTC)

func validMinimalFile() *ImportFile {
	return &ImportFile{
		Submissions: []SubmissionImport{{
			Date:          "2024-06-10",
			VolunteerName: "Sam",
			Sections: []SectionImport{
				{KidsTaught: []string{"Ann"}, Class: "Math", TopicTaught: "Fractions"},
			},
		}},
	}
}

func errorTexts(errs []error) string {
	parts := make([]string, len(errs))
	for i, err := range errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "\n")
}

func TestValidateImportFile_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportFile(validMinimalFile(), today))
}

func TestValidateImportFile_TodayIsAllowed(t *testing.T) {
	file := validMinimalFile()
	file.Submissions[0].Date = "2024-06-15"
	assert.Empty(t, ValidateImportFile(file, today))
}

func TestValidateImportFile_NoSubmissions(t *testing.T) {
	errs := ValidateImportFile(&ImportFile{}, today)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one submission")
}

func TestValidateImportFile_BadDates(t *testing.T) {
	file := &ImportFile{Submissions: []SubmissionImport{
		{Date: "", VolunteerName: "Sam", Sections: validMinimalFile().Submissions[0].Sections},
		{Date: "10/06/2024", VolunteerName: "Sam", Sections: validMinimalFile().Submissions[0].Sections},
		{Date: "2024-06-16", VolunteerName: "Sam", Sections: validMinimalFile().Submissions[0].Sections},
	}}

	errs := ValidateImportFile(file, today)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "submissions[0].date is required")
	assert.Contains(t, errs[1].Error(), "invalid date format")
	assert.Contains(t, errs[2].Error(), "in the future")
}

func TestValidateImportFile_CollectsSectionProblems(t *testing.T) {
	file := &ImportFile{Submissions: []SubmissionImport{{
		Date: "2024-06-10",
		Sections: []SectionImport{
			{KidsTaught: nil, TopicTaught: ""},
			{KidsTaught: []string{"Ann", " "}, Class: "Art", TopicTaught: "Clay"},
		},
	}}}

	errs := ValidateImportFile(file, today)
	text := errorTexts(errs)
	assert.Contains(t, text, "submissions[0].volunteer_name is required")
	assert.Contains(t, text, "sections[0].kids_taught: at least one student")
	assert.Contains(t, text, "sections[0].class is required")
	assert.Contains(t, text, "sections[0].topic_taught is required")
	assert.Contains(t, text, "sections[1].kids_taught[1] is blank")
	assert.Len(t, errs, 5)
}

func TestValidateImportFile_DefaultsSatisfyRequiredFields(t *testing.T) {
	file := &ImportFile{
		Defaults: &DefaultsImport{VolunteerName: "Sam", Class: "Math"},
		Submissions: []SubmissionImport{{
			Date:     "2024-06-10",
			Sections: []SectionImport{{KidsTaught: []string{"Ann"}, TopicTaught: "Fractions"}},
		}},
	}
	assert.Empty(t, ValidateImportFile(file, today))
}

func TestValidateImportFile_EmptySections(t *testing.T) {
	file := validMinimalFile()
	file.Submissions[0].Sections = nil

	errs := ValidateImportFile(file, today)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "at least one section")
}

func TestParseImportFile(t *testing.T) {
	file, err := ParseImportFile(strings.NewReader(`{
		"defaults": {"volunteer_name": "Sam"},
		"submissions": [
			{"date": "2024-06-10", "sections": [
				{"kids_taught": ["Ann", "Bo"], "class": "Math", "topic_taught": "Fractions", "homework": "p. 12"}
			]}
		]
	}`))
	require.NoError(t, err)
	require.NotNil(t, file.Defaults)
	assert.Equal(t, "Sam", file.Defaults.VolunteerName)
	require.Len(t, file.Submissions, 1)
	assert.Equal(t, []string{"Ann", "Bo"}, file.Submissions[0].Sections[0].KidsTaught)
}

func TestParseImportFile_RejectsUnknownFields(t *testing.T) {
	_, err := ParseImportFile(strings.NewReader(`{"submissions": [], "project": {}}`))
	assert.ErrorContains(t, err, "parsing import file")
}

func TestLoadImportFile_Stdin(t *testing.T) {
	file, err := LoadImportFile("-", strings.NewReader(`{"submissions": [{"date": "2024-06-10"}]}`))
	require.NoError(t, err)
	assert.Len(t, file.Submissions, 1)

	_, err = LoadImportFile("/does/not/exist.json", nil)
	assert.Error(t, err)
}
