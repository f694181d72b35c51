package report

import (
	"testing"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func TestBuildStudentStats_Empty(t *testing.T) {
	stats := BuildStudentStats("Alice", nil, testNow)

	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0, stats.UniqueVolunteers())
	assert.Equal(t, 0, stats.UniqueTopics())
	assert.Equal(t, 0, stats.RecentActivity)
	assert.NotNil(t, stats.Volunteers)
	assert.NotNil(t, stats.Topics)
	assert.NotNil(t, stats.Homework)
	assert.Empty(t, stats.Homework)
}

func TestBuildStudentStats_NoMatchingEntries(t *testing.T) {
	entries := []*domain.ProgressEntry{testutil.NewTestEntry(testutil.WithKids("Bob"))}
	stats := BuildStudentStats("Alice", entries, testNow)
	assert.Equal(t, 0, stats.TotalSessions)
	assert.Empty(t, stats.Volunteers)
}

func TestBuildStudentStats_CountsAndOrdering(t *testing.T) {
	entries := []*domain.ProgressEntry{
		testutil.NewTestEntry(testutil.WithDate("2024-06-01"), testutil.WithKids("alice"),
			testutil.WithVolunteer("Sam"), testutil.WithTopic("Fractions"), testutil.WithHomework("p1")),
		testutil.NewTestEntry(testutil.WithDate("2024-06-05"), testutil.WithKids("Alice", "Bob"),
			testutil.WithVolunteer("Priya"), testutil.WithTopic("Decimals"), testutil.WithHomework("  ")),
		testutil.NewTestEntry(testutil.WithDate("2024-06-08"), testutil.WithKids("ALICE"),
			testutil.WithVolunteer("priya"), testutil.WithTopic("Fractions"), testutil.WithHomework("p3")),
		testutil.NewTestEntry(testutil.WithDate("2024-06-09"), testutil.WithKids("Alice"),
			testutil.WithVolunteer(""), testutil.WithTopic("Reading")),
		testutil.NewTestEntry(testutil.WithDate("2024-06-14"), testutil.WithKids("Bob"),
			testutil.WithVolunteer("Sam"), testutil.WithTopic("Fractions")),
	}

	stats := BuildStudentStats("Alice", entries, testNow)

	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, []NameCount{{"Priya", 2}, {"Sam", 1}}, stats.Volunteers,
		"volunteers merge case-insensitively and skip blanks")
	assert.Equal(t, []NameCount{{"Fractions", 2}, {"Decimals", 1}, {"Reading", 1}}, stats.Topics,
		"ties keep first-seen order")

	require.Len(t, stats.Homework, 2)
	assert.Equal(t, "p3", stats.Homework[0].Homework)
	assert.Equal(t, "p1", stats.Homework[1].Homework)

	assert.Equal(t, "2024-06-09", domain.FormatDate(stats.LastSession))
	assert.Equal(t, 6, stats.RecentActivity)
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		name string
		date string
		want int
	}{
		{"today", "2024-06-15", 0},
		{"yesterday", "2024-06-14", 1},
		{"two weeks", "2024-06-01", 14},
		{"future clamps to zero", "2024-06-20", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := domain.ParseDate(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DaysSince(d, testNow))
		})
	}
}
