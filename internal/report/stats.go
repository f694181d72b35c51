package report

import (
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
)

// NameCount pairs a volunteer or topic with the number of sessions.
type NameCount struct {
	Name  string
	Count int
}

// HomeworkItem is one assignment given to a student.
type HomeworkItem struct {
	Date      time.Time
	Volunteer string
	Class     string
	Topic     string
	Homework  string
}

// StudentStats summarises one student's sessions.
type StudentStats struct {
	Student        string
	TotalSessions  int
	Volunteers     []NameCount
	Topics         []NameCount
	Homework       []HomeworkItem
	LastSession    time.Time
	RecentActivity int // whole days since LastSession; 0 is today
}

// UniqueVolunteers is the number of distinct volunteers who taught the student.
func (s StudentStats) UniqueVolunteers() int { return len(s.Volunteers) }

// UniqueTopics is the number of distinct topics covered.
func (s StudentStats) UniqueTopics() int { return len(s.Topics) }

// BuildStudentStats restricts entries to those listing student (ignoring
// case) and summarises them as of now.
func BuildStudentStats(student string, entries []*domain.ProgressEntry, now time.Time) StudentStats {
	stats := StudentStats{
		Student:    strings.TrimSpace(student),
		Volunteers: []NameCount{},
		Topics:     []NameCount{},
		Homework:   []HomeworkItem{},
	}

	volunteers := newCounter()
	topics := newCounter()
	canon := domain.NewCanonicalizer()
	for _, e := range entries {
		if !e.HasStudent(student) {
			continue
		}
		stats.TotalSessions++
		if e.Date.After(stats.LastSession) {
			stats.LastSession = e.Date
		}
		if v := canon.Add(e.VolunteerName); v != "" {
			volunteers.add(v)
		}
		topics.add(e.TopicTaught)
		if strings.TrimSpace(e.Homework) != "" {
			stats.Homework = append(stats.Homework, HomeworkItem{
				Date:      e.Date,
				Volunteer: e.VolunteerName,
				Class:     e.Class,
				Topic:     e.TopicTaught,
				Homework:  e.Homework,
			})
		}
	}
	if stats.TotalSessions == 0 {
		return stats
	}

	stats.Volunteers = volunteers.ranked()
	stats.Topics = topics.ranked()
	sort.SliceStable(stats.Homework, func(i, j int) bool {
		return stats.Homework[i].Date.After(stats.Homework[j].Date)
	})
	stats.RecentActivity = DaysSince(stats.LastSession, now)
	return stats
}

// DaysSince is the number of whole calendar days from date to now's
// calendar day, clamped at zero for future dates.
func DaysSince(date, now time.Time) int {
	days := int(domain.CivilDate(now).Sub(domain.CivilDate(date)).Hours() / 24)
	return max(days, 0)
}

// counter tallies names while remembering first-seen order for ties.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(name string) {
	if _, ok := c.counts[name]; !ok {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

// ranked returns names by count descending, first-seen order on ties.
func (c *counter) ranked() []NameCount {
	out := make([]NameCount, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, NameCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
