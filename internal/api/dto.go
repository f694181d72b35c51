package api

import (
	"strings"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
)

type entryJSON struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`
	Day           string    `json:"day"`
	VolunteerName string    `json:"volunteer_name"`
	KidsTaught    []string  `json:"kids_taught"`
	Class         string    `json:"class"`
	TopicTaught   string    `json:"topic_taught"`
	Homework      string    `json:"homework"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toEntryJSON(e *domain.ProgressEntry) entryJSON {
	return entryJSON{
		ID:            e.ID,
		Date:          domain.FormatDate(e.Date),
		Day:           e.Day(),
		VolunteerName: e.VolunteerName,
		KidsTaught:    e.KidsTaught,
		Class:         e.Class,
		TopicTaught:   e.TopicTaught,
		Homework:      e.Homework,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toEntriesJSON(entries []*domain.ProgressEntry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryJSON(e))
	}
	return out
}

type listResponse struct {
	Entries    []entryJSON `json:"entries"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Total      int         `json:"total"`
	LoadError  string      `json:"load_error,omitempty"`
}

type sectionRequest struct {
	KidsTaught  []string `json:"kids_taught"`
	Class       string   `json:"class"`
	TopicTaught string   `json:"topic_taught"`
	Homework    string   `json:"homework"`
}

type submissionRequest struct {
	Date          string           `json:"date"`
	VolunteerName string           `json:"volunteer_name"`
	Sections      []sectionRequest `json:"sections"`
}

func (r submissionRequest) toSubmission() (domain.Submission, error) {
	sub := domain.Submission{VolunteerName: r.VolunteerName}
	if strings.TrimSpace(r.Date) != "" {
		d, err := domain.ParseDate(r.Date)
		if err != nil {
			return sub, errBadDate
		}
		sub.Date = d
	}
	for _, s := range r.Sections {
		sub.Sections = append(sub.Sections, domain.Section{
			KidsTaught:  s.KidsTaught,
			Class:       s.Class,
			TopicTaught: s.TopicTaught,
			Homework:    s.Homework,
		})
	}
	return sub, nil
}

type patchRequest struct {
	Date          *string  `json:"date"`
	VolunteerName *string  `json:"volunteer_name"`
	KidsTaught    []string `json:"kids_taught"`
	Class         *string  `json:"class"`
	TopicTaught   *string  `json:"topic_taught"`
	Homework      *string  `json:"homework"`
}

func (r patchRequest) toPatch() (domain.EntryPatch, error) {
	p := domain.EntryPatch{
		VolunteerName: r.VolunteerName,
		KidsTaught:    r.KidsTaught,
		Class:         r.Class,
		TopicTaught:   r.TopicTaught,
		Homework:      r.Homework,
	}
	if r.Date != nil {
		d, err := domain.ParseDate(*r.Date)
		if err != nil {
			return p, errBadDate
		}
		p.Date = &d
	}
	return p, nil
}

type nameCountJSON struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type homeworkJSON struct {
	Date      string `json:"date"`
	Volunteer string `json:"volunteer"`
	Class     string `json:"class"`
	Topic     string `json:"topic"`
	Homework  string `json:"homework"`
}

type studentReportJSON struct {
	Student          string          `json:"student"`
	TotalSessions    int             `json:"total_sessions"`
	UniqueVolunteers int             `json:"unique_volunteers"`
	UniqueTopics     int             `json:"unique_topics"`
	Volunteers       []nameCountJSON `json:"volunteers"`
	Topics           []nameCountJSON `json:"topics"`
	Homework         []homeworkJSON  `json:"homework"`
	RecentActivity   int             `json:"recent_activity_days"`
}

func toStudentReportJSON(s report.StudentStats) studentReportJSON {
	out := studentReportJSON{
		Student:          s.Student,
		TotalSessions:    s.TotalSessions,
		UniqueVolunteers: s.UniqueVolunteers(),
		UniqueTopics:     s.UniqueTopics(),
		Volunteers:       toNameCounts(s.Volunteers),
		Topics:           toNameCounts(s.Topics),
		Homework:         make([]homeworkJSON, 0, len(s.Homework)),
		RecentActivity:   s.RecentActivity,
	}
	for _, h := range s.Homework {
		out.Homework = append(out.Homework, homeworkJSON{
			Date:      domain.FormatDate(h.Date),
			Volunteer: h.Volunteer,
			Class:     h.Class,
			Topic:     h.Topic,
			Homework:  h.Homework,
		})
	}
	return out
}

func toNameCounts(in []report.NameCount) []nameCountJSON {
	out := make([]nameCountJSON, 0, len(in))
	for _, nc := range in {
		out = append(out, nameCountJSON{Name: nc.Name, Count: nc.Count})
	}
	return out
}

type volunteerJSON struct {
	Name     string `json:"name"`
	Days     int    `json:"days"`
	LastDay  string `json:"last_day"`
	Inactive bool   `json:"inactive"`
}

type profileJSON struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	ClassName string `json:"classname"`
	School    string `json:"school"`
	Phone     string `json:"phone"`
	Saved     bool   `json:"saved"`
}

func toProfileJSON(p *domain.KidProfile) profileJSON {
	return profileJSON{
		ID:        p.ID,
		Name:      p.Name,
		ClassName: p.ClassName,
		School:    p.School,
		Phone:     p.Phone,
		Saved:     !p.IsPlaceholder(),
	}
}
