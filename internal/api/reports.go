package api

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/report"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/labstack/echo/v4"
)

type reportAPI struct {
	store service.EntryService
	now   func() time.Time
}

func registerReportAPI(g *echo.Group, store service.EntryService, now func() time.Time) {
	api := reportAPI{store: store, now: now}

	g.GET("/students", api.students)
	g.GET("/students/:name/report", api.studentReport)
	g.GET("/volunteers", api.volunteers)
	g.GET("/export", api.export)
}

func (api *reportAPI) students(ctx echo.Context) error {
	entries := api.store.Entries()
	names := report.Students(entries)
	if term := ctx.QueryParam("q"); term != "" {
		names = report.MatchingStudents(names, term)
	}
	if names == nil {
		names = []string{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"students":   names,
		"classes":    report.Classes(entries),
		"volunteers": report.Volunteers(entries),
	})
}

func (api *reportAPI) studentReport(ctx echo.Context) error {
	stats := report.BuildStudentStats(ctx.Param("name"), api.store.Entries(), api.now())
	return ctx.JSON(http.StatusOK, toStudentReportJSON(stats))
}

func (api *reportAPI) volunteers(ctx echo.Context) error {
	key, err := report.ParseSortKey(ctx.QueryParam("sort"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	entries := api.store.Entries()
	now := api.now()

	stats := report.BuildVolunteerStats(entries, key)
	out := make([]volunteerJSON, 0, len(stats))
	for _, v := range stats {
		out = append(out, volunteerJSON{
			Name:     v.Name,
			Days:     v.Days,
			LastDay:  v.LastDayLabel(),
			Inactive: report.IsVolunteerInactive(v.Name, entries, now),
		})
	}
	return ctx.JSON(http.StatusOK, out)
}

// export streams the entries of one day or month as delimited text.
// Query: period=daily|monthly (default monthly), date=YYYY-MM-DD (default
// today), student, delimiter.
func (api *reportAPI) export(ctx echo.Context) error {
	at := api.now()
	if raw := ctx.QueryParam("date"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			return errBadDate
		}
		at = d
	}

	var period report.Period
	switch report.PeriodKind(ctx.QueryParam("period")) {
	case report.Daily:
		period = report.DailyPeriod(at)
	case report.Monthly, "":
		period = report.MonthlyPeriod(at)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "period must be daily or monthly")
	}

	student := ctx.QueryParam("student")
	entries := report.EntriesInPeriod(api.store.Entries(), period)
	if student != "" {
		entries = slices.DeleteFunc(entries, func(e *domain.ProgressEntry) bool {
			return !slices.Contains(e.KidsTaught, student)
		})
	}
	if len(entries) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no progress entries in the selected period")
	}

	body := report.ToDelimitedText(entries, report.ExportOptions{
		Delimiter: ctx.QueryParam("delimiter"),
		Student:   student,
	})
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.ExportFilename(student, period)))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}
