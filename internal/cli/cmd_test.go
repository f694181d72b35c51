package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/tutorlog/internal/auth"
	"github.com/alexanderramin/tutorlog/internal/config"
	"github.com/alexanderramin/tutorlog/internal/db"
	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/repository"
	"github.com/alexanderramin/tutorlog/internal/service"
	"github.com/alexanderramin/tutorlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

const testPasscode = "letmein"

type fixture struct {
	app       *App
	db        *db.DB
	fractions *domain.ProgressEntry
	poems     *domain.ProgressEntry
	plants    *domain.ProgressEntry
}

// testApp wires a full App backed by an in-memory DB and seeds three entries.
func testApp(t *testing.T) *fixture {
	t.Helper()
	t.Setenv(TokenEnv, "")
	database := testutil.NewTestDB(t)

	entryRepo := repository.NewSQLEntryRepo(database.Conn())
	store := service.NewEntryStore(entryRepo, testutil.NewTestUoW(database), 0)

	hash, err := auth.HashPasscode(testPasscode, bcrypt.MinCost)
	require.NoError(t, err)
	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-secret", PasscodeHash: hash})
	require.NoError(t, err)

	f := &fixture{
		db: database,
		fractions: testutil.NewTestEntry(
			testutil.WithDate("2024-06-10"), testutil.WithVolunteer("Sam"),
			testutil.WithKids("Ann", "Bo"), testutil.WithClass("Math"),
			testutil.WithTopic("Fractions"), testutil.WithHomework("p. 12"),
		),
		poems: testutil.NewTestEntry(
			testutil.WithDate("2024-06-12"), testutil.WithVolunteer("Sam"),
			testutil.WithKids("Ann"), testutil.WithClass("English"), testutil.WithTopic("Poems"),
		),
		plants: testutil.NewTestEntry(
			testutil.WithDate("2024-05-01"), testutil.WithVolunteer("Old Timer"),
			testutil.WithKids("Cy"), testutil.WithClass("Science"), testutil.WithTopic("Plants"),
		),
	}
	ctx := context.Background()
	for _, e := range []*domain.ProgressEntry{f.fractions, f.poems, f.plants} {
		require.NoError(t, entryRepo.Create(ctx, e))
	}
	require.NoError(t, store.Fetch(ctx, 0))

	f.app = &App{
		Store:    store,
		Profiles: service.NewProfileService(repository.NewSQLKidProfileRepo(database.Conn()), entryRepo),
		Issuer:   issuer,
		Config:   config.DefaultConfig(t.TempDir()),
		Now:      func() time.Time { return testNow },
	}
	return f
}

func (f *fixture) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := f.app.Issuer.Exchange(testPasscode)
	require.NoError(t, err)
	return token
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdWithInput(t, app, nil, args...)
}

func executeCmdWithInput(t *testing.T, app *App, in io.Reader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	if in != nil {
		root.SetIn(in)
	}
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- entry ---

func TestEntryList_FiltersAndPaginates(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "list", "--student", "an")
	require.NoError(t, err)
	assert.Contains(t, out, "Fractions")
	assert.Contains(t, out, "Poems")
	assert.NotContains(t, out, "Plants")
	assert.Contains(t, out, "Page 1 of 1 · 2 entries")

	out, err = executeCmd(t, f.app, "entry", "list", "-s", "an", "--per-page", "1", "--page", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Fractions", "newest first, so page 2 holds the older entry")
	assert.NotContains(t, out, "Poems")
	assert.Contains(t, out, "Page 2 of 2")
}

func TestEntryList_NoMatches(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "list", "--class", "math")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found.")
}

func TestEntryAdd_SingleSectionFromFlags(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "add",
		"--volunteer", "sam", "--date", "2024-06-14",
		"--kids", "ann, Dee", "--class", "Math", "--topic", "Decimals")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 1 entry for Sam on 2024-06-14")

	latest := f.app.Store.Entries()[0]
	assert.Equal(t, []string{"Ann", "Dee"}, latest.KidsTaught)
	assert.Equal(t, "Friday", latest.Day())
}

func TestEntryAdd_MultipleSections(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "add",
		"--volunteer", "Sam", "--date", "2024-06-14",
		"--section", "class=Math;topic=Decimals;kids=Ann",
		"--section", "class=Art;topic=Colour;kids=Bo,bo;homework=draw a tree")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 2 entries for Sam on 2024-06-14")

	entries := f.app.Store.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "Colour", entries[0].TopicTaught)
	assert.Equal(t, []string{"Bo"}, entries[0].KidsTaught)
	assert.Equal(t, "Decimals", entries[1].TopicTaught)
}

func TestEntryAdd_InvalidSectionWritesNothing(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "add",
		"--volunteer", "Sam", "--date", "2024-06-14",
		"--section", "class=Math;topic=Decimals;kids=Ann",
		"--section", "class=Art;kids=Bo")
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.NotEmpty(t, verr.Field("sections[1].topic_taught"))
	assert.Len(t, f.app.Store.Entries(), 3)
}

func TestEntryAdd_BadSectionSyntax(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "add", "--volunteer", "Sam", "--section", "class")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestEntryAdd_InteractiveNeedsTerminal(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "add", "-i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

const importJSON = `{
	"defaults": {"volunteer_name": "sam"},
	"submissions": [
		{"date": "2024-06-13", "volunteer_name": "Lee", "sections": [
			{"kids_taught": ["Ann"], "class": "Math", "topic_taught": "Decimals"}
		]},
		{"date": "2024-06-14", "sections": [
			{"kids_taught": ["Bo", "bo"], "class": "Art", "topic_taught": "Clay", "homework": "bring an apron"},
			{"kids_taught": ["Cy"], "class": "Science", "topic_taught": "Magnets"}
		]}
	]
}`

func TestEntryImport_FromStdin(t *testing.T) {
	f := testApp(t)

	out, err := executeCmdWithInput(t, f.app, strings.NewReader(importJSON), "entry", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 entries from 2 submissions")

	entries := f.app.Store.Entries()
	require.Len(t, entries, 6)
	assert.Equal(t, "2024-06-14", domain.FormatDate(entries[0].Date))
	assert.Equal(t, "Sam", entries[0].VolunteerName)
	assert.Equal(t, "Lee", entries[2].VolunteerName)
}

func TestEntryImport_FromFile(t *testing.T) {
	f := testApp(t)
	path := filepath.Join(t.TempDir(), "backfill.json")
	require.NoError(t, os.WriteFile(path, []byte(importJSON), 0o600))

	out, err := executeCmd(t, f.app, "entry", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 entries")
}

func TestEntryImport_DryRunWritesNothing(t *testing.T) {
	f := testApp(t)

	out, err := executeCmdWithInput(t, f.app, strings.NewReader(importJSON), "entry", "import", "-", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would import 3 entries from 2 submissions")
	assert.Len(t, f.app.Store.Entries(), 3)
}

func TestEntryImport_ReportsEveryProblem(t *testing.T) {
	f := testApp(t)
	bad := `{"submissions": [
		{"date": "2024-06-16", "volunteer_name": "Sam", "sections": [
			{"kids_taught": ["Ann"], "class": "Math"}
		]}
	]}`

	out, err := executeCmdWithInput(t, f.app, strings.NewReader(bad), "entry", "import", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import file has 2 problems")
	assert.Contains(t, out, "in the future")
	assert.Contains(t, out, "topic_taught is required")
	assert.Len(t, f.app.Store.Entries(), 3)
}

func TestEntryRefresh(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "refresh", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 entries")
	assert.Equal(t, 2, f.app.Store.Limit())
}

func TestEntryEdit_RequiresAdminToken(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "edit", f.fractions.ID, "--class", "Science")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	viewer, _, err := f.app.Issuer.Issue("viewer")
	require.NoError(t, err)
	_, err = executeCmd(t, f.app, "entry", "edit", f.fractions.ID, "--class", "Science", "--token", viewer)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestEntryEdit_ByIDPrefix(t *testing.T) {
	f := testApp(t)
	token := f.adminToken(t)

	out, err := executeCmd(t, f.app, "entry", "edit", f.fractions.ID[:8],
		"--date", "2024-06-11", "--class", "Science", "--token", token)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated entry "+f.fractions.ID+" (2024-06-11, Tuesday)")

	for _, e := range f.app.Store.Entries() {
		if e.ID == f.fractions.ID {
			assert.Equal(t, "Science", e.Class)
			assert.Equal(t, "Fractions", e.TopicTaught, "unchanged fields are kept")
		}
	}
}

func TestEntryEdit_TokenFromEnvironment(t *testing.T) {
	f := testApp(t)
	t.Setenv(TokenEnv, f.adminToken(t))

	_, err := executeCmd(t, f.app, "entry", "edit", f.poems.ID, "--topic", "Sonnets")
	require.NoError(t, err)
}

func TestEntryEdit_NothingToChange(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "edit", f.poems.ID, "--token", f.adminToken(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestEntryEdit_UnknownID(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "edit", "missing", "--class", "Art", "--token", f.adminToken(t))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryRemove(t *testing.T) {
	f := testApp(t)
	token := f.adminToken(t)

	_, err := executeCmd(t, f.app, "entry", "remove", f.poems.ID, "--token", token)
	require.Error(t, err, "no terminal and no --yes")
	assert.Contains(t, err.Error(), "--yes")
	assert.Len(t, f.app.Store.Entries(), 3)

	out, err := executeCmd(t, f.app, "entry", "rm", f.poems.ID, "--token", token, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted entry "+f.poems.ID)
	assert.Len(t, f.app.Store.Entries(), 2)
}

func TestEntryRemove_UnknownIDFails(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "remove", "zzzz-typo", "--yes", "--token", f.adminToken(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotContains(t, out, "Deleted entry")
	assert.Len(t, f.app.Store.Entries(), 3)
}

func TestEntryRemove_EntryOutsideLoadedWindow(t *testing.T) {
	f := testApp(t)
	old := testutil.NewTestEntry(testutil.WithDate("2023-01-05"))
	require.NoError(t, repository.NewSQLEntryRepo(f.db.Conn()).Create(context.Background(), old))

	out, err := executeCmd(t, f.app, "entry", "remove", old.ID, "--yes", "--token", f.adminToken(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted entry "+old.ID)
}

func TestEntryClear_KeepsCutoffDay(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "entry", "clear", "--before", "2024-06-10", "-y", "--token", f.adminToken(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 entry dated before 2024-06-10")

	remaining := f.app.Store.Entries()
	require.Len(t, remaining, 2)
	assert.Equal(t, f.poems.ID, remaining[0].ID)
	assert.Equal(t, f.fractions.ID, remaining[1].ID)
}

func TestEntryClear_RequiresBefore(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "entry", "clear", "--yes", "--token", f.adminToken(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before")
}

func TestAdminCommands_DisabledWithoutIssuer(t *testing.T) {
	f := testApp(t)
	f.app.Issuer = nil

	_, err := executeCmd(t, f.app, "entry", "remove", f.poems.ID, "--yes")
	assert.ErrorIs(t, err, errAuthDisabled)
}

// --- report ---

func TestReportStudents(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "report", "students")
	require.NoError(t, err)
	assert.Equal(t, "Ann\nBo\nCy\n", out)

	out, err = executeCmd(t, f.app, "report", "students", "-q", "B")
	require.NoError(t, err)
	assert.Equal(t, "Bo\n", out)
}

func TestReportStudent(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "report", "student", "ann")
	require.NoError(t, err)
	assert.Contains(t, out, "ANN")
	assert.Contains(t, out, "Sessions")
	assert.Contains(t, out, "2024-06-12  3d ago")
	assert.Contains(t, out, "p. 12")

	out, err = executeCmd(t, f.app, "report", "student", "Zed")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded for Zed.")
}

func TestReportVolunteers(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "report", "volunteers")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Sam")
	assert.Contains(t, lines[2], "12/06/24")
	assert.Contains(t, lines[2], "active")
	assert.Contains(t, lines[3], "Old Timer")
	assert.Contains(t, lines[3], "inactive")

	out, err = executeCmd(t, f.app, "report", "volunteers", "--sort", "recent", "--inactive")
	require.NoError(t, err)
	assert.Contains(t, out, "Old Timer")
	assert.NotContains(t, out, "Sam")

	_, err = executeCmd(t, f.app, "report", "volunteers", "--sort", "name")
	require.Error(t, err)
}

// --- export ---

func TestExport_DayToStdout(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "export", "--day", "2024-06-10", "--out", "-")
	require.NoError(t, err)
	want := "Student Name,Date,Day,Volunteer Name,Class,Topic Taught,Homework\n" +
		`"Ann","2024-06-10","Monday","Sam","Math","Fractions","p. 12"` + "\n" +
		`"Bo","2024-06-10","Monday","Sam","Math","Fractions","p. 12"` + "\n"
	assert.Equal(t, want, out)
}

func TestExport_MonthForStudentToFile(t *testing.T) {
	f := testApp(t)
	path := filepath.Join(t.TempDir(), "ann.csv")

	out, err := executeCmd(t, f.app, "export", "--month", "2024-06", "--student", "Ann", "--delimiter", ";", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 entries to "+path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Ann";"2024-06-10";"Monday";"Sam";"Math";"Fractions";"p. 12"`, lines[1])
	assert.Equal(t, `"Ann";"2024-06-12";"Wednesday";"Sam";"English";"Poems";""`, lines[2])
}

func TestExport_EmptyPeriod(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "export", "--day", "2024-06-11", "--stdout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no progress entries")

	_, err = executeCmd(t, f.app, "export", "--month", "June")
	require.Error(t, err)
}

// --- profile ---

func TestProfileList_CompletesClasses(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "__complete", "profile", "list", "--class", "")
	require.NoError(t, err)
	assert.Contains(t, out, "English\nMath\nScience\n:4\n")
}

func TestProfileSetAndList(t *testing.T) {
	f := testApp(t)

	out, err := executeCmd(t, f.app, "profile", "set", "ann", "--school", "Hill Primary")
	require.NoError(t, err)
	assert.Contains(t, out, "Created profile for Ann")

	out, err = executeCmd(t, f.app, "profile", "set", "Ann", "--phone", "555-0100")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated profile for Ann")

	out, err = executeCmd(t, f.app, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hill Primary")
	assert.Contains(t, out, "555-0100")
	assert.Contains(t, out, "Cy")
	assert.Contains(t, out, "unsaved")

	out, err = executeCmd(t, f.app, "profile", "list", "--contacts")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann")
	assert.NotContains(t, out, "Cy")
}

// --- auth ---

func TestAuthHash_ReadsStdin(t *testing.T) {
	f := testApp(t)

	out, err := executeCmdWithInput(t, f.app, strings.NewReader("s3cret\n"), "auth", "hash", "--cost", "4")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestAuthToken_Exchange(t *testing.T) {
	f := testApp(t)

	out, err := executeCmdWithInput(t, f.app, strings.NewReader(testPasscode+"\n"), "auth", "token")
	require.NoError(t, err)
	token := strings.SplitN(out, "\n", 2)[0]

	claims, err := f.app.Issuer.Authorize(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, claims.Can(auth.CapEntriesAdmin))

	_, err = executeCmdWithInput(t, f.app, strings.NewReader("wrong\n"), "auth", "token")
	assert.ErrorIs(t, err, auth.ErrInvalidPasscode)
}

// --- serve / browse ---

func TestServerOptions_LeavesAuthNilWithoutIssuer(t *testing.T) {
	f := testApp(t)

	opts := serverOptions(f.app, ":0", true)
	assert.NotNil(t, opts.Authorizer)
	assert.NotNil(t, opts.Exchanger)

	f.app.Issuer = nil
	opts = serverOptions(f.app, ":0", true)
	assert.Nil(t, opts.Authorizer)
	assert.Nil(t, opts.Exchanger)
}

func TestBrowse_NeedsTerminal(t *testing.T) {
	f := testApp(t)

	_, err := executeCmd(t, f.app, "browse")
	require.Error(t, err)
}
