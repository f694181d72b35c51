package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/repository"
	"github.com/alexanderramin/tutorlog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEntries []*domain.ProgressEntry

func (s staticEntries) ListAll(context.Context) ([]*domain.ProgressEntry, error) { return s, nil }

type brokenEntries struct{}

func (brokenEntries) ListAll(context.Context) ([]*domain.ProgressEntry, error) {
	return nil, errors.New("connection refused")
}

func TestProfileService_ListMergesSavedAndSeenNames(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := repository.NewSQLKidProfileRepo(database.Conn())
	ctx := context.Background()

	require.NoError(t, profiles.Create(ctx, testutil.NewTestProfile("Bob", testutil.WithPhone("555-0100"))))
	require.NoError(t, profiles.Create(ctx, testutil.NewTestProfile("Dev", testutil.WithProfileClass("6th"))))

	entries := staticEntries{
		testutil.NewTestEntry(testutil.WithKids("bob", "Cara"), testutil.WithClass("")),
		testutil.NewTestEntry(testutil.WithKids("Cara", " alice ", "Dev"), testutil.WithClass("4th")),
	}
	svc := NewProfileService(profiles, entries)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, "alice", list[0].Name)
	assert.True(t, list[0].IsPlaceholder())
	assert.Equal(t, "4th", list[0].ClassName)

	assert.Equal(t, "Bob", list[1].Name, "saved casing wins over casing seen in entries")
	assert.False(t, list[1].IsPlaceholder())
	assert.Equal(t, "555-0100", list[1].Phone)
	assert.Empty(t, list[1].ClassName)

	assert.Equal(t, "Cara", list[2].Name)
	assert.Equal(t, "4th", list[2].ClassName, "first non-empty class seen")

	assert.Equal(t, "Dev", list[3].Name)
	assert.Equal(t, "6th", list[3].ClassName, "saved class is kept")
}

func TestProfileService_ListIncludesStudentsOutsideFetchWindow(t *testing.T) {
	database := testutil.NewTestDB(t)
	entryRepo := repository.NewSQLEntryRepo(database.Conn())
	ctx := context.Background()

	seed(t, database, testutil.NewTestEntry(testutil.WithDate("2023-01-01"), testutil.WithKids("Zed"), testutil.WithClass("5th")))
	for i := 0; i < DefaultFetchLimit; i++ {
		seed(t, database, testutil.NewTestEntry(
			testutil.WithDate(fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1)),
			testutil.WithKids("Ann"),
		))
	}

	store := NewEntryStore(entryRepo, testutil.NewTestUoW(database), 0)
	require.NoError(t, store.Fetch(ctx, 0))
	for _, e := range store.Entries() {
		require.NotContains(t, e.KidsTaught, "Zed")
	}

	svc := NewProfileService(repository.NewSQLKidProfileRepo(database.Conn()), entryRepo)
	list, err := svc.List(ctx)
	require.NoError(t, err)

	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Ann", "Zed"}, names)
	assert.Equal(t, "5th", list[1].ClassName)
}

func TestProfileService_ListReportsEntryLoadFailure(t *testing.T) {
	svc := NewProfileService(repository.NewSQLKidProfileRepo(testutil.NewTestDB(t).Conn()), brokenEntries{})

	_, err := svc.List(context.Background())
	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestProfileService_SaveInsertsThenUpdates(t *testing.T) {
	database := testutil.NewTestDB(t)
	profiles := repository.NewSQLKidProfileRepo(database.Conn())
	svc := NewProfileService(profiles, staticEntries{})
	ctx := context.Background()

	saved, err := svc.Save(ctx, &domain.KidProfile{Name: "  Alice ", School: "Hill"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Alice", saved.Name)

	saved.Phone = "555-0101"
	_, err = svc.Save(ctx, saved)
	require.NoError(t, err)

	fetched, err := profiles.GetByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "555-0101", fetched.Phone)
	assert.Equal(t, "Hill", fetched.School)
}

func TestProfileService_SaveRequiresName(t *testing.T) {
	svc := NewProfileService(repository.NewSQLKidProfileRepo(testutil.NewTestDB(t).Conn()), staticEntries{})

	_, err := svc.Save(context.Background(), &domain.KidProfile{Name: " "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Field("name"))
}
