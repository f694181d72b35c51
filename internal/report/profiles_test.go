package report

import (
	"testing"

	"github.com/alexanderramin/tutorlog/internal/domain"
	"github.com/alexanderramin/tutorlog/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFilterProfiles(t *testing.T) {
	profiles := []*domain.KidProfile{
		testutil.NewTestProfile("Alice", testutil.WithProfileClass("4th"), testutil.WithPhone("555")),
		testutil.NewTestProfile("Malik", testutil.WithProfileClass("5th")),
		testutil.NewTestProfile("Bob", testutil.WithProfileClass("4th"), testutil.WithSchool("Hill")),
	}

	assert.Len(t, FilterProfiles(profiles, "LI", ""), 2)
	assert.Len(t, FilterProfiles(profiles, "", "4th"), 2)
	assert.Len(t, FilterProfiles(profiles, "li", "5th"), 1)
	assert.Len(t, WithContacts(profiles), 2)
	assert.Equal(t, []string{"4th", "5th"}, ProfileClasses(profiles))
}
