package fixtures

import (
	"testing"

	"github.com/harperreed/nexus/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixturesDecode(t *testing.T) {
	contacts, err := Contacts()
	require.NoError(t, err)
	assert.NotEmpty(t, contacts)

	deals, err := Deals()
	require.NoError(t, err)
	assert.NotEmpty(t, deals)

	leads, err := Leads()
	require.NoError(t, err)
	assert.NotEmpty(t, leads)

	reps, err := SalesReps()
	require.NoError(t, err)
	assert.NotEmpty(t, reps)

	activities, err := Activities()
	require.NoError(t, err)
	assert.NotEmpty(t, activities)
}

func TestFixtureIdentifiersAreUnique(t *testing.T) {
	contacts, err := Contacts()
	require.NoError(t, err)
	assertUnique(t, contacts)

	deals, err := Deals()
	require.NoError(t, err)
	assertUnique(t, deals)

	leads, err := Leads()
	require.NoError(t, err)
	assertUnique(t, leads)

	activities, err := Activities()
	require.NoError(t, err)
	assertUnique(t, activities)
}

func TestFixtureDealsAreWellFormed(t *testing.T) {
	deals, err := Deals()
	require.NoError(t, err)

	sawNoRep := false
	for _, d := range deals {
		assert.True(t, d.Stage.Valid(), "deal %d has stage %q", d.ID, d.Stage)
		assert.GreaterOrEqual(t, d.Value, 0.0)
		if d.SalesRepID == nil {
			sawNoRep = true
		}
	}
	assert.True(t, sawNoRep, "fixtures should include a deal without a sales rep")
}

func TestFixturesReturnFreshCopies(t *testing.T) {
	first, err := Contacts()
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := Contacts()
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Name)
}

func assertUnique[T interface{ Identifier() models.ID }](t *testing.T, records []T) {
	t.Helper()
	seen := make(map[models.ID]bool)
	for _, r := range records {
		assert.False(t, seen[r.Identifier()], "duplicate id %d", r.Identifier())
		seen[r.Identifier()] = true
	}
}
