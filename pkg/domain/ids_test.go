package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNationalID(t *testing.T) {
	t.Run("accepts sixteen digits", func(t *testing.T) {
		nid, err := ParseNationalID("3174051201990001")
		assert.NoError(t, err)
		assert.Equal(t, "3174051201990001", nid.String())
	})

	t.Run("rejects short values", func(t *testing.T) {
		_, err := ParseNationalID("123456789")
		assert.Error(t, err)
	})

	t.Run("rejects non-digits", func(t *testing.T) {
		_, err := ParseNationalID("31740512019900ab")
		assert.Error(t, err)
	})

	t.Run("rejects seventeen digits", func(t *testing.T) {
		_, err := ParseNationalID(strings.Repeat("1", 17))
		assert.Error(t, err)
	})
}

func TestParseRoleKind(t *testing.T) {
	for _, valid := range []string{"visit_coordinator", "roll_coordinator", "volunteer"} {
		kind, err := ParseRoleKind(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, string(kind))
	}

	_, err := ParseRoleKind("supervisor")
	assert.Error(t, err)

	assert.True(t, RoleVisitCoordinator.IsCoordinator())
	assert.True(t, RoleRollCoordinator.IsCoordinator())
	assert.False(t, RoleVolunteer.IsCoordinator())
}

func TestParseTrack(t *testing.T) {
	track, err := ParseTrack("visit")
	assert.NoError(t, err)
	assert.Equal(t, TrackVisit, track)

	_, err = ParseTrack("phone")
	assert.Error(t, err)
}

func TestTypedIDs(t *testing.T) {
	id := NewPersonID()
	assert.False(t, id.IsNil())

	parsed, err := ParsePersonID(id.String())
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParsePersonID("not-a-uuid")
	assert.Error(t, err)

	assert.True(t, PersonID{}.IsNil())
}
