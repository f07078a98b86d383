package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

func validIdentity(t *testing.T) Identity {
	t.Helper()
	id, err := domain.ParseNationalID("3171010101010001")
	require.NoError(t, err)
	return Identity{NationalID: id, Name: "Budi Santoso"}
}

func coordinatorScope() Scope {
	return Scope{
		CampaignID: domain.NewCampaignID(),
		Region:     Region{Province: "31", Village: "3171011001"},
	}
}

func TestNewCoordinator(t *testing.T) {
	now := time.Now()

	t.Run("creates an inactive alive record", func(t *testing.T) {
		rec, err := NewCoordinator(domain.RoleVisitCoordinator, validIdentity(t), coordinatorScope(), Account{}, now)
		require.NoError(t, err)
		assert.Equal(t, StatusInactive, rec.Status)
		assert.Equal(t, LifecycleInactive, rec.Lifecycle())
		assert.True(t, rec.IsAlive())
	})

	t.Run("rejects the volunteer kind", func(t *testing.T) {
		_, err := NewCoordinator(domain.RoleVolunteer, validIdentity(t), coordinatorScope(), Account{}, now)
		require.Error(t, err)
	})

	t.Run("requires a village", func(t *testing.T) {
		scope := coordinatorScope()
		scope.Region.Village = ""
		_, err := NewCoordinator(domain.RoleRollCoordinator, validIdentity(t), scope, Account{}, now)
		require.Error(t, err)
	})
}

func TestNewVolunteer(t *testing.T) {
	now := time.Now()
	coordID := domain.NewPersonID()

	t.Run("requires at least one track", func(t *testing.T) {
		_, err := NewVolunteer(validIdentity(t), TrackFlags{}, coordinatorScope(), Account{}, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidRoleTransition))
	})

	t.Run("a set track requires the matching coordinator", func(t *testing.T) {
		_, err := NewVolunteer(validIdentity(t), TrackFlags{Visit: true}, coordinatorScope(), Account{}, now)
		require.Error(t, err)

		scope := coordinatorScope()
		scope.VisitCoordinatorID = &coordID
		_, err = NewVolunteer(validIdentity(t), TrackFlags{Visit: true, Roll: true}, scope, Account{}, now)
		require.Error(t, err)
	})

	t.Run("creates a volunteer under its coordinators", func(t *testing.T) {
		scope := coordinatorScope()
		scope.VisitCoordinatorID = &coordID
		rec, err := NewVolunteer(validIdentity(t), TrackFlags{Visit: true}, scope, Account{}, now)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleVolunteer, rec.Kind)
		assert.Equal(t, coordID, *rec.VisitCoordinatorID)
	})
}

func TestLifecycleTransitions(t *testing.T) {
	now := time.Now()
	rec, err := NewCoordinator(domain.RoleVisitCoordinator, validIdentity(t), coordinatorScope(), Account{}, now)
	require.NoError(t, err)

	t.Run("soft delete cascades to the account", func(t *testing.T) {
		require.NoError(t, rec.CanSoftDelete())
		rec.ApplySoftDelete(now)
		assert.Equal(t, LifecycleDeleted, rec.Lifecycle())
		assert.False(t, rec.IsAlive())
		assert.NotNil(t, rec.Account.DeletedAt)

		err := rec.CanSoftDelete()
		require.Error(t, err)
	})

	t.Run("restore rewrites the scope and re-enters inactive", func(t *testing.T) {
		require.NoError(t, rec.CanRestore())

		newScope := Scope{
			CampaignID: domain.NewCampaignID(),
			Region:     Region{Province: "32", Village: "3273011001"},
		}
		later := now.Add(time.Hour)
		rec.ApplyRestore(newScope, later)

		assert.True(t, rec.IsAlive())
		assert.Equal(t, StatusInactive, rec.Status)
		assert.Equal(t, newScope.CampaignID, rec.CampaignID)
		assert.Equal(t, "3273011001", rec.Region.Village)
		assert.Nil(t, rec.Account.DeletedAt)

		err := rec.CanRestore()
		require.Error(t, err)
	})
}
