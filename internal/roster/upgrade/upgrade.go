// Package upgrade implements the double-job rule: which track combinations a
// volunteer may move between, and under which actor. The rule is asymmetric
// and encoded as data so the asymmetry is visible and testable as a table,
// not buried in branching.
package upgrade

import (
	"time"

	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
)

type transition struct {
	visit bool
	roll  bool
	actor domain.Track
}

// transitions is the full rule. Only a visit-only volunteer acted on by a
// roll coordinator may gain the roll track; every other combination is
// forbidden. In particular a roll-only volunteer can never gain the visit
// track.
var transitions = map[transition]bool{
	{visit: true, roll: false, actor: domain.TrackRoll}: true,
}

// Eligible reports whether a volunteer with the given flags may be upgraded
// by an actor on the given track.
func Eligible(current models.TrackFlags, actor domain.Track) bool {
	return transitions[transition{visit: current.Visit, roll: current.Roll, actor: actor}]
}

// Apply grants the roll track and reparents the volunteer's roll coordinator
// pointer. Validated before any persistence write; there is no compensating
// rollback if skipped.
func Apply(rec *models.RoleRecord, rollCoordinatorID domain.PersonID, now time.Time) error {
	if rec.Kind != domain.RoleVolunteer {
		return dErrors.New(dErrors.CodeInvalidRoleTransition, "only volunteers can take a double job")
	}
	if !Eligible(rec.Tracks, domain.TrackRoll) {
		if rec.Tracks.Roll {
			return dErrors.New(dErrors.CodeInvalidRoleTransition, "volunteer already serves the roll track")
		}
		return dErrors.New(dErrors.CodeInvalidRoleTransition, "volunteer is not eligible for a roll-track upgrade")
	}
	rec.Tracks.Roll = true
	rec.RollCoordinatorID = &rollCoordinatorID
	rec.UpdatedAt = now
	return nil
}
