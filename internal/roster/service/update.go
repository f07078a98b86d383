package service

import (
	"context"
	"errors"
	"time"

	"canvass/internal/audit"
	"canvass/internal/notify"
	"canvass/internal/roster/models"
	"canvass/pkg/domain"
	dErrors "canvass/pkg/domain-errors"
	"canvass/pkg/platform/sentinel"
	"canvass/pkg/requestcontext"
)

// UpdateFields carries the mutable person attributes. Nil means unchanged.
type UpdateFields struct {
	Name       *string
	Phone      *string
	Address    *string
	NationalID *domain.NationalID
	Status     *models.Status
}

// UpdatePerson mutates a record's person fields. A display-name change
// rotates the paired credential and the returned plaintext is non-empty
// exactly in that case. A national-ID change re-runs the clash check
// excluding the record's own id.
func (s *Service) UpdatePerson(ctx context.Context, id domain.PersonID, fields UpdateFields) (*models.RoleRecord, string, error) {
	ctx, span := s.tracer.Start(ctx, "roster.UpdatePerson")
	defer span.End()

	var (
		rec   *models.RoleRecord
		plain string
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)

		var err error
		rec, err = s.store.FindByID(txCtx, id)
		if err != nil {
			return notFoundOrInternal(err, "role record not found", "failed to load role record")
		}
		if !rec.IsAlive() {
			return dErrors.New(dErrors.CodeNotFound, "role record is deleted")
		}

		if fields.NationalID != nil && *fields.NationalID != rec.NationalID {
			if err := s.checkIdentityClashExcluding(txCtx, *fields.NationalID, rec.ID); err != nil {
				return err
			}
		}

		diffs := applyFields(rec, fields, now)
		if len(diffs) == 0 {
			return nil
		}

		renamed := fields.Name != nil && hasDiff(diffs, "name")
		if renamed {
			rec.Account.DisplayName = rec.Name
			var hash string
			plain, hash, err = s.credentials.Rotate(txCtx, rec.Account.ID, now)
			if err != nil {
				return err
			}
			rec.Account.PasswordHash = hash
			rec.Account.UpdatedAt = now
		}

		if err := s.store.Update(txCtx, rec); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeDuplicateIdentity, "national id is already registered to an active record")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update role record")
		}

		s.emitAudit(txCtx, audit.Event{
			Action:     string(audit.EventPersonUpdated),
			TargetKind: string(rec.Kind),
			TargetName: rec.Name,
			FieldDiffs: diffs,
		})
		if renamed {
			s.emitAudit(txCtx, audit.Event{
				Action:     string(audit.EventCredentialRotated),
				TargetKind: string(rec.Kind),
				TargetName: rec.Name,
				Meta:       map[string]string{"reason": "rename"},
			})
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	if plain != "" {
		if s.metrics != nil {
			s.metrics.CredentialRotations.Inc()
		}
		s.dispatch(ctx, notify.Notification{
			Kind:      notify.KindCredentialRotated,
			Recipient: rec.Name,
			Phone:     rec.Phone,
			Email:     rec.Account.Email,
			Password:  plain,
		})
	}
	return rec, plain, nil
}

// checkIdentityClashExcluding fails when the national ID is held by a
// different alive record.
func (s *Service) checkIdentityClashExcluding(ctx context.Context, nationalID domain.NationalID, self domain.PersonID) error {
	holder, err := s.registry.FindActiveByNationalID(ctx, nationalID)
	if err == nil {
		if holder.ID != self {
			return dErrors.New(dErrors.CodeDuplicateIdentity, "national id is already registered to an active record")
		}
		return nil
	}
	if !isNotFound(err) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check identity")
	}
	return nil
}

func applyFields(rec *models.RoleRecord, fields UpdateFields, now time.Time) []audit.FieldDiff {
	var diffs []audit.FieldDiff
	set := func(field, old, next string, apply func()) {
		if old == next {
			return
		}
		diffs = append(diffs, audit.FieldDiff{Field: field, Old: old, New: next})
		apply()
	}

	if fields.Name != nil {
		set("name", rec.Name, *fields.Name, func() { rec.Name = *fields.Name })
	}
	if fields.Phone != nil {
		set("phone", rec.Phone, *fields.Phone, func() { rec.Phone = *fields.Phone })
	}
	if fields.Address != nil {
		set("address", rec.Address, *fields.Address, func() { rec.Address = *fields.Address })
	}
	if fields.NationalID != nil {
		set("national_id", maskNationalID(rec.NationalID), maskNationalID(*fields.NationalID),
			func() { rec.NationalID = *fields.NationalID })
	}
	if fields.Status != nil {
		set("status", string(rec.Status), string(*fields.Status),
			func() { rec.Status = *fields.Status })
	}
	if len(diffs) > 0 {
		rec.UpdatedAt = now
	}
	return diffs
}

func hasDiff(diffs []audit.FieldDiff, field string) bool {
	for _, d := range diffs {
		if d.Field == field {
			return true
		}
	}
	return false
}
