package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/models"
)

// geocodePending resolves coordinates for every event and builder that has
// an address but no place id yet. Sequential and best-effort: a miss or a
// lookup failure becomes a warning and the row stays unresolved, to be
// retried on the next run.
func (svc *Service) geocodePending(ctx context.Context, run *Run) error {
	var events []*models.Event
	err := svc.db.NewSelect().
		Model(&events).
		Where("address IS NOT NULL AND address != ''").
		Where("place_id IS NULL").
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, event := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result, err := svc.geocoder.Geocode(ctx, *event.Address)
		if err != nil {
			run.Report.addWarning("events/"+event.ID, errors.Wrap(err, "geocoding failed"))
			continue
		}
		_, err = svc.db.NewUpdate().
			Model(event).
			Set("place_id = ?", result.PlaceID).
			Set("latitude = ?", result.Latitude).
			Set("longitude = ?", result.Longitude).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	var builders []*models.Builder
	err = svc.db.NewSelect().
		Model(&builders).
		Where("address IS NOT NULL AND address != ''").
		Where("place_id IS NULL").
		Scan(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, builder := range builders {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		result, err := svc.geocoder.Geocode(ctx, *builder.Address)
		if err != nil {
			run.Report.addWarning("builders/"+builder.Name, errors.Wrap(err, "geocoding failed"))
			continue
		}
		_, err = svc.db.NewUpdate().
			Model(builder).
			Set("place_id = ?", result.PlaceID).
			Set("latitude = ?", result.Latitude).
			Set("longitude = ?", result.Longitude).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
