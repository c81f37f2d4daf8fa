package pipeline

import (
	"context"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

type eventDescriptor struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name" validate:"required"`
	Type           string     `yaml:"type" validate:"required"`
	Description    string     `yaml:"description"`
	StartDate      *time.Time `yaml:"start_date"`
	EndDate        *time.Time `yaml:"end_date"`
	Timezone       *string    `yaml:"timezone"`
	PriceDollars   *int       `yaml:"price_dollars"`
	AvailableSeats *int       `yaml:"available_seats"`
	Online         bool       `yaml:"online"`
	InPerson       bool       `yaml:"in_person"`
	Address        *string    `yaml:"address"`
	WebsiteURL     *string    `yaml:"website_url"`
	ReplayURL      *string    `yaml:"replay_url"`
	Languages      []string   `yaml:"languages" validate:"dive,language"`
}

type eventImporter struct{}

func (eventImporter) Type() content.Type { return content.TypeEvent }

func (eventImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing event.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	var desc eventDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	id := desc.ID
	if id == "" {
		id = path.Base(unit.Path)
	}

	event := &models.Event{
		ID:             id,
		Name:           desc.Name,
		Type:           desc.Type,
		Description:    desc.Description,
		StartDate:      desc.StartDate,
		EndDate:        desc.EndDate,
		Timezone:       desc.Timezone,
		PriceDollars:   desc.PriceDollars,
		AvailableSeats: desc.AvailableSeats,
		IsOnline:       desc.Online,
		IsInPerson:     desc.InPerson,
		Address:        desc.Address,
		WebsiteURL:     desc.WebsiteURL,
		ReplayURL:      desc.ReplayURL,
		SyncColumns:    syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(event).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q,
		"name", "type", "description", "start_date", "end_date", "timezone",
		"price_dollars", "available_seats", "is_online", "is_in_person",
		"address", "website_url", "replay_url",
	).Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if event.ID == "" {
		return errcodes.EntityNotFound("event")
	}

	// Language availability is replaced wholesale per import. The set is the
	// union of the descriptor's declared languages and the unit's
	// per-language variant files.
	languages := map[string]bool{}
	for _, language := range desc.Languages {
		languages[language] = true
	}
	for _, language := range unit.Languages() {
		for _, f := range unit.LanguageFiles[language] {
			if f.Kind != content.FileRemoved {
				languages[language] = true
			}
		}
	}

	_, err := tx.NewDelete().
		Model((*models.EventLanguage)(nil)).
		Where("event_id = ?", event.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	for language := range languages {
		row := &models.EventLanguage{EventID: event.ID, Language: language}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
