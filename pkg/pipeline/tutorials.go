package pipeline

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

type tutorialCreditDescriptor struct {
	Professor        *string `yaml:"professor"`
	Name             *string `yaml:"name"`
	Link             *string `yaml:"link"`
	LightningAddress *string `yaml:"lightning_address"`
}

type tutorialDescriptor struct {
	Name             string                     `yaml:"name" validate:"required"`
	Level            string                     `yaml:"level" validate:"required,oneof=beginner intermediate advanced expert"`
	OriginalLanguage *string                    `yaml:"original_language" validate:"omitempty,language"`
	Builder          *string                    `yaml:"builder"`
	Tags             []string                   `yaml:"tags"`
	Credits          []tutorialCreditDescriptor `yaml:"credits"`
}

type tutorialLocalizedMeta struct {
	Title       string   `yaml:"title" validate:"required"`
	Description string   `yaml:"description"`
	Proofreads  []string `yaml:"proofreading"`
}

type tutorialImporter struct{}

func (tutorialImporter) Type() content.Type { return content.TypeTutorial }

func (tutorialImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing tutorial.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	var desc tutorialDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	// tutorials/<category>/<name>[/...]
	category := strings.Split(unit.Path, "/")[1]

	tutorial := &models.Tutorial{
		ID:               slug.Make(category + "-" + desc.Name),
		Path:             unit.Path,
		Category:         category,
		Name:             desc.Name,
		Level:            desc.Level,
		OriginalLanguage: desc.OriginalLanguage,
		BuilderName:      desc.Builder,
		SyncColumns:      syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(tutorial).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q, "path", "category", "name", "level", "original_language", "builder_name").Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if tutorial.ID == "" {
		return errcodes.EntityNotFound("tutorial")
	}

	if err := replaceTutorialTags(ctx, tx, tutorial.ID, desc.Tags); err != nil {
		return err
	}
	if err := replaceTutorialCredits(ctx, tx, tutorial.ID, desc.Credits); err != nil {
		return err
	}

	// Proofread rows rebuild from the localized files below.
	_, err := tx.NewDelete().
		Model((*models.TutorialProofread)(nil)).
		Where("tutorial_id = ?", tutorial.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, language := range unit.Languages() {
		if err := importTutorialLocalized(ctx, tx, tutorial.ID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func replaceTutorialCredits(ctx context.Context, tx bun.Tx, tutorialID string, credits []tutorialCreditDescriptor) error {
	_, err := tx.NewDelete().
		Model((*models.TutorialCredit)(nil)).
		Where("tutorial_id = ?", tutorialID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, c := range credits {
		credit := &models.TutorialCredit{
			TutorialID:       tutorialID,
			ProfessorID:      c.Professor,
			Name:             c.Name,
			Link:             c.Link,
			LightningAddress: c.LightningAddress,
		}
		if _, err := tx.NewInsert().Model(credit).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func importTutorialLocalized(ctx context.Context, tx bun.Tx, tutorialID, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.TutorialLocalized)(nil)).
			Where("tutorial_id = ? AND language = ?", tutorialID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var meta tutorialLocalizedMeta
	body, err := content.DecodeFrontMatter(file.Data, &meta)
	if err != nil {
		return err
	}
	if err := validate.Struct(&meta); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.TutorialLocalized{
		TutorialID:  tutorialID,
		Language:    language,
		Title:       meta.Title,
		Description: meta.Description,
		RawContent:  body,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (tutorial_id, language) DO UPDATE")
	q = upsertColumns(q, "title", "description", "raw_content")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}

	for _, contributor := range meta.Proofreads {
		row := &models.TutorialProofread{
			TutorialID:  tutorialID,
			Language:    language,
			Contributor: contributor,
		}
		if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
