package pipeline

import (
	"context"
	"path"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

type legalLocalizedMeta struct {
	Title string `yaml:"title" validate:"required"`
}

type legalImporter struct{}

func (legalImporter) Type() content.Type { return content.TypeLegal }

func (legalImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing legal.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	legal := &models.Legal{
		ID:          path.Base(unit.Path),
		SyncColumns: syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(legal).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q).Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if legal.ID == "" {
		return errcodes.EntityNotFound("legal document")
	}

	for _, language := range unit.Languages() {
		if err := importLegalLocalized(ctx, tx, legal.ID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importLegalLocalized(ctx context.Context, tx bun.Tx, legalID, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.LegalLocalized)(nil)).
			Where("legal_id = ? AND language = ?", legalID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var meta legalLocalizedMeta
	body, err := content.DecodeFrontMatter(file.Data, &meta)
	if err != nil {
		return err
	}
	if err := validate.Struct(&meta); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.LegalLocalized{
		LegalID:     legalID,
		Language:    language,
		Title:       meta.Title,
		RawContent:  body,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (legal_id, language) DO UPDATE")
	q = upsertColumns(q, "title", "raw_content")
	_, err = q.Exec(ctx)
	return errors.WithStack(err)
}
