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

type professorDescriptor struct {
	Name             string   `yaml:"name" validate:"required"`
	Company          *string  `yaml:"company"`
	ContributorID    *string  `yaml:"contributor_id"`
	LightningAddress *string  `yaml:"lightning_address"`
	TwitterURL       *string  `yaml:"twitter_url"`
	GithubURL        *string  `yaml:"github_url"`
	NostrPubkey      *string  `yaml:"nostr_pubkey"`
	WebsiteURL       *string  `yaml:"website_url"`
	Tags             []string `yaml:"tags"`
}

type professorLocalizedMeta struct {
	ShortBio string `yaml:"short_bio"`
}

type professorImporter struct{}

func (professorImporter) Type() content.Type { return content.TypeProfessor }

func (professorImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing professor.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	var desc professorDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	professor := &models.Professor{
		ID:               path.Base(unit.Path),
		Name:             desc.Name,
		Company:          desc.Company,
		ContributorID:    desc.ContributorID,
		LightningAddress: desc.LightningAddress,
		TwitterURL:       desc.TwitterURL,
		GithubURL:        desc.GithubURL,
		NostrPubkey:      desc.NostrPubkey,
		WebsiteURL:       desc.WebsiteURL,
		SyncColumns:      syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(professor).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q,
		"name", "company", "contributor_id", "lightning_address",
		"twitter_url", "github_url", "nostr_pubkey", "website_url",
	).Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if professor.ID == "" {
		return errcodes.EntityNotFound("professor")
	}

	if err := replaceProfessorTags(ctx, tx, professor.ID, desc.Tags); err != nil {
		return err
	}

	for _, language := range unit.Languages() {
		if err := importProfessorLocalized(ctx, tx, professor.ID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importProfessorLocalized(ctx context.Context, tx bun.Tx, professorID, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.ProfessorLocalized)(nil)).
			Where("professor_id = ? AND language = ?", professorID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var meta professorLocalizedMeta
	body, err := content.DecodeFrontMatter(file.Data, &meta)
	if err != nil {
		return err
	}

	localized := &models.ProfessorLocalized{
		ProfessorID: professorID,
		Language:    language,
		Bio:         body,
		ShortBio:    meta.ShortBio,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (professor_id, language) DO UPDATE")
	q = upsertColumns(q, "bio", "short_bio")
	_, err = q.Exec(ctx)
	return errors.WithStack(err)
}
