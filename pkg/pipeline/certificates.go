package pipeline

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

type certEditionDescriptor struct {
	Name            string     `yaml:"name" validate:"required"`
	Date            *time.Time `yaml:"date"`
	Location        string     `yaml:"location"`
	DurationMinutes *int       `yaml:"duration_minutes"`
	MinScore        *int       `yaml:"min_score"`
}

type certResultEntry struct {
	Username string `yaml:"username" validate:"required"`
	Score    int    `yaml:"score" validate:"min=0,max=100"`
	Passed   *bool  `yaml:"passed"`
}

type certResultsFile struct {
	Results []certResultEntry `yaml:"results" validate:"dive"`
}

type certificateImporter struct{}

func (certificateImporter) Type() content.Type { return content.TypeBCertificate }

func (certificateImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing edition.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	var desc certEditionDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	edition := &models.BCertEdition{
		ID:              path.Base(unit.Path),
		Name:            desc.Name,
		Date:            desc.Date,
		Location:        desc.Location,
		DurationMinutes: desc.DurationMinutes,
		MinScore:        desc.MinScore,
		SyncColumns:     syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(edition).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q, "name", "date", "location", "duration_minutes", "min_score").Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if edition.ID == "" {
		return errcodes.EntityNotFound("certificate edition")
	}

	results, ok := findUnitFile(unit, "results.yml")
	if !ok {
		// An edition can legitimately precede its results.
		return nil
	}
	return importCertResults(ctx, tx, edition, results)
}

func findUnitFile(unit *content.Unit, name string) (*content.ChangedFile, bool) {
	for i := range unit.Files {
		if strings.HasSuffix(unit.Files[i].Path, "/"+name) && unit.Files[i].Kind != content.FileRemoved {
			return &unit.Files[i], true
		}
	}
	return nil, false
}

// importCertResults replaces the edition's whole result set. Pass/fail falls
// back to the edition's minimum score when the entry doesn't say.
func importCertResults(ctx context.Context, tx bun.Tx, edition *models.BCertEdition, file *content.ChangedFile) error {
	var doc certResultsFile
	if err := content.DecodeDescriptor(file.Data, &doc); err != nil {
		return err
	}
	if err := validate.Struct(&doc); err != nil {
		return errors.WithStack(err)
	}

	_, err := tx.NewDelete().
		Model((*models.BCertResult)(nil)).
		Where("edition_id = ?", edition.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	for _, entry := range doc.Results {
		passed := false
		switch {
		case entry.Passed != nil:
			passed = *entry.Passed
		case edition.MinScore != nil:
			passed = entry.Score >= *edition.MinScore
		}

		result := &models.BCertResult{
			EditionID: edition.ID,
			Username:  entry.Username,
			Score:     entry.Score,
			Passed:    passed,
		}
		if _, err := tx.NewInsert().Model(result).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
