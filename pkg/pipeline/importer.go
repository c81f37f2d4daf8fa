package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

// Run carries per-run state shared by all importers. StartedAt doubles as the
// sync watermark: every row touched this run gets last_sync = StartedAt, and
// the reaper later removes rows below it.
type Run struct {
	StartedAt time.Time
	Report    *Report
}

// importer imports one content unit inside its own transaction. A returned
// error rolls the unit back and is recorded against the unit's path; sibling
// units are unaffected.
type importer interface {
	Type() content.Type
	Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error
}

// syncColumns derives the durable bookkeeping for a set of source files:
// last_updated is the newest file mtime, last_commit the commit of that file,
// last_sync the run watermark.
func syncColumns(files []content.ChangedFile, run *Run) models.SyncColumns {
	cols := models.SyncColumns{LastSync: run.StartedAt}
	for _, f := range files {
		if f.Time.After(cols.LastUpdated) {
			cols.LastUpdated = f.Time
			cols.LastCommit = f.Commit
		}
	}
	return cols
}

// upsertColumns builds the DO UPDATE SET clause for the given columns plus
// the sync columns.
func upsertColumns(q *bun.InsertQuery, cols ...string) *bun.InsertQuery {
	for _, col := range append(cols, models.SyncColumnNames...) {
		q = q.Set(col + " = EXCLUDED." + col)
	}
	return q
}

// resolveTags maps tag names to ids, inserting missing tags. Names are
// lowercased and deduplicated so "Bitcoin" and "bitcoin" share one row.
func resolveTags(ctx context.Context, tx bun.Tx, names []string) ([]int, error) {
	seen := map[string]bool{}
	ids := make([]int, 0, len(names))

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag := &models.Tag{Name: name}
		_, err := tx.NewInsert().
			Model(tag).
			On("CONFLICT (name) DO UPDATE").
			Set("name = EXCLUDED.name").
			Returning("id").
			Exec(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// replaceProfessorTags swaps a professor's tag set wholesale.
func replaceProfessorTags(ctx context.Context, tx bun.Tx, professorID string, names []string) error {
	_, err := tx.NewDelete().
		Model((*models.ProfessorTag)(nil)).
		Where("professor_id = ?", professorID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	ids, err := resolveTags(ctx, tx, names)
	if err != nil {
		return err
	}
	for _, id := range ids {
		link := &models.ProfessorTag{ProfessorID: professorID, TagID: id}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func replaceTutorialTags(ctx context.Context, tx bun.Tx, tutorialID string, names []string) error {
	_, err := tx.NewDelete().
		Model((*models.TutorialTag)(nil)).
		Where("tutorial_id = ?", tutorialID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	ids, err := resolveTags(ctx, tx, names)
	if err != nil {
		return err
	}
	for _, id := range ids {
		link := &models.TutorialTag{TutorialID: tutorialID, TagID: id}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func replaceResourceTags(ctx context.Context, tx bun.Tx, resourceID int, names []string) error {
	_, err := tx.NewDelete().
		Model((*models.ResourceTag)(nil)).
		Where("resource_id = ?", resourceID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	ids, err := resolveTags(ctx, tx, names)
	if err != nil {
		return err
	}
	for _, id := range ids {
		link := &models.ResourceTag{ResourceID: resourceID, TagID: id}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func replaceBlogTags(ctx context.Context, tx bun.Tx, blogID string, names []string) error {
	_, err := tx.NewDelete().
		Model((*models.BlogTag)(nil)).
		Where("blog_id = ?", blogID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	ids, err := resolveTags(ctx, tx, names)
	if err != nil {
		return err
	}
	for _, id := range ids {
		link := &models.BlogTag{BlogID: blogID, TagID: id}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// upsertResource claims the shared resources row for a subtype importer and
// returns its id.
func upsertResource(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) (int, error) {
	resource := &models.Resource{
		Path:        unit.Path,
		Category:    unit.Category,
		SyncColumns: syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(resource).
		On("CONFLICT (path) DO UPDATE")
	q = upsertColumns(q, "category").Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return 0, errors.WithStack(err)
	}
	return resource.ID, nil
}
