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

type blogDescriptor struct {
	Author   string     `yaml:"author" validate:"required"`
	Category *string    `yaml:"category"`
	Date     *time.Time `yaml:"date"`
	Tags     []string   `yaml:"tags"`
}

type blogLocalizedMeta struct {
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
}

type blogImporter struct{}

func (blogImporter) Type() content.Type { return content.TypeBlog }

func (blogImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing blog.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	var desc blogDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	blog := &models.Blog{
		ID:          path.Base(unit.Path),
		Author:      desc.Author,
		Category:    desc.Category,
		Date:        desc.Date,
		SyncColumns: syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(blog).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q, "author", "category", "date").Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if blog.ID == "" {
		return errcodes.EntityNotFound("blog")
	}

	if err := replaceBlogTags(ctx, tx, blog.ID, desc.Tags); err != nil {
		return err
	}

	for _, language := range unit.Languages() {
		if err := importBlogLocalized(ctx, tx, blog.ID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importBlogLocalized(ctx context.Context, tx bun.Tx, blogID, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.BlogLocalized)(nil)).
			Where("blog_id = ? AND language = ?", blogID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var meta blogLocalizedMeta
	body, err := content.DecodeFrontMatter(file.Data, &meta)
	if err != nil {
		return err
	}
	if err := validate.Struct(&meta); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.BlogLocalized{
		BlogID:      blogID,
		Language:    language,
		Title:       meta.Title,
		Description: meta.Description,
		RawContent:  body,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (blog_id, language) DO UPDATE")
	q = upsertColumns(q, "title", "description", "raw_content")
	_, err = q.Exec(ctx)
	return errors.WithStack(err)
}
