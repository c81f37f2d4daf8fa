package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/binder"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

// validate checks parsed descriptors. Separate from the binder's instance
// because descriptors use yaml field names, not json.
var validate = newDescriptorValidator()

func newDescriptorValidator() *validator.Validate {
	v := validator.New()
	binder.RegisterCustomValidations(v)
	return v
}

type courseChapterDescriptor struct {
	Part           int        `yaml:"part" validate:"min=0"`
	Chapter        int        `yaml:"chapter" validate:"min=0"`
	AvailableSeats *int       `yaml:"available_seats"`
	StartDate      *time.Time `yaml:"start_date"`
	EndDate        *time.Time `yaml:"end_date"`
	Address        *string    `yaml:"address"`
}

type courseDescriptor struct {
	ID               string                    `yaml:"id" validate:"required"`
	Level            string                    `yaml:"level" validate:"required,oneof=beginner intermediate advanced expert"`
	Hours            float64                   `yaml:"hours" validate:"min=0"`
	RequiresPayment  bool                      `yaml:"requires_payment"`
	PaidPriceDollars *int                      `yaml:"paid_price_dollars"`
	Contact          *string                   `yaml:"contact"`
	Online           bool                      `yaml:"online"`
	StartDate        *time.Time                `yaml:"start_date"`
	EndDate          *time.Time                `yaml:"end_date"`
	Professors       []string                  `yaml:"professors"`
	Chapters         []courseChapterDescriptor `yaml:"chapters" validate:"dive"`
}

type courseLocalizedMeta struct {
	Name       string   `yaml:"name" validate:"required"`
	Goal       string   `yaml:"goal"`
	Objectives []string `yaml:"objectives"`
}

type courseImporter struct{}

func (courseImporter) Type() content.Type { return content.TypeCourse }

func (courseImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing course.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		// Absence is handled by the reaper; an explicit removal just skips
		// the unit so its rows go stale.
		return nil
	}

	var desc courseDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	course := &models.Course{
		ID:               desc.ID,
		Level:            desc.Level,
		Hours:            desc.Hours,
		RequiresPayment:  desc.RequiresPayment,
		PaidPriceDollars: desc.PaidPriceDollars,
		Contact:          desc.Contact,
		Online:           desc.Online,
		StartDate:        desc.StartDate,
		EndDate:          desc.EndDate,
		SyncColumns:      syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(course).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q,
		"level", "hours", "requires_payment", "paid_price_dollars",
		"contact", "online", "start_date", "end_date",
	).Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if course.ID == "" {
		return errcodes.EntityNotFound("course")
	}

	// Professor links are replaced wholesale.
	_, err := tx.NewDelete().
		Model((*models.CourseProfessor)(nil)).
		Where("course_id = ?", course.ID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	for _, professorID := range desc.Professors {
		link := &models.CourseProfessor{CourseID: course.ID, ProfessorID: professorID}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}

	if err := upsertCourseChapters(ctx, tx, course.ID, desc.Chapters, unit, run); err != nil {
		return err
	}

	for _, language := range unit.Languages() {
		if err := importCourseLocalized(ctx, tx, course.ID, language, unit.LanguageFiles[language], run); err != nil {
			// One broken translation must not block the others.
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

// upsertCourseChapters keeps chapter identity on (course_id, part, chapter)
// so bookings survive re-imports. Chapters dropped from the descriptor go
// stale and fall to the reaper.
func upsertCourseChapters(ctx context.Context, tx bun.Tx, courseID string, chapters []courseChapterDescriptor, unit *content.Unit, run *Run) error {
	for _, ch := range chapters {
		chapter := &models.CourseChapter{
			CourseID:       courseID,
			Part:           ch.Part,
			Chapter:        ch.Chapter,
			AvailableSeats: ch.AvailableSeats,
			StartDate:      ch.StartDate,
			EndDate:        ch.EndDate,
			Address:        ch.Address,
			SyncColumns:    syncColumns(unit.Files, run),
		}
		q := tx.NewInsert().
			Model(chapter).
			On("CONFLICT (course_id, part, chapter) DO UPDATE")
		q = upsertColumns(q, "available_seats", "start_date", "end_date", "address")
		if _, err := q.Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func importCourseLocalized(ctx context.Context, tx bun.Tx, courseID, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.CourseLocalized)(nil)).
			Where("course_id = ? AND language = ?", courseID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var meta courseLocalizedMeta
	body, err := content.DecodeFrontMatter(file.Data, &meta)
	if err != nil {
		return err
	}
	if err := validate.Struct(&meta); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.CourseLocalized{
		CourseID:    courseID,
		Language:    language,
		Name:        meta.Name,
		Goal:        meta.Goal,
		Objectives:  strings.Join(meta.Objectives, "\n"),
		RawContent:  body,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (course_id, language) DO UPDATE")
	q = upsertColumns(q, "name", "goal", "objectives", "raw_content")
	_, err = q.Exec(ctx)
	return errors.WithStack(err)
}
