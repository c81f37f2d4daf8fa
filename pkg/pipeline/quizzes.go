package pipeline

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

type quizQuestionDescriptor struct {
	ID         string  `yaml:"id" validate:"required"`
	Part       int     `yaml:"part" validate:"min=0"`
	Chapter    int     `yaml:"chapter" validate:"min=0"`
	Difficulty string  `yaml:"difficulty" validate:"required,oneof=easy intermediate hard expert"`
	Author     *string `yaml:"author"`
}

type quizLocalizedDoc struct {
	Question     string   `yaml:"question" validate:"required"`
	Answer       string   `yaml:"answer" validate:"required"`
	WrongAnswers []string `yaml:"wrong_answers" validate:"required,min=1"`
	Explanation  string   `yaml:"explanation"`
}

type quizImporter struct{}

func (quizImporter) Type() content.Type { return content.TypeQuizQuestion }

// Import runs after the course importer so the parent lookup can succeed for
// courses introduced in the same diff.
func (quizImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing question.yml in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	var desc quizQuestionDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	// courses/<course>/quizzes/<question>
	courseID := strings.Split(unit.Path, "/")[1]
	exists, err := tx.NewSelect().
		Model((*models.Course)(nil)).
		Where("id = ?", courseID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ParentNotFound("course", courseID)
	}

	question := &models.QuizQuestion{
		ID:          desc.ID,
		CourseID:    courseID,
		Part:        desc.Part,
		Chapter:     desc.Chapter,
		Difficulty:  desc.Difficulty,
		Author:      desc.Author,
		SyncColumns: syncColumns(unit.Files, run),
	}
	q := tx.NewInsert().
		Model(question).
		On("CONFLICT (id) DO UPDATE")
	q = upsertColumns(q, "course_id", "part", "chapter", "difficulty", "author").Returning("id")
	if _, err := q.Exec(ctx); err != nil {
		return errors.WithStack(err)
	}
	if question.ID == "" {
		return errcodes.EntityNotFound("quiz question")
	}

	for _, language := range unit.Languages() {
		if err := importQuizLocalized(ctx, tx, question.ID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importQuizLocalized(ctx context.Context, tx bun.Tx, questionID, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.QuizQuestionLocalized)(nil)).
			Where("question_id = ? AND language = ?", questionID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var doc quizLocalizedDoc
	if err := content.DecodeDescriptor(file.Data, &doc); err != nil {
		return err
	}
	if err := validate.Struct(&doc); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.QuizQuestionLocalized{
		QuestionID:  questionID,
		Language:    language,
		Question:    doc.Question,
		Answer:      doc.Answer,
		Explanation: doc.Explanation,
		SyncColumns: syncColumns(files, run),
	}
	if err := localized.SetWrongAnswers(doc.WrongAnswers); err != nil {
		return err
	}

	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (question_id, language) DO UPDATE")
	q = upsertColumns(q, "question", "answer", "wrong_answers", "explanation")
	_, err := q.Exec(ctx)
	return errors.WithStack(err)
}
