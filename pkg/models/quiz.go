package models

import (
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// QuizQuestion belongs to a course chapter quiz. The parent course must exist
// before the question can be imported.
type QuizQuestion struct {
	bun.BaseModel `bun:"table:quiz_questions,alias:qq"`

	ID         string `bun:",pk,nullzero" json:"id"`
	CourseID   string `bun:",nullzero" json:"course_id"`
	Part       int    `json:"part"`
	Chapter    int    `json:"chapter"`
	Difficulty string `bun:",nullzero" json:"difficulty"`
	Author     *string `json:"author"`

	SyncColumns

	Localized []*QuizQuestionLocalized `bun:"rel:has-many,join:id=question_id" json:"localized,omitempty"`
}

type QuizQuestionLocalized struct {
	bun.BaseModel `bun:"table:quiz_question_localized,alias:qql"`

	QuestionID   string `bun:",pk,nullzero" json:"question_id"`
	Language     string `bun:",pk,nullzero" json:"language"`
	Question     string `bun:",nullzero" json:"question"`
	Answer       string `bun:",nullzero" json:"answer"`
	WrongAnswers string `json:"-"`
	Explanation  string `json:"explanation"`

	SyncColumns
}

// SetWrongAnswers stores the wrong answer set as a JSON column value.
func (l *QuizQuestionLocalized) SetWrongAnswers(answers []string) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return errors.WithStack(err)
	}
	l.WrongAnswers = string(data)
	return nil
}

// ParseWrongAnswers decodes the JSON wrong answer set.
func (l *QuizQuestionLocalized) ParseWrongAnswers() ([]string, error) {
	if l.WrongAnswers == "" {
		return nil, nil
	}
	var answers []string
	if err := json.Unmarshal([]byte(l.WrongAnswers), &answers); err != nil {
		return nil, errors.WithStack(err)
	}
	return answers, nil
}
