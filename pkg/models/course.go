package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID               string     `bun:",pk,nullzero" json:"id"`
	Level            string     `bun:",nullzero" json:"level"`
	Hours            float64    `json:"hours"`
	RequiresPayment  bool       `json:"requires_payment"`
	PaidPriceDollars *int       `json:"paid_price_dollars"`
	Contact          *string    `json:"contact"`
	Online           bool       `json:"online"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`

	SyncColumns

	Localized  []*CourseLocalized `bun:"rel:has-many,join:id=course_id" json:"localized,omitempty"`
	Chapters   []*CourseChapter   `bun:"rel:has-many,join:id=course_id" json:"chapters,omitempty"`
	Professors []*CourseProfessor `bun:"rel:has-many,join:id=course_id" json:"professors,omitempty"`
}

// CourseLocalized is one language variant of a course. Each variant has an
// independent lifecycle: it can be added, updated, or removed without touching
// its siblings or the primary row.
type CourseLocalized struct {
	bun.BaseModel `bun:"table:course_localized,alias:cl"`

	CourseID   string `bun:",pk,nullzero" json:"course_id"`
	Language   string `bun:",pk,nullzero" json:"language"`
	Name       string `bun:",nullzero" json:"name"`
	Goal       string `json:"goal"`
	Objectives string `json:"objectives"`
	RawContent string `json:"raw_content"`

	SyncColumns
}

// CourseChapter is an in-person session of a course. Identity is
// (course_id, part, chapter) so bookings survive re-imports.
type CourseChapter struct {
	bun.BaseModel `bun:"table:course_chapters,alias:cc"`

	ID             int        `bun:",pk,autoincrement" json:"id"`
	CourseID       string     `bun:",nullzero" json:"course_id"`
	Part           int        `json:"part"`
	Chapter        int        `json:"chapter"`
	AvailableSeats *int       `json:"available_seats"`
	RemainingSeats *int       `json:"remaining_seats"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Address        *string    `json:"address"`

	SyncColumns
}

// CourseProfessor links a course to a professor by declared id. The professor
// row may be imported in any order, so the link is by id string, not FK.
type CourseProfessor struct {
	bun.BaseModel `bun:"table:course_professors,alias:cp"`

	ID          int    `bun:",pk,autoincrement" json:"id"`
	CourseID    string `bun:",nullzero" json:"course_id"`
	ProfessorID string `bun:",nullzero" json:"professor_id"`
}
