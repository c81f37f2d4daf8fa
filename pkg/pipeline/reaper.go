package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// staleTables carry sync columns and are reaped directly by watermark.
var staleTables = []string{
	"course_localized",
	"quiz_question_localized",
	"quiz_questions",
	"course_chapters",
	"courses",
	"events",
	"professor_localized",
	"professors",
	"tutorial_localized",
	"tutorials",
	"book_localized",
	"builder_localized",
	"glossary_word_localized",
	"resources",
	"bcert_editions",
	"blog_localized",
	"blogs",
	"legal_localized",
	"legals",
}

// orphanSweeps remove dependents of rows deleted above. Ordered so a parent
// sweep runs before its children's (quiz questions before their localized
// rows). Bookings are the exception: they are user data, but a booking of a
// deleted chapter or event is meaningless, so it goes with its parent.
var orphanSweeps = []string{
	`DELETE FROM course_professors WHERE course_id NOT IN (SELECT id FROM courses)`,
	`DELETE FROM quiz_questions WHERE course_id NOT IN (SELECT id FROM courses)`,
	`DELETE FROM quiz_question_localized WHERE question_id NOT IN (SELECT id FROM quiz_questions)`,
	`DELETE FROM course_chapters WHERE course_id NOT IN (SELECT id FROM courses)`,
	`DELETE FROM course_localized WHERE course_id NOT IN (SELECT id FROM courses)`,
	`DELETE FROM chapter_bookings WHERE chapter_id NOT IN (SELECT id FROM course_chapters)`,
	`DELETE FROM event_languages WHERE event_id NOT IN (SELECT id FROM events)`,
	`DELETE FROM event_bookings WHERE event_id NOT IN (SELECT id FROM events)`,
	`DELETE FROM professor_localized WHERE professor_id NOT IN (SELECT id FROM professors)`,
	`DELETE FROM professor_tags WHERE professor_id NOT IN (SELECT id FROM professors)`,
	`DELETE FROM tutorial_localized WHERE tutorial_id NOT IN (SELECT id FROM tutorials)`,
	`DELETE FROM tutorial_credits WHERE tutorial_id NOT IN (SELECT id FROM tutorials)`,
	`DELETE FROM tutorial_proofreads WHERE tutorial_id NOT IN (SELECT id FROM tutorials)`,
	`DELETE FROM tutorial_tags WHERE tutorial_id NOT IN (SELECT id FROM tutorials)`,
	`DELETE FROM books WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM book_localized WHERE resource_id NOT IN (SELECT resource_id FROM books)`,
	`DELETE FROM builders WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM builder_localized WHERE resource_id NOT IN (SELECT resource_id FROM builders)`,
	`DELETE FROM conferences WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM glossary_words WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM glossary_word_localized WHERE resource_id NOT IN (SELECT resource_id FROM glossary_words)`,
	`DELETE FROM newsletters WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM podcasts WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM bets WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM movies WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM youtube_channels WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM resource_tags WHERE resource_id NOT IN (SELECT id FROM resources)`,
	`DELETE FROM bcert_results WHERE edition_id NOT IN (SELECT id FROM bcert_editions)`,
	`DELETE FROM blog_localized WHERE blog_id NOT IN (SELECT id FROM blogs)`,
	`DELETE FROM blog_tags WHERE blog_id NOT IN (SELECT id FROM blogs)`,
	`DELETE FROM legal_localized WHERE legal_id NOT IN (SELECT id FROM legals)`,
	`DELETE FROM tags WHERE id NOT IN (SELECT tag_id FROM professor_tags UNION SELECT tag_id FROM tutorial_tags UNION SELECT tag_id FROM resource_tags UNION SELECT tag_id FROM blog_tags)`,
}

// reapStale deletes every row whose sync watermark predates the current run,
// then sweeps dependents of the deleted rows.
//
// Precondition, enforced by the caller: the run recorded ZERO import errors.
// A failed unit leaves its rows untouched, which makes them look stale; with
// any error present, reaping would destroy live content that simply failed
// to re-import. This is the pipeline's most important safety invariant.
func reapStale(ctx context.Context, db bun.IDB, run *Run) (int, error) {
	reaped := 0

	for _, table := range staleTables {
		res, err := db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE last_sync IS NULL OR last_sync < ?", run.StartedAt)
		if err != nil {
			return reaped, errors.Wrapf(err, "failed to reap %s", table)
		}
		if n, err := res.RowsAffected(); err == nil {
			reaped += int(n)
		}
	}

	for _, sweep := range orphanSweeps {
		res, err := db.ExecContext(ctx, sweep)
		if err != nil {
			return reaped, errors.Wrap(err, "orphan sweep failed")
		}
		if n, err := res.RowsAffected(); err == nil {
			reaped += int(n)
		}
	}
	return reaped, nil
}
