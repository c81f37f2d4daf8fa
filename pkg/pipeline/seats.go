package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// RecomputeSeats recalculates remaining seats for every course chapter and
// event with a seat cap: remaining = available - count of paid bookings.
// Pure aggregation over committed data, safe to re-run any number of times.
// Exported because booking mutations outside the pipeline invoke it directly.
func RecomputeSeats(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, `
		UPDATE course_chapters
		SET remaining_seats = available_seats - (
			SELECT COUNT(*) FROM chapter_bookings cb
			WHERE cb.chapter_id = course_chapters.id AND cb.paid
		)
		WHERE available_seats IS NOT NULL
	`)
	if err != nil {
		return errors.Wrap(err, "failed to recompute chapter seats")
	}

	_, err = db.ExecContext(ctx, `
		UPDATE events
		SET remaining_seats = available_seats - (
			SELECT COUNT(*) FROM event_bookings eb
			WHERE eb.event_id = events.id AND eb.paid
		)
		WHERE available_seats IS NOT NULL
	`)
	return errors.Wrap(err, "failed to recompute event seats")
}
