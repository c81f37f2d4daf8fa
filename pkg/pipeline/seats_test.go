package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

func intPtr(v int) *int { return &v }

func seedChapter(ctx context.Context, t *testing.T, db *bun.DB, available *int) int {
	t.Helper()

	course := &models.Course{ID: "btc101", Level: "beginner"}
	_, err := db.NewInsert().Model(course).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	require.NoError(t, err)

	chapter := &models.CourseChapter{
		CourseID:       "btc101",
		Part:           1,
		Chapter:        1,
		AvailableSeats: available,
	}
	_, err = db.NewInsert().Model(chapter).Exec(ctx)
	require.NoError(t, err)
	return chapter.ID
}

func TestRecomputeSeatsCountsOnlyPaidBookings(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	chapterID := seedChapter(ctx, t, db, intPtr(10))

	bookings := []*models.ChapterBooking{
		{ChapterID: chapterID, Paid: true},
		{ChapterID: chapterID, Paid: true},
		{ChapterID: chapterID, Paid: false},
	}
	_, err := db.NewInsert().Model(&bookings).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, RecomputeSeats(ctx, db))

	chapter := &models.CourseChapter{}
	err = db.NewSelect().Model(chapter).Where("id = ?", chapterID).Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, chapter.RemainingSeats)
	assert.Equal(t, 8, *chapter.RemainingSeats)
}

func TestRecomputeSeatsIgnoresUncappedChapters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	chapterID := seedChapter(ctx, t, db, nil)

	require.NoError(t, RecomputeSeats(ctx, db))

	chapter := &models.CourseChapter{}
	err := db.NewSelect().Model(chapter).Where("id = ?", chapterID).Scan(ctx)
	require.NoError(t, err)
	assert.Nil(t, chapter.RemainingSeats)
}

func TestRecomputeSeatsForEvents(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	event := &models.Event{ID: "2024-conf", Name: "Conf", Type: "conference", AvailableSeats: intPtr(100)}
	_, err := db.NewInsert().Model(event).Exec(ctx)
	require.NoError(t, err)

	booking := &models.EventBooking{EventID: "2024-conf", Paid: true}
	_, err = db.NewInsert().Model(booking).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, RecomputeSeats(ctx, db))

	err = db.NewSelect().Model(event).Where("id = ?", "2024-conf").Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, event.RemainingSeats)
	assert.Equal(t, 99, *event.RemainingSeats)
}

func TestRecomputeSeatsIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()

	chapterID := seedChapter(ctx, t, db, intPtr(5))

	booking := &models.ChapterBooking{ChapterID: chapterID, Paid: true}
	_, err := db.NewInsert().Model(booking).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, RecomputeSeats(ctx, db))
	require.NoError(t, RecomputeSeats(ctx, db))

	chapter := &models.CourseChapter{}
	err = db.NewSelect().Model(chapter).Where("id = ?", chapterID).Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, chapter.RemainingSeats)
	assert.Equal(t, 4, *chapter.RemainingSeats)
}
