package search

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/database"
	"github.com/studyforge/studyforge/pkg/migrations"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	database.RegisterModels(db)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func seedCourse(ctx context.Context, t *testing.T, db *bun.DB, id, language, name string) {
	t.Helper()

	course := &models.Course{ID: id, Level: "beginner"}
	_, err := db.NewInsert().Model(course).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	require.NoError(t, err)

	localized := &models.CourseLocalized{
		CourseID: id,
		Language: language,
		Name:     name,
	}
	_, err = db.NewInsert().Model(localized).Exec(ctx)
	require.NoError(t, err)
}

func TestRebuildAndGlobalSearch(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedCourse(ctx, t, db, "btc101", "en", "Bitcoin Basics")
	seedCourse(ctx, t, db, "btc101", "fr", "Les bases de Bitcoin")

	professor := &models.Professor{ID: "rogzy", Name: "Rogzy"}
	_, err := db.NewInsert().Model(professor).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Rebuild(ctx))

	resp, err := svc.GlobalSearch(ctx, "bitcoin", "en")
	require.NoError(t, err)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "btc101", resp.Courses[0].ID)
	assert.Equal(t, "Bitcoin Basics", resp.Courses[0].Name)

	// Professors without localized rows are still indexed by name.
	resp, err = svc.GlobalSearch(ctx, "rogzy", "")
	require.NoError(t, err)
	require.Len(t, resp.Professors, 1)
	assert.Equal(t, "rogzy", resp.Professors[0].ID)
}

func TestRebuildIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedCourse(ctx, t, db, "btc101", "en", "Bitcoin Basics")

	require.NoError(t, svc.Rebuild(ctx))
	require.NoError(t, svc.Rebuild(ctx))

	results, total, err := svc.SearchCourses(ctx, "bitcoin", "en", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
}

func TestRebuildDropsStaleEntries(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	seedCourse(ctx, t, db, "btc101", "en", "Bitcoin Basics")
	require.NoError(t, svc.Rebuild(ctx))

	_, err := db.NewDelete().Model((*models.CourseLocalized)(nil)).Where("course_id = ?", "btc101").Exec(ctx)
	require.NoError(t, err)
	_, err = db.NewDelete().Model((*models.Course)(nil)).Where("id = ?", "btc101").Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Rebuild(ctx))

	_, total, err := svc.SearchCourses(ctx, "bitcoin", "en", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSearchResourcesByCategory(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	resource := &models.Resource{Path: "resources/books/mastering", Category: "books"}
	_, err := db.NewInsert().Model(resource).Exec(ctx)
	require.NoError(t, err)

	book := &models.Book{ResourceID: resource.ID, Title: "Mastering Bitcoin", Author: "Andreas Antonopoulos"}
	_, err = db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	localized := &models.BookLocalized{ResourceID: resource.ID, Language: "en", Title: "Mastering Bitcoin"}
	_, err = db.NewInsert().Model(localized).Exec(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Rebuild(ctx))

	results, total, err := svc.SearchResources(ctx, "mastering", "en", "books", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, resource.ID, results[0].ID)

	_, total, err = svc.SearchResources(ctx, "mastering", "en", "podcasts", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGlobalSearchEmptyQuery(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	resp, err := svc.GlobalSearch(context.Background(), "   ", "")
	require.NoError(t, err)
	assert.Empty(t, resp.Courses)
	assert.Empty(t, resp.Blogs)
}
