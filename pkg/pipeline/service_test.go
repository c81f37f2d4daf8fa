package pipeline

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/database"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/geocoder"
	"github.com/studyforge/studyforge/pkg/migrations"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/studyforge/studyforge/pkg/objectstore"
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

// staticSnapshotter serves a swappable in-memory snapshot, standing in for
// the repository working tree.
type staticSnapshotter struct {
	snapshot *content.Snapshot
}

func (s *staticSnapshotter) Snapshot(_ context.Context) (*content.Snapshot, error) {
	return s.snapshot, nil
}

type fakeGeocoder struct {
	results map[string]*geocoder.Result
	calls   int
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (*geocoder.Result, error) {
	g.calls++
	if result, ok := g.results[address]; ok {
		return result, nil
	}
	return nil, errcodes.NotFound("Address")
}

type fakeThumbnailer struct {
	fail bool
}

func (f fakeThumbnailer) Thumbnail(_ []byte, _ int) ([]byte, error) {
	if f.fail {
		return nil, assert.AnError
	}
	return []byte("thumbnail"), nil
}

type testService struct {
	*Service
	snapshotter *staticSnapshotter
	public      *objectstore.Memory
	private     *objectstore.Memory
	geocoder    *fakeGeocoder
}

func newTestService(t *testing.T, db *bun.DB, snapshot *content.Snapshot) *testService {
	t.Helper()

	snapshotter := &staticSnapshotter{snapshot: snapshot}
	public := objectstore.NewMemory()
	private := objectstore.NewMemory()
	geo := &fakeGeocoder{results: map[string]*geocoder.Result{}}

	svc := NewService(db, snapshotter, &objectstore.Stores{
		Public:  public,
		Private: private,
	}, geo, fakeThumbnailer{})

	return &testService{
		Service:     svc,
		snapshotter: snapshotter,
		public:      public,
		private:     private,
		geocoder:    geo,
	}
}

func changedFile(path, data string) content.ChangedFile {
	return content.ChangedFile{
		Path:   path,
		Kind:   content.FileAdded,
		Data:   []byte(data),
		Time:   time.Now().UTC(),
		Commit: "abc1234",
	}
}

func snapshotOf(files ...content.ChangedFile) *content.Snapshot {
	return &content.Snapshot{
		Files:         files,
		PublicRepoDir: "repo",
	}
}

const courseYML = `
id: btc101
level: beginner
hours: 12
professors:
  - rogzy
chapters:
  - part: 1
    chapter: 1
    available_seats: 20
`

const courseEN = `---
name: Bitcoin Basics
goal: Understand the protocol
objectives:
  - Keys
  - Wallets
---
# Welcome
`

func TestSyncImportsCourse(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
		changedFile("courses/btc101/en.md", courseEN),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)

	assert.True(t, report.Success())
	assert.Equal(t, 1, report.UnitsProcessed)
	assert.Zero(t, report.UnitsFailed)
	assert.True(t, report.Reaped)
	assert.True(t, report.SearchRebuilt)

	course := &models.Course{}
	err = db.NewSelect().Model(course).Where("id = ?", "btc101").Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "beginner", course.Level)
	assert.Equal(t, 12.0, course.Hours)
	assert.Equal(t, "abc1234", course.LastCommit)

	localized := &models.CourseLocalized{}
	err = db.NewSelect().Model(localized).Where("course_id = ? AND language = ?", "btc101", "en").Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin Basics", localized.Name)
	assert.Equal(t, "Keys\nWallets", localized.Objectives)
	assert.Contains(t, localized.RawContent, "# Welcome")

	count, err := db.NewSelect().Model((*models.CourseChapter)(nil)).Where("course_id = ?", "btc101").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
		changedFile("courses/btc101/en.md", courseEN),
	))
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, report.Success())
	assert.Zero(t, report.ReapedRows)

	count, err := db.NewSelect().Model((*models.Course)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = db.NewSelect().Model((*models.CourseChapter)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = db.NewSelect().Model((*models.CourseLocalized)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncIsolatesFailingUnits(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
		changedFile("courses/broken/course.yml", "id: broken\nlevel: bogus\n"),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)

	assert.False(t, report.Success())
	assert.Equal(t, 1, report.UnitsProcessed)
	assert.Equal(t, 1, report.UnitsFailed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "courses/broken", report.Errors[0].Path)

	// The healthy sibling committed despite the failure.
	exists, err := db.NewSelect().Model((*models.Course)(nil)).Where("id = ?", "btc101").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.NewSelect().Model((*models.Course)(nil)).Where("id = ?", "broken").Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSyncSkipsReapingWhenAnyUnitFails(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
	))
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	// The next listing drops btc101 and introduces a broken unit. btc101 is
	// now stale, but the failed import must keep the reaper away from it.
	ts.snapshotter.snapshot = snapshotOf(
		changedFile("courses/broken/course.yml", "id: broken\nlevel: bogus\n"),
	)

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, report.Reaped)
	assert.Zero(t, report.ReapedRows)

	exists, err := db.NewSelect().Model((*models.Course)(nil)).Where("id = ?", "btc101").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSyncReapsEntitiesMissingFromListing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
		changedFile("courses/ln201/course.yml", "id: ln201\nlevel: advanced\n"),
	))
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	ts.snapshotter.snapshot = snapshotOf(
		changedFile("courses/btc101/course.yml", courseYML),
	)

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, report.Reaped)
	assert.Positive(t, report.ReapedRows)

	exists, err := db.NewSelect().Model((*models.Course)(nil)).Where("id = ?", "ln201").Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = db.NewSelect().Model((*models.Course)(nil)).Where("id = ?", "btc101").Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSyncRemovedLocalizedFileLeavesSiblings(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("resources/books/mastering/book.yml", "title: Mastering Bitcoin\n"),
		changedFile("resources/books/mastering/en.yml", "title: Mastering Bitcoin\nsummary: The classic.\n"),
		changedFile("resources/books/mastering/fr.yml", "title: Maitriser Bitcoin\nsummary: Le classique.\n"),
	))
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	count, err := db.NewSelect().Model((*models.BookLocalized)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// The French variant disappears from the listing; only its row goes.
	ts.snapshotter.snapshot = snapshotOf(
		changedFile("resources/books/mastering/book.yml", "title: Mastering Bitcoin\n"),
		changedFile("resources/books/mastering/en.yml", "title: Mastering Bitcoin\nsummary: The classic.\n"),
	)

	_, err = ts.Sync(ctx)
	require.NoError(t, err)

	var localized []*models.BookLocalized
	err = db.NewSelect().Model(&localized).Scan(ctx)
	require.NoError(t, err)
	require.Len(t, localized, 1)
	assert.Equal(t, "en", localized[0].Language)
	assert.Equal(t, "Mastering Bitcoin", localized[0].Title)
}

func TestSyncMalformedLocalizedFileDoesNotReapItsRow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("resources/books/mastering/book.yml", "title: Mastering Bitcoin\n"),
		changedFile("resources/books/mastering/en.yml", "title: Mastering Bitcoin\n"),
		changedFile("resources/books/mastering/fr.yml", "title: Maitriser Bitcoin\n"),
	))
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	// The French file is still listed but no longer parses. Its row must not
	// be mistaken for stale content: the parse failure is an import error,
	// which disables the reaper for the whole run.
	ts.snapshotter.snapshot = snapshotOf(
		changedFile("resources/books/mastering/book.yml", "title: Mastering Bitcoin\n"),
		changedFile("resources/books/mastering/en.yml", "title: Mastering Bitcoin\n"),
		changedFile("resources/books/mastering/fr.yml", "summary: [broken\n"),
	)

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, report.Success())
	assert.False(t, report.Reaped)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "resources/books/mastering [fr]", report.Errors[0].Path)

	var localized []*models.BookLocalized
	err = db.NewSelect().Model(&localized).Order("language").Scan(ctx)
	require.NoError(t, err)
	require.Len(t, localized, 2)
	assert.Equal(t, "fr", localized[1].Language)
	assert.Equal(t, "Maitriser Bitcoin", localized[1].Title)
}

func TestSyncImportsBuildersBeforeDependents(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	// The podcast referencing the builder sorts first in the raw listing; the
	// ordering pass must still import the builder before it.
	ts := newTestService(t, db, snapshotOf(
		changedFile("resources/podcasts/acme-show/podcast.yml", "name: Acme Show\nbuilder: acme\n"),
		changedFile("resources/builders/acme/builder.yml", "name: acme\ncategory: exchange\n"),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	require.True(t, report.Success(), "errors: %v", report.Errors)

	podcast := &models.Podcast{}
	err = db.NewSelect().Model(podcast).Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, podcast.BuilderName)
	assert.Equal(t, "acme", *podcast.BuilderName)
}

func TestSyncFailsDependentWithUnknownBuilder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("resources/podcasts/orphan-show/podcast.yml", "name: Orphan Show\nbuilder: ghost\n"),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "ghost")
	assert.False(t, report.Reaped)
}

func TestSyncReplacesTags(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("resources/podcasts/acme-show/podcast.yml", "name: Acme Show\ntags: [mining, wallets]\n"),
	))
	ctx := context.Background()

	_, err := ts.Sync(ctx)
	require.NoError(t, err)

	count, err := db.NewSelect().Model((*models.ResourceTag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ts.snapshotter.snapshot = snapshotOf(
		changedFile("resources/podcasts/acme-show/podcast.yml", "name: Acme Show\ntags: [mining]\n"),
	)

	_, err = ts.Sync(ctx)
	require.NoError(t, err)

	var tags []*models.Tag
	err = db.NewSelect().
		Model(&tags).
		Join("JOIN resource_tags AS rt ON rt.tag_id = tg.id").
		Scan(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "mining", tags[0].Name)

	// The dropped tag is no longer referenced anywhere, so the reaper's
	// unused-tag sweep removed the row itself.
	count, err = db.NewSelect().Model((*models.Tag)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncQuizRequiresParentCourse(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/ghost/quizzes/q1/question.yml", "id: q1\ndifficulty: easy\n"),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)

	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Message, "ghost")
}

func TestSyncQuizImportsAfterCourseFromSameListing(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf(
		changedFile("courses/btc101/quizzes/q1/question.yml", "id: q1\ndifficulty: easy\n"),
		changedFile("courses/btc101/quizzes/q1/en.yml", "question: What is a UTXO?\nanswer: An unspent output\nwrong_answers: [A block]\n"),
		changedFile("courses/btc101/course.yml", courseYML),
	))
	ctx := context.Background()

	report, err := ts.Sync(ctx)
	require.NoError(t, err)
	require.True(t, report.Success(), "errors: %v", report.Errors)

	question := &models.QuizQuestion{}
	err = db.NewSelect().Model(question).Where("id = ?", "q1").Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "btc101", question.CourseID)

	localized := &models.QuizQuestionLocalized{}
	err = db.NewSelect().Model(localized).Where("question_id = ?", "q1").Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, "What is a UTXO?", localized.Question)
}

func TestSyncSingleFlight(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ts := newTestService(t, db, snapshotOf())
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	ts.Service.snapshotter = blockingSnapshotter{started: started, release: release}

	done := make(chan error, 1)
	go func() {
		_, err := ts.Sync(ctx)
		done <- err
	}()

	<-started

	_, err := ts.Sync(ctx)
	assert.ErrorIs(t, err, errcodes.AlreadySyncing())

	close(release)
	require.NoError(t, <-done)

	// Once the first run finished, the guard is released.
	ts.Service.snapshotter = ts.snapshotter
	_, err = ts.Sync(ctx)
	require.NoError(t, err)
}

type blockingSnapshotter struct {
	started chan struct{}
	release chan struct{}
}

func (s blockingSnapshotter) Snapshot(_ context.Context) (*content.Snapshot, error) {
	close(s.started)
	<-s.release
	return &content.Snapshot{PublicRepoDir: "repo"}, nil
}

func TestUnitOrdering(t *testing.T) {
	t.Parallel()

	units := []*content.Unit{
		{Type: content.TypeBlog, Path: "blogs/post"},
		{Type: content.TypeResource, Category: content.CategoryPodcasts, Path: "resources/podcasts/a"},
		{Type: content.TypeQuizQuestion, Path: "courses/btc101/quizzes/q1"},
		{Type: content.TypeResource, Category: content.CategoryBuilders, Path: "resources/builders/acme"},
		{Type: content.TypeCourse, Path: "courses/btc101"},
	}

	sortUnits(units)

	paths := make([]string, len(units))
	for i, unit := range units {
		paths[i] = unit.Path
	}
	assert.Equal(t, []string{
		"courses/btc101",
		"courses/btc101/quizzes/q1",
		"resources/builders/acme",
		"resources/podcasts/a",
		"blogs/post",
	}, paths)
}
