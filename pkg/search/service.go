package search

import (
	"context"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/search/index"
	"github.com/uptrace/bun"
)

const globalSearchLimit = 5

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Rebuild drops and recreates every FTS index, then repopulates them from the
// relational store. A full rebuild after each sync run is simpler and safer
// than incremental index maintenance: the corpus is small and the rebuild
// cannot drift out of sync with the tables it mirrors.
func (svc *Service) Rebuild(ctx context.Context) error {
	if err := index.Drop(ctx, svc.db); err != nil {
		return err
	}
	if err := index.Create(ctx, svc.db); err != nil {
		return err
	}

	_, err := svc.db.ExecContext(ctx, `
		INSERT INTO courses_fts (course_id, language, name, goal, objectives, content)
		SELECT
			cl.course_id,
			cl.language,
			cl.name,
			COALESCE(cl.goal, ''),
			COALESCE(cl.objectives, ''),
			COALESCE(cl.raw_content, '')
		FROM course_localized cl
	`)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = svc.db.ExecContext(ctx, `
		INSERT INTO tutorials_fts (tutorial_id, language, category, name, title, description, content)
		SELECT
			t.id,
			COALESCE(tl.language, ''),
			t.category,
			t.name,
			COALESCE(tl.title, ''),
			COALESCE(tl.description, ''),
			COALESCE(tl.raw_content, '')
		FROM tutorials t
		LEFT JOIN tutorial_localized tl ON tl.tutorial_id = t.id
	`)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = svc.db.ExecContext(ctx, `
		INSERT INTO professors_fts (professor_id, language, name, company, bio, short_bio, tags)
		SELECT
			p.id,
			COALESCE(pl.language, ''),
			p.name,
			COALESCE(p.company, ''),
			COALESCE(pl.bio, ''),
			COALESCE(pl.short_bio, ''),
			COALESCE((SELECT GROUP_CONCAT(tg.name, ' ') FROM professor_tags pt JOIN tags tg ON tg.id = pt.tag_id WHERE pt.professor_id = p.id), '')
		FROM professors p
		LEFT JOIN professor_localized pl ON pl.professor_id = p.id
	`)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = svc.db.ExecContext(ctx, `
		INSERT INTO blogs_fts (blog_id, language, title, description, content, tags)
		SELECT
			bll.blog_id,
			bll.language,
			bll.title,
			COALESCE(bll.description, ''),
			COALESCE(bll.raw_content, ''),
			COALESCE((SELECT GROUP_CONCAT(tg.name, ' ') FROM blog_tags blt JOIN tags tg ON tg.id = blt.tag_id WHERE blt.blog_id = bll.blog_id), '')
		FROM blog_localized bll
	`)
	if err != nil {
		return errors.WithStack(err)
	}

	return svc.rebuildResources(ctx)
}

// rebuildResources fills resources_fts from each subtype table. Localized
// subtypes contribute one row per language, the rest one row with an empty
// language tag.
func (svc *Service) rebuildResources(ctx context.Context) error {
	statements := []string{
		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT bk.resource_id, bkl.language, r.category, bkl.title, COALESCE(bkl.summary, '') || ' ' || COALESCE(bk.author, '')
		FROM books bk
		JOIN resources r ON r.id = bk.resource_id
		JOIN book_localized bkl ON bkl.resource_id = bk.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT bu.resource_id, COALESCE(bul.language, ''), r.category, bu.name, COALESCE(bul.description, '')
		FROM builders bu
		JOIN resources r ON r.id = bu.resource_id
		LEFT JOIN builder_localized bul ON bul.resource_id = bu.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT gw.resource_id, gwl.language, r.category, gwl.term, COALESCE(gwl.definition, '')
		FROM glossary_words gw
		JOIN resources r ON r.id = gw.resource_id
		JOIN glossary_word_localized gwl ON gwl.resource_id = gw.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT cf.resource_id, '', r.category, cf.name, COALESCE(cf.location, '') || ' ' || COALESCE(cf.description, '')
		FROM conferences cf
		JOIN resources r ON r.id = cf.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT nl.resource_id, '', r.category, nl.title, COALESCE(nl.author, '') || ' ' || COALESCE(nl.description, '')
		FROM newsletters nl
		JOIN resources r ON r.id = nl.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT pc.resource_id, COALESCE(pc.language, ''), r.category, pc.name, COALESCE(pc.host, '') || ' ' || COALESCE(pc.description, '')
		FROM podcasts pc
		JOIN resources r ON r.id = pc.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT bt.resource_id, COALESCE(bt.original_language, ''), r.category, bt.name, ''
		FROM bets bt
		JOIN resources r ON r.id = bt.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT mv.resource_id, COALESCE(mv.language, ''), r.category, mv.title, COALESCE(mv.director, '') || ' ' || COALESCE(mv.description, '')
		FROM movies mv
		JOIN resources r ON r.id = mv.resource_id`,

		`INSERT INTO resources_fts (resource_id, language, category, name, description)
		SELECT yc.resource_id, COALESCE(yc.language, ''), r.category, yc.name, COALESCE(yc.description, '')
		FROM youtube_channels yc
		JOIN resources r ON r.id = yc.resource_id`,
	}

	for _, stmt := range statements {
		if _, err := svc.db.ExecContext(ctx, stmt); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// GlobalSearch searches across every indexed content type. Returns up to 5
// results per type for popover display.
func (svc *Service) GlobalSearch(ctx context.Context, query, language string) (*GlobalSearchResponse, error) {
	ftsQuery := BuildPrefixQuery(query)
	resp := &GlobalSearchResponse{
		Courses:    []CourseSearchResult{},
		Tutorials:  []TutorialSearchResult{},
		Professors: []ProfessorSearchResult{},
		Resources:  []ResourceSearchResult{},
		Blogs:      []BlogSearchResult{},
	}
	if ftsQuery == "" {
		return resp, nil
	}

	var err error
	resp.Courses, err = svc.searchCoursesInternal(ctx, ftsQuery, language, globalSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	resp.Tutorials, err = svc.searchTutorialsInternal(ctx, ftsQuery, language, globalSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	resp.Professors, err = svc.searchProfessorsInternal(ctx, ftsQuery, language, globalSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	resp.Resources, err = svc.searchResourcesInternal(ctx, ftsQuery, language, "", globalSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	resp.Blogs, err = svc.searchBlogsInternal(ctx, ftsQuery, language, globalSearchLimit, 0)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// SearchCourses searches course names and content with pagination.
func (svc *Service) SearchCourses(ctx context.Context, query, language string, limit, offset int) ([]CourseSearchResult, int, error) {
	ftsQuery := BuildPrefixQuery(query)
	if ftsQuery == "" {
		return []CourseSearchResult{}, 0, nil
	}

	results, err := svc.searchCoursesInternal(ctx, ftsQuery, language, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := svc.countInternal(ctx, "courses_fts", ftsQuery, language)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// SearchResources searches resources with an optional category filter.
func (svc *Service) SearchResources(ctx context.Context, query, language, category string, limit, offset int) ([]ResourceSearchResult, int, error) {
	ftsQuery := BuildPrefixQuery(query)
	if ftsQuery == "" {
		return []ResourceSearchResult{}, 0, nil
	}

	results, err := svc.searchResourcesInternal(ctx, ftsQuery, language, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	q := svc.db.NewSelect().
		TableExpr("resources_fts").
		ColumnExpr("COUNT(*)").
		Where("resources_fts MATCH ?", ftsQuery)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var total int
	if err := q.Scan(ctx, &total); err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return results, total, nil
}

func (svc *Service) searchCoursesInternal(ctx context.Context, ftsQuery, language string, limit, offset int) ([]CourseSearchResult, error) {
	results := []CourseSearchResult{}

	q := svc.db.NewSelect().
		TableExpr("courses_fts").
		ColumnExpr("course_id AS id, language, name").
		Where("courses_fts MATCH ?", ftsQuery).
		Order("rank").
		Limit(limit).
		Offset(offset)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}

	err := q.Scan(ctx, &results)
	return results, errors.WithStack(err)
}

func (svc *Service) searchTutorialsInternal(ctx context.Context, ftsQuery, language string, limit, offset int) ([]TutorialSearchResult, error) {
	results := []TutorialSearchResult{}

	q := svc.db.NewSelect().
		TableExpr("tutorials_fts").
		ColumnExpr("tutorial_id AS id, language, category, name, title").
		Where("tutorials_fts MATCH ?", ftsQuery).
		Order("rank").
		Limit(limit).
		Offset(offset)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}

	err := q.Scan(ctx, &results)
	return results, errors.WithStack(err)
}

func (svc *Service) searchProfessorsInternal(ctx context.Context, ftsQuery, language string, limit, offset int) ([]ProfessorSearchResult, error) {
	results := []ProfessorSearchResult{}

	q := svc.db.NewSelect().
		TableExpr("professors_fts").
		ColumnExpr("professor_id AS id, language, name, company").
		Where("professors_fts MATCH ?", ftsQuery).
		Order("rank").
		Limit(limit).
		Offset(offset)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}

	err := q.Scan(ctx, &results)
	return results, errors.WithStack(err)
}

func (svc *Service) searchResourcesInternal(ctx context.Context, ftsQuery, language, category string, limit, offset int) ([]ResourceSearchResult, error) {
	results := []ResourceSearchResult{}

	q := svc.db.NewSelect().
		TableExpr("resources_fts").
		ColumnExpr("resource_id AS id, language, category, name").
		Where("resources_fts MATCH ?", ftsQuery).
		Order("rank").
		Limit(limit).
		Offset(offset)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	err := q.Scan(ctx, &results)
	return results, errors.WithStack(err)
}

func (svc *Service) searchBlogsInternal(ctx context.Context, ftsQuery, language string, limit, offset int) ([]BlogSearchResult, error) {
	results := []BlogSearchResult{}

	q := svc.db.NewSelect().
		TableExpr("blogs_fts").
		ColumnExpr("blog_id AS id, language, title").
		Where("blogs_fts MATCH ?", ftsQuery).
		Order("rank").
		Limit(limit).
		Offset(offset)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}

	err := q.Scan(ctx, &results)
	return results, errors.WithStack(err)
}

func (svc *Service) countInternal(ctx context.Context, table, ftsQuery, language string) (int, error) {
	q := svc.db.NewSelect().
		TableExpr(table).
		ColumnExpr("COUNT(*)").
		Where(table+" MATCH ?", ftsQuery)
	if language != "" {
		q = q.Where("language IN (?, '')", language)
	}

	var count int
	err := q.Scan(ctx, &count)
	return count, errors.WithStack(err)
}
