// Package index owns the FTS5 table definitions. It sits below both the
// search service and the migrations so each can create the tables without
// depending on the other.
package index

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var ftsTables = map[string]string{
	"courses_fts": `
		CREATE VIRTUAL TABLE courses_fts USING fts5(
			course_id UNINDEXED,
			language UNINDEXED,
			name,
			goal,
			objectives,
			content
		)`,
	"tutorials_fts": `
		CREATE VIRTUAL TABLE tutorials_fts USING fts5(
			tutorial_id UNINDEXED,
			language UNINDEXED,
			category UNINDEXED,
			name,
			title,
			description,
			content
		)`,
	"professors_fts": `
		CREATE VIRTUAL TABLE professors_fts USING fts5(
			professor_id UNINDEXED,
			language UNINDEXED,
			name,
			company,
			bio,
			short_bio,
			tags
		)`,
	"resources_fts": `
		CREATE VIRTUAL TABLE resources_fts USING fts5(
			resource_id UNINDEXED,
			language UNINDEXED,
			category UNINDEXED,
			name,
			description
		)`,
	"blogs_fts": `
		CREATE VIRTUAL TABLE blogs_fts USING fts5(
			blog_id UNINDEXED,
			language UNINDEXED,
			title,
			description,
			content,
			tags
		)`,
}

// Create creates all FTS5 tables. Called by the initial migration and again
// by the search rebuild after it drops them.
func Create(ctx context.Context, db bun.IDB) error {
	for _, ddl := range ftsTables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Drop drops all FTS5 tables if they exist.
func Drop(ctx context.Context, db bun.IDB) error {
	for name := range ftsTables {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
