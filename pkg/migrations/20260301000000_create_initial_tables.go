package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/search/index"
	"github.com/uptrace/bun"
)

func init() {
	tables := []string{
		`CREATE TABLE courses (
			id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			hours REAL NOT NULL DEFAULT 0,
			requires_payment BOOLEAN NOT NULL DEFAULT FALSE,
			paid_price_dollars INTEGER,
			contact TEXT,
			online BOOLEAN NOT NULL DEFAULT FALSE,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE course_localized (
			course_id TEXT NOT NULL REFERENCES courses (id),
			language TEXT NOT NULL,
			name TEXT NOT NULL,
			goal TEXT NOT NULL DEFAULT '',
			objectives TEXT NOT NULL DEFAULT '',
			raw_content TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (course_id, language)
		)`,
		`CREATE TABLE course_chapters (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			course_id TEXT NOT NULL REFERENCES courses (id),
			part INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			available_seats INTEGER,
			remaining_seats INTEGER,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			address TEXT,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			UNIQUE (course_id, part, chapter)
		)`,
		`CREATE TABLE course_professors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			course_id TEXT NOT NULL REFERENCES courses (id),
			professor_id TEXT NOT NULL
		)`,
		`CREATE TABLE quiz_questions (
			id TEXT PRIMARY KEY,
			course_id TEXT NOT NULL REFERENCES courses (id),
			part INTEGER NOT NULL,
			chapter INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			author TEXT,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE quiz_question_localized (
			question_id TEXT NOT NULL REFERENCES quiz_questions (id),
			language TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			wrong_answers TEXT NOT NULL DEFAULT '[]',
			explanation TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (question_id, language)
		)`,
		`CREATE TABLE events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			timezone TEXT,
			price_dollars INTEGER,
			available_seats INTEGER,
			remaining_seats INTEGER,
			is_online BOOLEAN NOT NULL DEFAULT FALSE,
			is_in_person BOOLEAN NOT NULL DEFAULT FALSE,
			address TEXT,
			place_id TEXT,
			latitude REAL,
			longitude REAL,
			website_url TEXT,
			replay_url TEXT,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE event_languages (
			event_id TEXT NOT NULL REFERENCES events (id),
			language TEXT NOT NULL,
			PRIMARY KEY (event_id, language)
		)`,
		`CREATE TABLE professors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			company TEXT,
			contributor_id TEXT,
			lightning_address TEXT,
			twitter_url TEXT,
			github_url TEXT,
			nostr_pubkey TEXT,
			website_url TEXT,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE professor_localized (
			professor_id TEXT NOT NULL REFERENCES professors (id),
			language TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			short_bio TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (professor_id, language)
		)`,
		`CREATE TABLE tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE professor_tags (
			professor_id TEXT NOT NULL REFERENCES professors (id),
			tag_id INTEGER NOT NULL REFERENCES tags (id),
			PRIMARY KEY (professor_id, tag_id)
		)`,
		`CREATE TABLE tutorials (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			level TEXT NOT NULL,
			original_language TEXT,
			builder_name TEXT,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE tutorial_localized (
			tutorial_id TEXT NOT NULL REFERENCES tutorials (id),
			language TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			raw_content TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (tutorial_id, language)
		)`,
		`CREATE TABLE tutorial_credits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tutorial_id TEXT NOT NULL REFERENCES tutorials (id),
			professor_id TEXT,
			name TEXT,
			link TEXT,
			lightning_address TEXT
		)`,
		`CREATE TABLE tutorial_proofreads (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tutorial_id TEXT NOT NULL REFERENCES tutorials (id),
			language TEXT NOT NULL,
			contributor TEXT NOT NULL
		)`,
		`CREATE TABLE tutorial_tags (
			tutorial_id TEXT NOT NULL REFERENCES tutorials (id),
			tag_id INTEGER NOT NULL REFERENCES tags (id),
			PRIMARY KEY (tutorial_id, tag_id)
		)`,
		`CREATE TABLE resources (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE resource_tags (
			resource_id INTEGER NOT NULL REFERENCES resources (id),
			tag_id INTEGER NOT NULL REFERENCES tags (id),
			PRIMARY KEY (resource_id, tag_id)
		)`,
		`CREATE TABLE books (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			publication_year INTEGER,
			cover_url TEXT,
			original_language TEXT
		)`,
		`CREATE TABLE book_localized (
			resource_id INTEGER NOT NULL REFERENCES books (resource_id),
			language TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			publisher TEXT,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (resource_id, language)
		)`,
		`CREATE TABLE builders (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			website_url TEXT,
			twitter_url TEXT,
			github_url TEXT,
			address TEXT,
			place_id TEXT,
			latitude REAL,
			longitude REAL
		)`,
		`CREATE TABLE builder_localized (
			resource_id INTEGER NOT NULL REFERENCES builders (resource_id),
			language TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (resource_id, language)
		)`,
		`CREATE TABLE conferences (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			name TEXT NOT NULL,
			year INTEGER NOT NULL DEFAULT 0,
			builder_name TEXT,
			location TEXT NOT NULL DEFAULT '',
			website_url TEXT,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE glossary_words (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			original_word TEXT NOT NULL
		)`,
		`CREATE TABLE glossary_word_localized (
			resource_id INTEGER NOT NULL REFERENCES glossary_words (resource_id),
			language TEXT NOT NULL,
			term TEXT NOT NULL,
			definition TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (resource_id, language)
		)`,
		`CREATE TABLE newsletters (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			website_url TEXT,
			level TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE podcasts (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			name TEXT NOT NULL,
			host TEXT NOT NULL DEFAULT '',
			builder_name TEXT,
			website_url TEXT,
			podcast_url TEXT,
			twitter_url TEXT,
			description TEXT NOT NULL DEFAULT '',
			language TEXT
		)`,
		`CREATE TABLE bets (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			name TEXT NOT NULL,
			builder_name TEXT,
			download_url TEXT,
			view_url TEXT,
			original_language TEXT
		)`,
		`CREATE TABLE movies (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			title TEXT NOT NULL,
			director TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER,
			website_url TEXT,
			description TEXT NOT NULL DEFAULT '',
			language TEXT
		)`,
		`CREATE TABLE youtube_channels (
			resource_id INTEGER PRIMARY KEY REFERENCES resources (id),
			name TEXT NOT NULL,
			channel_url TEXT NOT NULL,
			language TEXT,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE bcert_editions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			date TIMESTAMPTZ,
			location TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER,
			min_score INTEGER,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE bcert_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			edition_id TEXT NOT NULL REFERENCES bcert_editions (id),
			username TEXT NOT NULL,
			score INTEGER NOT NULL,
			passed BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (edition_id, username)
		)`,
		`CREATE TABLE blogs (
			id TEXT PRIMARY KEY,
			author TEXT NOT NULL,
			category TEXT,
			date TIMESTAMPTZ,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE blog_localized (
			blog_id TEXT NOT NULL REFERENCES blogs (id),
			language TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			raw_content TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (blog_id, language)
		)`,
		`CREATE TABLE blog_tags (
			blog_id TEXT NOT NULL REFERENCES blogs (id),
			tag_id INTEGER NOT NULL REFERENCES tags (id),
			PRIMARY KEY (blog_id, tag_id)
		)`,
		`CREATE TABLE legals (
			id TEXT PRIMARY KEY,
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ
		)`,
		`CREATE TABLE legal_localized (
			legal_id TEXT NOT NULL REFERENCES legals (id),
			language TEXT NOT NULL,
			title TEXT NOT NULL,
			raw_content TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ,
			last_commit TEXT NOT NULL DEFAULT '',
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (legal_id, language)
		)`,
		`CREATE TABLE chapter_bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chapter_id INTEGER NOT NULL REFERENCES course_chapters (id),
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE event_bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL REFERENCES events (id),
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE synced_assets (
			key TEXT NOT NULL,
			scope TEXT NOT NULL,
			content_type TEXT NOT NULL DEFAULT '',
			size_bytes INTEGER NOT NULL DEFAULT 0,
			last_sync TIMESTAMPTZ,
			PRIMARY KEY (key, scope)
		)`,
		`CREATE INDEX ix_course_chapters_course_id ON course_chapters (course_id)`,
		`CREATE INDEX ix_quiz_questions_course_id ON quiz_questions (course_id)`,
		`CREATE INDEX ix_chapter_bookings_chapter_id ON chapter_bookings (chapter_id)`,
		`CREATE INDEX ix_event_bookings_event_id ON event_bookings (event_id)`,
		`CREATE INDEX ix_resources_category ON resources (category)`,
	}

	up := func(ctx context.Context, db *bun.DB) error {
		for _, ddl := range tables {
			if _, err := db.ExecContext(ctx, ddl); err != nil {
				return errors.WithStack(err)
			}
		}
		return index.Create(ctx, db)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		if err := index.Drop(ctx, db); err != nil {
			return err
		}
		drops := []string{
			"synced_assets", "event_bookings", "chapter_bookings",
			"legal_localized", "legals", "blog_tags", "blog_localized", "blogs",
			"bcert_results", "bcert_editions",
			"youtube_channels", "movies", "bets", "podcasts", "newsletters",
			"glossary_word_localized", "glossary_words", "conferences",
			"builder_localized", "builders", "book_localized", "books",
			"resource_tags", "resources",
			"tutorial_tags", "tutorial_proofreads", "tutorial_credits", "tutorial_localized", "tutorials",
			"professor_tags", "tags", "professor_localized", "professors",
			"event_languages", "events",
			"quiz_question_localized", "quiz_questions",
			"course_professors", "course_chapters", "course_localized", "courses",
		}
		for _, name := range drops {
			if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
