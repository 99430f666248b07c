package db

import "database/sql"

// MigrateUp creates the schema. Statements are idempotent so the migration
// can run on every startup.
func MigrateUp(database *sql.DB) error {
	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id            BIGSERIAL PRIMARY KEY,
    title         TEXT NOT NULL,
    slug          TEXT NOT NULL,
    excerpt       TEXT NOT NULL,
    content       TEXT NOT NULL,
    author_name   TEXT NOT NULL,
    author_avatar TEXT NOT NULL DEFAULT '',
    author_bio    TEXT NOT NULL DEFAULT '',
    image_url     TEXT,
    image_alt     TEXT,
    tags          TEXT[] NOT NULL DEFAULT '{}',
    category      TEXT NOT NULL,
    published     BOOLEAN NOT NULL DEFAULT FALSE,
    featured      BOOLEAN NOT NULL DEFAULT FALSE,
    read_time     INTEGER NOT NULL DEFAULT 5,
    views         BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0),
    seo           JSONB,
    published_at  TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := database.Exec(`
CREATE TABLE IF NOT EXISTS contact_messages (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    company    TEXT NOT NULL DEFAULT '',
    budget     TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	// Full-text search vector over title, content and tags. Wrapped in an
	// IMMUTABLE function because array_to_string is only STABLE, which rules
	// out a generated column; queries and the GIN index call the same
	// function so the index is used.
	if _, err := database.Exec(`
CREATE OR REPLACE FUNCTION post_search_vector(title TEXT, content TEXT, tags TEXT[])
RETURNS tsvector
LANGUAGE sql IMMUTABLE
AS $$
    SELECT to_tsvector('english',
        coalesce(title, '') || ' ' ||
        coalesce(content, '') || ' ' ||
        coalesce(array_to_string(tags, ' '), ''))
$$`); err != nil {
		return err
	}

	indexes := []string{
		// Slug uniqueness is global and case-insensitive.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_posts_slug_lower ON posts (lower(slug))`,
		// Public listing is always published-only, newest first.
		`CREATE INDEX IF NOT EXISTS idx_posts_published_at ON posts (published_at DESC) WHERE published = TRUE`,
		`CREATE INDEX IF NOT EXISTS idx_posts_category ON posts (category)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_tags ON posts USING gin (tags)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_search ON posts USING gin (post_search_vector(title, content, tags))`,
		`CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages (created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := database.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
