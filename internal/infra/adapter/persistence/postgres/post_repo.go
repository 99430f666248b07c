package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// listColumns excludes content to bound response size on listing paths.
const listColumns = `id, title, slug, excerpt, author_name, author_avatar, author_bio,
       image_url, image_alt, tags, category, published, featured, read_time, views,
       seo, published_at, created_at, updated_at`

// fullColumns additionally carries the post body, for detail reads.
const fullColumns = `id, title, slug, excerpt, content, author_name, author_avatar, author_bio,
       image_url, image_alt, tags, category, published, featured, read_time, views,
       seo, published_at, created_at, updated_at`

// DBTX is the subset of *sql.DB the repositories need. It is satisfied by
// *sql.DB directly and by the circuit breaker wrapper in
// internal/resilience/circuitbreaker.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type PostRepo struct {
	db           DBTX
	queryBuilder *PostQueryBuilder
}

func NewPostRepo(db DBTX) repository.PostRepository {
	return &PostRepo{
		db:           db,
		queryBuilder: NewPostQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPost reads one row produced with listColumns or fullColumns.
func scanPost(row rowScanner, withContent bool) (*entity.Post, error) {
	var (
		post        entity.Post
		imageURL    sql.NullString
		imageAlt    sql.NullString
		tags        pq.StringArray
		seo         []byte
		publishedAt sql.NullTime
	)

	dest := []interface{}{&post.ID, &post.Title, &post.Slug, &post.Excerpt}
	if withContent {
		dest = append(dest, &post.Content)
	}
	dest = append(dest,
		&post.Author.Name, &post.Author.Avatar, &post.Author.Bio,
		&imageURL, &imageAlt, &tags, &post.Category,
		&post.Published, &post.Featured, &post.ReadTime, &post.Views,
		&seo, &publishedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if imageURL.Valid && imageURL.String != "" {
		post.FeaturedImage = &entity.Image{URL: imageURL.String, Alt: imageAlt.String}
	}
	post.Tags = []string(tags)
	if len(seo) > 0 {
		post.SEO = seo
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		post.PublishedAt = &t
	}
	return &post, nil
}

func collectPosts(rows *sql.Rows, capacity int, op string) ([]*entity.Post, error) {
	posts := make([]*entity.Post, 0, capacity)
	for rows.Next() {
		post, err := scanPost(rows, false)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (repo *PostRepo) ListPublished(ctx context.Context, filter repository.PostFilter, sort repository.Sort, offset, limit int) ([]*entity.Post, error) {
	whereClause, args := repo.queryBuilder.BuildWhere(filter, 1)
	paramIndex := len(args) + 1
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
SELECT %s
FROM posts
%s
%s
LIMIT $%d OFFSET $%d`, listColumns, whereClause, repo.queryBuilder.OrderBy(sort), paramIndex, paramIndex+1)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListPublished: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows, limit, "ListPublished")
}

func (repo *PostRepo) CountPublished(ctx context.Context, filter repository.PostFilter) (int64, error) {
	whereClause, args := repo.queryBuilder.BuildWhere(filter, 1)
	query := "SELECT COUNT(*) FROM posts " + whereClause

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountPublished: %w", err)
	}
	return count, nil
}

func (repo *PostRepo) CategoryCounts(ctx context.Context) ([]repository.CategoryCount, error) {
	const query = `
SELECT category, COUNT(*) AS cnt
FROM posts
WHERE published = TRUE
GROUP BY category
ORDER BY cnt DESC, category ASC`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CategoryCounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make([]repository.CategoryCount, 0, len(entity.Categories))
	for rows.Next() {
		var c repository.CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("CategoryCounts: Scan: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (repo *PostRepo) DistinctTags(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT unnest(tags) AS tag
FROM posts
WHERE published = TRUE
ORDER BY tag ASC`

	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("DistinctTags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]string, 0, 32)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("DistinctTags: Scan: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (repo *PostRepo) GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM posts
WHERE lower(slug) = lower($1) AND published = TRUE
LIMIT 1`, fullColumns)

	post, err := scanPost(repo.db.QueryRowContext(ctx, query, slug), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetPublishedBySlug: %w", err)
	}
	return post, nil
}

// IncrementViews is a single atomic UPDATE. Concurrent increments on the
// same post all apply; there is no read-modify-write window.
func (repo *PostRepo) IncrementViews(ctx context.Context, id int64) error {
	const query = `UPDATE posts SET views = views + 1 WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("IncrementViews: %w", err)
	}
	return nil
}

func (repo *PostRepo) Related(ctx context.Context, post *entity.Post, limit int) ([]*entity.Post, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM posts
WHERE published = TRUE
  AND id <> $1
  AND (category = $2 OR tags && $3)
ORDER BY published_at DESC, id ASC
LIMIT $4`, listColumns)

	rows, err := repo.db.QueryContext(ctx, query, post.ID, string(post.Category), pq.Array(post.Tags), limit)
	if err != nil {
		return nil, fmt.Errorf("Related: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows, limit, "Related")
}

func (repo *PostRepo) SearchRanked(ctx context.Context, query string, offset, limit int) ([]repository.RankedPost, error) {
	sqlQuery := fmt.Sprintf(`
SELECT %s,
       ts_rank(post_search_vector(title, content, tags), plainto_tsquery('english', $1)) AS score
FROM posts
WHERE published = TRUE
  AND post_search_vector(title, content, tags) @@ plainto_tsquery('english', $1)
ORDER BY score DESC
LIMIT $2 OFFSET $3`, listColumns)

	rows, err := repo.db.QueryContext(ctx, sqlQuery, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("SearchRanked: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]repository.RankedPost, 0, limit)
	for rows.Next() {
		var (
			post        entity.Post
			imageURL    sql.NullString
			imageAlt    sql.NullString
			tags        pq.StringArray
			seo         []byte
			publishedAt sql.NullTime
			score       float64
		)
		if err := rows.Scan(
			&post.ID, &post.Title, &post.Slug, &post.Excerpt,
			&post.Author.Name, &post.Author.Avatar, &post.Author.Bio,
			&imageURL, &imageAlt, &tags, &post.Category,
			&post.Published, &post.Featured, &post.ReadTime, &post.Views,
			&seo, &publishedAt, &post.CreatedAt, &post.UpdatedAt,
			&score,
		); err != nil {
			return nil, fmt.Errorf("SearchRanked: Scan: %w", err)
		}
		if imageURL.Valid && imageURL.String != "" {
			post.FeaturedImage = &entity.Image{URL: imageURL.String, Alt: imageAlt.String}
		}
		post.Tags = []string(tags)
		if len(seo) > 0 {
			post.SEO = seo
		}
		if publishedAt.Valid {
			t := publishedAt.Time
			post.PublishedAt = &t
		}
		results = append(results, repository.RankedPost{Post: &post, Score: score})
	}
	return results, rows.Err()
}

func (repo *PostRepo) CountSearch(ctx context.Context, query string) (int64, error) {
	const sqlQuery = `
SELECT COUNT(*)
FROM posts
WHERE published = TRUE
  AND post_search_vector(title, content, tags) @@ plainto_tsquery('english', $1)`

	var count int64
	if err := repo.db.QueryRowContext(ctx, sqlQuery, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountSearch: %w", err)
	}
	return count, nil
}

func (repo *PostRepo) Featured(ctx context.Context, limit int) ([]*entity.Post, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM posts
WHERE published = TRUE AND featured = TRUE
ORDER BY published_at DESC, id ASC
LIMIT $1`, listColumns)

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("Featured: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows, limit, "Featured")
}

func (repo *PostRepo) Recent(ctx context.Context, limit int) ([]*entity.Post, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM posts
WHERE published = TRUE
ORDER BY published_at DESC, id ASC
LIMIT $1`, listColumns)

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows, limit, "Recent")
}

func (repo *PostRepo) TopViewed(ctx context.Context, limit int) ([]*entity.Post, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM posts
WHERE published = TRUE
ORDER BY views DESC, id ASC
LIMIT $1`, listColumns)

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("TopViewed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectPosts(rows, limit, "TopViewed")
}

func (repo *PostRepo) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM posts
WHERE lower(slug) = lower($1)
LIMIT 1`, fullColumns)

	post, err := scanPost(repo.db.QueryRowContext(ctx, query, slug), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return post, nil
}

func (repo *PostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM posts WHERE lower(slug) = lower($1))`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("SlugExists: %w", err)
	}
	return exists, nil
}

func (repo *PostRepo) Create(ctx context.Context, post *entity.Post) (int64, error) {
	const query = `
INSERT INTO posts
       (title, slug, excerpt, content, author_name, author_avatar, author_bio,
        image_url, image_alt, tags, category, published, featured, read_time, seo, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id`

	var imageURL, imageAlt interface{}
	if post.FeaturedImage != nil {
		imageURL = post.FeaturedImage.URL
		imageAlt = post.FeaturedImage.Alt
	}

	var id int64
	err := repo.db.QueryRowContext(ctx, query,
		post.Title, post.Slug, post.Excerpt, post.Content,
		post.Author.Name, post.Author.Avatar, post.Author.Bio,
		imageURL, imageAlt, pq.Array(post.Tags), string(post.Category),
		post.Published, post.Featured, post.ReadTime, nullableJSON(post.SEO), post.PublishedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicateSlug
		}
		return 0, fmt.Errorf("Create: %w", err)
	}
	return id, nil
}

func (repo *PostRepo) Update(ctx context.Context, post *entity.Post) error {
	const query = `
UPDATE posts SET
       title         = $1,
       slug          = $2,
       excerpt       = $3,
       content       = $4,
       author_name   = $5,
       author_avatar = $6,
       author_bio    = $7,
       image_url     = $8,
       image_alt     = $9,
       tags          = $10,
       category      = $11,
       featured      = $12,
       read_time     = $13,
       seo           = $14,
       updated_at    = now()
WHERE id = $15`

	var imageURL, imageAlt interface{}
	if post.FeaturedImage != nil {
		imageURL = post.FeaturedImage.URL
		imageAlt = post.FeaturedImage.Alt
	}

	res, err := repo.db.ExecContext(ctx, query,
		post.Title, post.Slug, post.Excerpt, post.Content,
		post.Author.Name, post.Author.Avatar, post.Author.Bio,
		imageURL, imageAlt, pq.Array(post.Tags), string(post.Category),
		post.Featured, post.ReadTime, nullableJSON(post.SEO), post.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlug
		}
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

// Publish stamps published_at only on the first publish: COALESCE keeps any
// existing value, so re-publishing never moves the timestamp.
func (repo *PostRepo) Publish(ctx context.Context, id int64) error {
	const query = `
UPDATE posts SET
       published    = TRUE,
       published_at = COALESCE(published_at, now()),
       updated_at   = now()
WHERE id = $1`

	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Publish: no rows affected")
	}
	return nil
}

func (repo *PostRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM posts WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

// nullableJSON maps an empty SEO block to SQL NULL instead of empty bytes.
func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
