package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"augustlab-backend/internal/domains/blog"
	"augustlab-backend/internal/shared"
	"augustlab-backend/internal/shared/jsonutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type blogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) blog.Repository {
	return &blogRepository{pool: pool}
}

const blogColumns = `id, title, content, summary, tags, is_published, cover_image,
	published_at, created_at, updated_at`

func (r *blogRepository) List(ctx context.Context, q *blog.ListQuery) ([]*blog.Post, error) {
	var (
		conditions []string
		args       []any
	)
	if !q.IncludeDrafts {
		conditions = append(conditions, "is_published = TRUE")
	}
	if q.Tag != "" {
		tag, err := jsonutil.MarshalList([]string{q.Tag})
		if err != nil {
			return nil, err
		}
		args = append(args, tag)
		conditions = append(conditions, fmt.Sprintf("tags @> $%d::jsonb", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + blogColumns + ` FROM blog`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY COALESCE(published_at, created_at) DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*blog.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blog rows: %w", err)
	}
	return posts, nil
}

func (r *blogRepository) GetByID(ctx context.Context, id int) (*blog.Post, error) {
	query := `SELECT ` + blogColumns + ` FROM blog WHERE id = $1`
	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (r *blogRepository) Create(ctx context.Context, db shared.Querier, req *blog.CreatePostRequest) (*blog.Post, error) {
	tags, err := jsonutil.MarshalList(req.Tags)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO blog (title, content, summary, tags, is_published, cover_image, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $5 THEN NOW() ELSE NULL END)
		RETURNING ` + blogColumns

	post, err := scanPost(db.QueryRow(ctx, query,
		req.Title, req.Content, req.Summary, tags, req.IsPublished, req.CoverImage))
	if err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	return post, nil
}

func (r *blogRepository) Update(ctx context.Context, db shared.Querier, id int, req *blog.UpdatePostRequest) (*blog.Post, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Content != nil {
		set("content", *req.Content)
	}
	if req.Summary != nil {
		set("summary", *req.Summary)
	}
	if req.Tags != nil {
		tags, err := jsonutil.MarshalList(*req.Tags)
		if err != nil {
			return nil, err
		}
		set("tags", tags)
	}
	if req.CoverImage != nil {
		set("cover_image", *req.CoverImage)
	}
	if req.IsPublished != nil {
		// published_at records the draft-to-published transition and is
		// never rewritten for an already published post.
		if *req.IsPublished {
			sets = append(sets,
				"published_at = CASE WHEN is_published THEN published_at ELSE NOW() END")
		}
		set("is_published", *req.IsPublished)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE blog SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), blogColumns)

	post, err := scanPost(db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, blog.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	return post, nil
}

func (r *blogRepository) Delete(ctx context.Context, db shared.Querier, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM blog WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return blog.ErrNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*blog.Post, error) {
	var (
		post blog.Post
		tags []byte
	)
	err := row.Scan(&post.ID, &post.Title, &post.Content, &post.Summary, &tags,
		&post.IsPublished, &post.CoverImage, &post.PublishedAt,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	post.Tags, err = jsonutil.UnmarshalList(tags)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
