package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"augustlab-backend/internal/domains/portfolio"
	"augustlab-backend/internal/shared"
	"augustlab-backend/internal/shared/jsonutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type portfolioRepository struct {
	pool *pgxpool.Pool
}

func NewPortfolioRepository(pool *pgxpool.Pool) portfolio.Repository {
	return &portfolioRepository{pool: pool}
}

const portfolioColumns = `id, title, description, tech_stack, project_url, github_url,
	image_url, display_order, is_featured, created_at, updated_at`

func (r *portfolioRepository) List(ctx context.Context, q *portfolio.ListQuery) ([]*portfolio.Portfolio, error) {
	var (
		conditions []string
		args       []any
	)
	if q.Featured != nil {
		args = append(args, *q.Featured)
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + portfolioColumns + ` FROM portfolio`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY display_order ASC, created_at DESC"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	defer rows.Close()

	items := make([]*portfolio.Portfolio, 0)
	for rows.Next() {
		item, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read portfolio rows: %w", err)
	}
	return items, nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id int) (*portfolio.Portfolio, error) {
	query := `SELECT ` + portfolioColumns + ` FROM portfolio WHERE id = $1`
	item, err := scanPortfolio(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *portfolioRepository) Create(ctx context.Context, db shared.Querier, req *portfolio.CreatePortfolioRequest) (*portfolio.Portfolio, error) {
	stack, err := jsonutil.MarshalList(req.TechStack)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO portfolio (title, description, tech_stack, project_url,
			github_url, image_url, display_order, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + portfolioColumns

	item, err := scanPortfolio(db.QueryRow(ctx, query,
		req.Title, req.Description, stack, req.ProjectURL,
		req.GithubURL, req.ImageURL, req.DisplayOrder, req.IsFeatured))
	if err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}
	return item, nil
}

func (r *portfolioRepository) Update(ctx context.Context, db shared.Querier, id int, req *portfolio.UpdatePortfolioRequest) (*portfolio.Portfolio, error) {
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
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.TechStack != nil {
		stack, err := jsonutil.MarshalList(*req.TechStack)
		if err != nil {
			return nil, err
		}
		set("tech_stack", stack)
	}
	if req.ProjectURL != nil {
		set("project_url", *req.ProjectURL)
	}
	if req.GithubURL != nil {
		set("github_url", *req.GithubURL)
	}
	if req.ImageURL != nil {
		set("image_url", *req.ImageURL)
	}
	if req.DisplayOrder != nil {
		set("display_order", *req.DisplayOrder)
	}
	if req.IsFeatured != nil {
		set("is_featured", *req.IsFeatured)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE portfolio SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), portfolioColumns)

	item, err := scanPortfolio(db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, portfolio.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update portfolio: %w", err)
	}
	return item, nil
}

func (r *portfolioRepository) Delete(ctx context.Context, db shared.Querier, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM portfolio WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

func scanPortfolio(row pgx.Row) (*portfolio.Portfolio, error) {
	var (
		item  portfolio.Portfolio
		stack []byte
	)
	err := row.Scan(&item.ID, &item.Title, &item.Description, &stack,
		&item.ProjectURL, &item.GithubURL, &item.ImageURL,
		&item.DisplayOrder, &item.IsFeatured, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.TechStack, err = jsonutil.UnmarshalList(stack)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
