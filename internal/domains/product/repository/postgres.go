package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"augustlab-backend/internal/domains/product"
	"augustlab-backend/internal/shared"
	"augustlab-backend/internal/shared/jsonutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) product.Repository {
	return &productRepository{pool: pool}
}

const productColumns = `id, title, description, tech_stack, product_type, entry_file,
	file_path, config_data, is_published, is_featured, display_order, version,
	created_at, updated_at`

func (r *productRepository) List(ctx context.Context, q *product.ListQuery) ([]*product.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if !q.IncludeDrafts {
		conditions = append(conditions, "is_published = TRUE")
	}
	if q.Type != "" {
		args = append(args, q.Type)
		conditions = append(conditions, fmt.Sprintf("product_type = $%d", len(args)))
	}
	if q.Featured != nil {
		args = append(args, *q.Featured)
		conditions = append(conditions, fmt.Sprintf("is_featured = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
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
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*product.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}

func (r *productRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list product ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id int) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Create(ctx context.Context, db shared.Querier, req *product.CreateProductRequest) (*product.Product, error) {
	stack, err := jsonutil.MarshalList(req.TechStack)
	if err != nil {
		return nil, err
	}
	config, err := jsonutil.MarshalValue(req.ConfigData)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (title, description, tech_stack, product_type,
			entry_file, config_data, is_published, is_featured, display_order, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns

	p, err := scanProduct(db.QueryRow(ctx, query,
		req.Title, req.Description, stack, req.ProductType, req.EntryFile,
		config, req.IsPublished, req.IsFeatured, req.DisplayOrder, req.Version))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, db shared.Querier, id int, req *product.UpdateProductRequest) (*product.Product, error) {
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
	if req.ProductType != nil {
		set("product_type", *req.ProductType)
	}
	if req.EntryFile != nil {
		set("entry_file", *req.EntryFile)
	}
	if req.ConfigData != nil {
		config, err := jsonutil.MarshalValue(*req.ConfigData)
		if err != nil {
			return nil, err
		}
		set("config_data", config)
	}
	if req.IsPublished != nil {
		set("is_published", *req.IsPublished)
	}
	if req.IsFeatured != nil {
		set("is_featured", *req.IsFeatured)
	}
	if req.DisplayOrder != nil {
		set("display_order", *req.DisplayOrder)
	}
	if req.Version != nil {
		set("version", *req.Version)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), productColumns)

	p, err := scanProduct(db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (r *productRepository) SetFilePath(ctx context.Context, db shared.Querier, id int, filePath string) error {
	tag, err := db.Exec(ctx,
		`UPDATE products SET file_path = $1, updated_at = NOW() WHERE id = $2`, filePath, id)
	if err != nil {
		return fmt.Errorf("failed to record bundle path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, db shared.Querier, id int) error {
	tag, err := db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		p      product.Product
		stack  []byte
		config []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &stack, &p.ProductType,
		&p.EntryFile, &p.FilePath, &config, &p.IsPublished, &p.IsFeatured,
		&p.DisplayOrder, &p.Version, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.TechStack, err = jsonutil.UnmarshalList(stack)
	if err != nil {
		return nil, err
	}
	p.ConfigData, err = jsonutil.UnmarshalMap(config)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
