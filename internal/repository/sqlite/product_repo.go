package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cotizadorapp/internal/domain"
	"cotizadorapp/internal/repository"
)

// ProductRepo implements repository.ProductRepository
type ProductRepo struct {
	db *DB
}

// NewProductRepo creates a new ProductRepo
func NewProductRepo(db *DB) repository.ProductRepository {
	return &ProductRepo{db: db}
}

const productColumns = `code, description, brand, supplier, category, subcategory,
	public_price, workshop_price, cost_price`

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *ProductRepo) Search(ctx context.Context, filter repository.ProductFilter, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 50
	}

	var conds []string
	var args []any
	if term := strings.TrimSpace(filter.Term); term != "" {
		conds = append(conds, `(code LIKE ? OR description LIKE ?)`)
		pattern := "%" + term + "%"
		args = append(args, pattern, pattern)
	}
	exact := map[string]string{
		"category":    filter.Category,
		"subcategory": filter.Subcategory,
		"supplier":    filter.Supplier,
		"brand":       filter.Brand,
	}
	for _, col := range []string{"category", "subcategory", "supplier", "brand"} {
		if v := strings.TrimSpace(exact[col]); v != "" {
			conds = append(conds, col+` = ?`)
			args = append(args, v)
		}
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY code LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// BulkUpsert replaces-or-inserts a batch of catalog entries inside one
// transaction, returning the number of rows written.
func (r *ProductRepo) BulkUpsert(ctx context.Context, products []domain.Product) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (code, description, brand, supplier, category, subcategory,
			public_price, workshop_price, cost_price)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			description = excluded.description,
			brand = excluded.brand,
			supplier = excluded.supplier,
			category = excluded.category,
			subcategory = excluded.subcategory,
			public_price = excluded.public_price,
			workshop_price = excluded.workshop_price,
			cost_price = excluded.cost_price
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, p := range products {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, code, p.Description, p.Brand, p.Supplier,
			p.Category, p.Subcategory, p.PublicPrice, nullableFloat(p.WorkshopPrice), nullableFloat(p.CostPrice)); err != nil {
			return 0, fmt.Errorf("failed to upsert product %s: %w", code, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return count, nil
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func collectProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var brand, supplier, category, subcategory sql.NullString
		var workshop, cost sql.NullFloat64
		if err := rows.Scan(&p.Code, &p.Description, &brand, &supplier, &category, &subcategory,
			&p.PublicPrice, &workshop, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Brand = brand.String
		p.Supplier = supplier.String
		p.Category = category.String
		p.Subcategory = subcategory.String
		if workshop.Valid {
			v := workshop.Float64
			p.WorkshopPrice = &v
		}
		if cost.Valid {
			v := cost.Float64
			p.CostPrice = &v
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func nullableFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
