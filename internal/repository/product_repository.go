package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/jewelry-store/internal/domain"
)

// ProductFilter captures catalog query parameters.
type ProductFilter struct {
	Category   *domain.ProductCategory
	IsActive   *bool
	SearchTerm *string
	SortBy     string
	SortDesc   bool
	Limit      int
	Offset     int
}

// Sortable columns, keyed by their API names. Anything else falls back to createdAt.
var productSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
}

// ProductRepository encapsulates catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	ListWithFilter(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	CountWithFilter(ctx context.Context, filter ProductFilter) (int64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (name, description, price, category, material, weight, dimensions, gemstone, images, stock, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Material,
		product.Weight,
		product.Dimensions,
		product.Gemstone,
		product.Images,
		product.Stock,
		product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET name=$1, description=$2, price=$3, category=$4, material=$5, weight=$6,
            dimensions=$7, gemstone=$8, images=$9, stock=$10, is_active=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Material,
		product.Weight,
		product.Dimensions,
		product.Gemstone,
		product.Images,
		product.Stock,
		product.IsActive,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
        SELECT id, name, description, price, category, material, weight, dimensions, gemstone,
               images, stock, is_active, created_at, updated_at
        FROM products WHERE id=$1`

	var product domain.Product
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&product.Material,
		&product.Weight,
		&product.Dimensions,
		&product.Gemstone,
		&product.Images,
		&product.Stock,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) ListWithFilter(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	base := `SELECT id, name, description, price, category, material, weight, dimensions, gemstone,
                    images, stock, is_active, created_at, updated_at
             FROM products`
	clauses, args := buildProductClauses(filter)

	column, ok := productSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), column, direction, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) CountWithFilter(ctx context.Context, filter ProductFilter) (int64, error) {
	clauses, args := buildProductClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM products WHERE %s`, strings.Join(clauses, " AND "))

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func buildProductClauses(filter ProductFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %s OR LOWER(COALESCE(description,'')) LIKE %s OR LOWER(COALESCE(material,'')) LIKE %s OR LOWER(COALESCE(gemstone,'')) LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	return clauses, args
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Category,
			&product.Material,
			&product.Weight,
			&product.Dimensions,
			&product.Gemstone,
			&product.Images,
			&product.Stock,
			&product.IsActive,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, product)
	}
	return result, rows.Err()
}
