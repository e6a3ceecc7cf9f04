package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/accmarket/internal/domain"
	"github.com/fsdevblog/accmarket/internal/repository/repoargs"
	"github.com/fsdevblog/accmarket/pkg/uow"
)

const productColumns = `id, created_at, updated_at, name, logo, category`

type ProductRepository struct {
	conn uow.DBTX
}

func NewProductRepository(conn uow.DBTX) *ProductRepository {
	return &ProductRepository{conn: conn}
}

func (p *ProductRepository) Create(ctx context.Context, product repoargs.CreateProduct) (*domain.Product, error) {
	row := p.conn.QueryRow(ctx, `
		INSERT INTO products (name, logo, category)
		VALUES ($1, $2, $3)
		RETURNING `+productColumns,
		product.Name, product.Logo, product.Category,
	)
	dbProduct, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "creating product `%s`", product.Name)
	}
	return dbProduct, nil
}

func (p *ProductRepository) Update(ctx context.Context, product repoargs.UpdateProduct) (*domain.Product, error) {
	row := p.conn.QueryRow(ctx, `
		UPDATE products SET name = $1, logo = $2, category = $3, updated_at = now()
		WHERE id = $4
		RETURNING `+productColumns,
		product.Name, product.Logo, product.Category, product.ID,
	)
	dbProduct, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "updating product `%d`", product.ID)
	}
	return dbProduct, nil
}

func (p *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.conn.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return convertErr(err, "deleting product `%d`", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting product `%d`", id)
	}
	return nil
}

func (p *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := p.conn.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	dbProduct, err := scanProduct(row)
	if err != nil {
		return nil, convertErr(err, "finding product `%d`", id)
	}
	return dbProduct, nil
}

func (p *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	rows, err := p.conn.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, convertErr(err, "getting products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning product")
		}
		products = append(products, *product)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting products")
	}
	return products, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID, &product.CreatedAt, &product.UpdatedAt,
		&product.Name, &product.Logo, &product.Category,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &product, nil
}
