package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DB es lo que el repositorio necesita de pgx. *pgxpool.Pool lo cumple.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Los decimales viajan como texto en ambos sentidos para no perder precisión.
const productColumns = `id, type, description, price::text, weight::text`

// Repository accede a la tabla products.
// Cada operación es una sola sentencia: el autocommit de Postgres la hace atómica.
type Repository struct {
	database DB
}

// NewRepository crea un repositorio de productos.
func NewRepository(database DB) *Repository {
	return &Repository{database: database}
}

// ListAll devuelve todos los productos, el más nuevo (id mayor) primero.
func (repository *Repository) ListAll(ctx context.Context) ([]Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY id DESC;`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID busca un producto; ErrorNotFound si no existe.
func (repository *Repository) GetByID(ctx context.Context, id int64) (Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1;`

	product, err := scanProduct(repository.database.QueryRow(ctx, query, id))
	if err != nil {
		return Product{}, notFound(err)
	}
	return product, nil
}

// Insert crea el producto y devuelve el registro con el id asignado por la base.
func (repository *Repository) Insert(ctx context.Context, fields ProductFields) (Product, error) {
	const query = `
		INSERT INTO products (type, description, price, weight)
		VALUES ($1, $2, $3::numeric, $4::numeric)
		RETURNING ` + productColumns + `;
	`

	return scanProduct(repository.database.QueryRow(ctx, query,
		fields.Type, fields.Description, fields.Price.String(), weightArg(fields.Weight)))
}

// Update reemplaza todos los campos mutables. El id no cambia nunca.
func (repository *Repository) Update(ctx context.Context, id int64, fields ProductFields) (Product, error) {
	const query = `
		UPDATE products
		SET type = $1, description = $2, price = $3::numeric, weight = $4::numeric
		WHERE id = $5
		RETURNING ` + productColumns + `;
	`

	product, err := scanProduct(repository.database.QueryRow(ctx, query,
		fields.Type, fields.Description, fields.Price.String(), weightArg(fields.Weight), id))
	if err != nil {
		return Product{}, notFound(err)
	}
	return product, nil
}

// Delete borra el registro (borrado físico).
func (repository *Repository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM products WHERE id = $1 RETURNING id;`

	var deletedID int64
	if err := repository.database.QueryRow(ctx, query, id).Scan(&deletedID); err != nil {
		return notFound(err)
	}
	return nil
}

// scanProduct mapea una fila (pgx.Row o pgx.Rows) a Product.
func scanProduct(row pgx.Row) (Product, error) {
	var (
		product Product
		price   string
		weight  *string
	)
	if err := row.Scan(&product.ID, &product.Type, &product.Description, &price, &weight); err != nil {
		return Product{}, err
	}

	parsedPrice, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("decoding price of product %d: %w", product.ID, err)
	}
	product.Price = parsedPrice

	if weight != nil {
		parsedWeight, err := decimal.NewFromString(*weight)
		if err != nil {
			return Product{}, fmt.Errorf("decoding weight of product %d: %w", product.ID, err)
		}
		product.Weight = decimal.NewNullDecimal(parsedWeight)
	}
	return product, nil
}

// weightArg traduce peso ausente a NULL.
func weightArg(weight decimal.NullDecimal) *string {
	if !weight.Valid {
		return nil
	}
	value := weight.Decimal.String()
	return &value
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}
	return err
}
