package pgdb

import (
	"context"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	pr.id, pr.name, pr.description, pr.price, pr.rating, pr.image_url, pr.features,
	pr.efficiency, pr.in_stock, pr.category_id, cat.name, pr.brand, pr.position,
	pr.specifications, pr.image_keys, pr.created_at, pr.updated_at, pr.is_archived
`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет продукт по уникальному имени.
// Запись обновляется только если изменилось хотя бы одно поле карточки.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product) (*usecase.UpsertProductRes, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	m := p.conv.ToModel(product)
	query := `
		WITH upsert AS (
		INSERT INTO products (
			name, description, price, rating, image_url, features, efficiency,
			in_stock, category_id, brand, position, specifications, image_keys
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			COALESCE((SELECT MAX(position) FROM products), 0) + 1, $11, $12)
		ON CONFLICT (name)
		DO UPDATE SET
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			rating = EXCLUDED.rating,
			image_url = EXCLUDED.image_url,
			features = EXCLUDED.features,
			efficiency = EXCLUDED.efficiency,
			in_stock = EXCLUDED.in_stock,
			category_id = EXCLUDED.category_id,
			brand = EXCLUDED.brand,
			specifications = EXCLUDED.specifications,
			image_keys = EXCLUDED.image_keys,
			is_archived = false,
			updated_at = NOW()
		WHERE
			products.description IS DISTINCT FROM EXCLUDED.description OR
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.rating IS DISTINCT FROM EXCLUDED.rating OR
			products.features IS DISTINCT FROM EXCLUDED.features OR
			products.efficiency IS DISTINCT FROM EXCLUDED.efficiency OR
			products.in_stock IS DISTINCT FROM EXCLUDED.in_stock OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id OR
			products.brand IS DISTINCT FROM EXCLUDED.brand OR
			products.specifications IS DISTINCT FROM EXCLUDED.specifications OR
			products.image_keys IS DISTINCT FROM EXCLUDED.image_keys OR
			products.is_archived
		RETURNING id
		)
		SELECT id, false AS no_changes FROM upsert

		UNION ALL

		SELECT id, true AS no_changes
		FROM products
		WHERE name = $1
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var (
		id        int64
		noChanges bool
	)
	err = tx.QueryRow(ctx, query,
		m.Name, m.Description, m.Price, m.Rating, m.ImageURL, m.Features, m.Efficiency,
		m.InStock, m.CategoryID, m.Brand, m.Specifications, m.ImageKeys,
	).Scan(&id, &noChanges)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	saved, err := p.scanOne(ctx, tx, `WHERE pr.id = $1`, id)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return usecase.NewUpsertProductRes(saved, noChanges), nil
}

// ListActive возвращает неархивные товары в порядке выдачи "featured".
func (p *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE NOT pr.is_archived
		ORDER BY pr.position, pr.id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Product, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *p.conv.ToEntity(model))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := p.scanOne(ctx, p.pool, `WHERE pr.id = $1 AND NOT pr.is_archived`, id)
	if err != nil {
		if noRows(err) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return product, nil
}

// GetProductsInfo возвращает информацию о продуктах по их идентификаторам, включая название категории.
func (p *ProductRepo) GetProductsInfo(ctx context.Context, ids []int64) ([]usecase.ProductInfo, error) {
	query := `
		SELECT pr.id, pr.name, pr.price, cat.name, pr.brand, pr.in_stock
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1) AND NOT pr.is_archived
	`

	rows, err := p.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ProductInfo, 0)
	for rows.Next() {
		var product usecase.ProductInfo
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.CategoryName, &product.Brand, &product.InStock); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, product)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (p *ProductRepo) scanOne(ctx context.Context, db tr.DBTX, where string, args ...any) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		` + where

	model, err := scanProduct(db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	return p.conv.ToEntity(model), nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var m converter.ProductModel
	err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.Rating, &m.ImageURL, &m.Features,
		&m.Efficiency, &m.InStock, &m.CategoryID, &m.CategoryName, &m.Brand, &m.Position,
		&m.Specifications, &m.ImageKeys, &m.CreatedAt, &m.UpdatedAt, &m.IsArchived,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
