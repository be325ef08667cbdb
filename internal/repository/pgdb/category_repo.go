package pgdb

import (
	"context"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CategoryRepo реализует репозиторий категорий поверх PostgreSQL.
type CategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.CategoryConverter
}

func NewCategoryRepo(pool *pgxpool.Pool, conv converter.CategoryConverter) *CategoryRepo {
	return &CategoryRepo{pool: pool, conv: conv}
}

// Create идемпотентно создаёт категорию по имени и возвращает существующую при повторе.
func (c *CategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// DO UPDATE вместо DO NOTHING, чтобы RETURNING вернул строку и при конфликте
	query := `
		INSERT INTO categories(name, slug) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET is_archived = false
		RETURNING id, name, slug, created_at, updated_at, is_archived;
	`

	m := c.conv.ToModel(category)
	var model converter.CategoryModel
	if err := tx.QueryRow(ctx, query, m.Name, m.Slug).
		Scan(
			&model.ID, &model.Name, &model.Slug, &model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
		); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}
