package pgdb

import (
	"context"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

type TechnicianRepo struct {
	pool *pgxpool.Pool
	conv converter.TechnicianConverter
}

func NewTechnicianRepo(pool *pgxpool.Pool, conv converter.TechnicianConverter) *TechnicianRepo {
	return &TechnicianRepo{pool: pool, conv: conv}
}

func (t *TechnicianRepo) List(ctx context.Context) ([]domain.Technician, error) {
	query := `
		SELECT id, name, specialization, rating, available, image_url
		FROM technicians
		ORDER BY position, id
	`

	rows, err := t.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Technician, 0)
	for rows.Next() {
		var m converter.TechnicianModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Specialization, &m.Rating, &m.Available, &m.ImageURL); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *t.conv.ToEntity(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (t *TechnicianRepo) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	query := `
		SELECT id, name, specialization, rating, available, image_url
		FROM technicians
		WHERE id = $1
	`

	var m converter.TechnicianModel
	if err := t.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Specialization, &m.Rating, &m.Available, &m.ImageURL); err != nil {
		if noRows(err) {
			return nil, e.ErrTechnicianNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return t.conv.ToEntity(&m), nil
}
