package pgdb

import (
	"context"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ServiceTypeRepo справочник услуг.
type ServiceTypeRepo struct {
	pool *pgxpool.Pool
	conv converter.ServiceTypeConverter
}

func NewServiceTypeRepo(pool *pgxpool.Pool, conv converter.ServiceTypeConverter) *ServiceTypeRepo {
	return &ServiceTypeRepo{pool: pool, conv: conv}
}

func (s *ServiceTypeRepo) List(ctx context.Context) ([]domain.ServiceType, error) {
	query := `
		SELECT id, name, duration_minutes, price, description
		FROM service_types
		ORDER BY position, id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.ServiceType, 0)
	for rows.Next() {
		var m converter.ServiceTypeModel
		if err := rows.Scan(&m.ID, &m.Name, &m.DurationMinutes, &m.Price, &m.Description); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *s.conv.ToEntity(&m))
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

func (s *ServiceTypeRepo) GetByID(ctx context.Context, id string) (*domain.ServiceType, error) {
	query := `
		SELECT id, name, duration_minutes, price, description
		FROM service_types
		WHERE id = $1
	`

	var m converter.ServiceTypeModel
	if err := s.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.DurationMinutes, &m.Price, &m.Description); err != nil {
		if noRows(err) {
			return nil, e.ErrServiceNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(&m), nil
}
