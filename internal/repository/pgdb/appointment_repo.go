package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const appointmentColumns = `
	id, reference, customer_id, customer_name, customer_email, service_type_id, service_name,
	technician_id, technician_name, address, starts_at, duration_minutes, price,
	payment_reference, status, notes, idempotency_key, created_at, updated_at
`

// AppointmentRepo хранит подтвержденные визиты.
type AppointmentRepo struct {
	pool *pgxpool.Pool
	conv converter.AppointmentConverter
}

func NewAppointmentRepo(pool *pgxpool.Pool, conv converter.AppointmentConverter) *AppointmentRepo {
	return &AppointmentRepo{pool: pool, conv: conv}
}

// Create сохраняет визит; вызывается только внутри транзакции вместе с событием outbox.
func (a *AppointmentRepo) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	m := a.conv.ToModel(appointment)
	query := `
		INSERT INTO appointments (
			reference, customer_id, customer_name, customer_email, service_type_id, service_name,
			technician_id, technician_name, address, starts_at, duration_minutes, price,
			payment_reference, status, notes, idempotency_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + appointmentColumns

	saved, err := scanAppointment(tx.QueryRow(ctx, query,
		m.Reference, m.CustomerID, m.CustomerName, m.CustomerEmail, m.ServiceTypeID, m.ServiceName,
		m.TechnicianID, m.TechnicianName, m.Address, m.StartsAt, m.DurationMinutes, m.Price,
		m.PaymentReference, m.Status, m.Notes, m.IdempotencyKey,
	))
	if err != nil {
		if duplicateOn(err, "appointments_customer_idempotency_key") {
			return nil, fmt.Errorf("%s: idempotency key %s already used", whereami.WhereAmI(), appointment.IdempotencyKey)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(saved), nil
}

func (a *AppointmentRepo) GetByReference(ctx context.Context, reference string) (*domain.Appointment, error) {
	return a.getOne(ctx, `WHERE reference = $1`, reference)
}

// GetByIdempotencyKey ключ уникален в пределах клиента.
func (a *AppointmentRepo) GetByIdempotencyKey(ctx context.Context, customerID int64, key string) (*domain.Appointment, error) {
	return a.getOne(ctx, `WHERE customer_id = $1 AND idempotency_key = $2`, customerID, key)
}

// ListBetween возвращает визиты, которые еще занимают мастеров, с началом в [from, to).
func (a *AppointmentRepo) ListBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE starts_at >= $1 AND starts_at < $2
		  AND status = ANY($3)
		ORDER BY starts_at
	`

	active := []string{string(domain.StatusScheduled), string(domain.StatusInProgress)}
	return a.list(ctx, query, from, to, active)
}

func (a *AppointmentRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE customer_id = $1
		ORDER BY starts_at
	`

	return a.list(ctx, query, customerID)
}

// Search ищет без учета регистра по имени клиента и номеру визита.
func (a *AppointmentRepo) Search(ctx context.Context, filter usecase.AppointmentFilter) ([]domain.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE ($1 = '' OR strpos(lower(customer_name), lower($1)) > 0 OR strpos(lower(reference), lower($1)) > 0)
		  AND ($2 = 'all' OR status = $2)
		ORDER BY starts_at DESC
	`

	return a.list(ctx, query, filter.Search, filter.Status)
}

// UpdateStatus меняет статус при совпадении текущего; гонка с другим изменением дает ErrInvalidStatusTransition.
func (a *AppointmentRepo) UpdateStatus(ctx context.Context, reference string, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $3, updated_at = NOW()
		WHERE reference = $1 AND status = $2
		RETURNING ` + appointmentColumns

	m, err := scanAppointment(tr.Conn(ctx, a.pool).QueryRow(ctx, query, reference, string(from), string(to)))
	if err != nil {
		if noRows(err) {
			if _, getErr := a.GetByReference(ctx, reference); getErr != nil {
				return nil, getErr
			}
			return nil, e.ErrInvalidStatusTransition
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(m), nil
}

func (a *AppointmentRepo) UpdateTechnician(ctx context.Context, reference string, technician *domain.Technician) (*domain.Appointment, error) {
	query := `
		UPDATE appointments
		SET technician_id = $2, technician_name = $3, updated_at = NOW()
		WHERE reference = $1
		RETURNING ` + appointmentColumns

	m, err := scanAppointment(tr.Conn(ctx, a.pool).QueryRow(ctx, query, reference, technician.ID, technician.Name))
	if err != nil {
		if noRows(err) {
			return nil, e.ErrAppointmentNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(m), nil
}

func (a *AppointmentRepo) getOne(ctx context.Context, where string, args ...any) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments ` + where

	m, err := scanAppointment(tr.Conn(ctx, a.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, e.ErrAppointmentNotFound
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToEntity(m), nil
}

func (a *AppointmentRepo) list(ctx context.Context, query string, args ...any) ([]domain.Appointment, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.AppointmentModel, 0)
	for rows.Next() {
		m, err := scanAppointment(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a.conv.ToArrEntity(models), nil
}

func scanAppointment(row pgx.Row) (*converter.AppointmentModel, error) {
	var m converter.AppointmentModel
	err := row.Scan(
		&m.ID, &m.Reference, &m.CustomerID, &m.CustomerName, &m.CustomerEmail, &m.ServiceTypeID, &m.ServiceName,
		&m.TechnicianID, &m.TechnicianName, &m.Address, &m.StartsAt, &m.DurationMinutes, &m.Price,
		&m.PaymentReference, &m.Status, &m.Notes, &m.IdempotencyKey, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
