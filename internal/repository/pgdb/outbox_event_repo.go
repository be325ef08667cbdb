package pgdb

import (
	"context"
	"fmt"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// outboxChannel канал NOTIFY, который слушает outbox-воркер.
const outboxChannel = "outbox_pending"

// staleProcessing через столько событие в processing считается брошенным.
const staleProcessing = time.Minute

type OutboxEventRepo struct {
	pool *pgxpool.Pool
	conv converter.OutboxEventConverter
}

func NewOutboxEventRepo(pool *pgxpool.Pool, conv converter.OutboxEventConverter) *OutboxEventRepo {
	return &OutboxEventRepo{pool: pool, conv: conv}
}

// Create пишет событие в транзакции бизнес-операции. NOTIFY доставится только после коммита.
func (o *OutboxEventRepo) Create(ctx context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	const op = "OutboxEventRepo.Create"

	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	m := o.conv.ToModel(event)
	m.Status = string(usecase.Pending)

	err = tx.QueryRow(ctx, `
		INSERT INTO outbox_events (event_id, event_type, aggregate_type, aggregate_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		m.EventID, m.EventType, m.AggregateType, m.AggregateID, m.Payload, m.Status, m.CreatedAt,
	).Scan(&m.ID, &m.CreatedAt)
	switch {
	case postgresDuplicate(err):
		return nil, e.Wrap(op, fmt.Errorf("event %s already queued", event.EventID))
	case err != nil:
		return nil, e.Wrap(op, err)
	}

	if _, err := tx.Exec(ctx, "SELECT pg_notify($1, $2)", outboxChannel, m.EventType); err != nil {
		return nil, e.Wrap(op, err)
	}

	return o.conv.ToEntity(m), nil
}

// GetAndMarkAsProcessing атомарно забирает пачку pending-событий и брошенных processing.
func (o *OutboxEventRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	var models []*converter.OutboxEventModel

	err := pgx.BeginFunc(ctx, o.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE outbox_events
			SET status = $1, processing_started_at = now()
			WHERE id IN (
				SELECT id FROM outbox_events
				WHERE status = $2
				   OR (status = $1 AND processing_started_at < now() - make_interval(secs => $4))
				ORDER BY created_at
				LIMIT $3
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id, event_id, event_type, aggregate_type, aggregate_id, payload, status, created_at, processed_at`,
			string(usecase.Processing), string(usecase.Pending), limit, staleProcessing.Seconds(),
		)
		if err != nil {
			return err
		}

		models, err = pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[converter.OutboxEventModel])
		return err
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return o.conv.ToArrEntity(models), nil
}

// MarkAsProcessed закрывает событие. Если его уже закрыл другой воркер, ничего не меняется.
func (o *OutboxEventRepo) MarkAsProcessed(ctx context.Context, id int64) error {
	_, err := o.pool.Exec(ctx,
		`UPDATE outbox_events SET status = $1, processed_at = now() WHERE id = $2 AND status = $3`,
		string(usecase.Processed), id, string(usecase.Processing),
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("event %d: %w", id, err))
	}
	return nil
}

// DeleteProcessedBefore удаляет обработанные события старше before.
func (o *OutboxEventRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := o.pool.Exec(ctx,
		`DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`,
		string(usecase.Processed), before,
	)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}
	return res.RowsAffected(), nil
}
