package kafka

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/jitter"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"
)

const (
	outboxChannel   = "outbox_pending"
	outboxBatchSize = 10
	listenTimeout   = 30 * time.Second
)

var reconnectBackoff = jitter.NewBackoff(2*time.Second, 30*time.Second)

// OutboxWorker публикует события outbox в Kafka. Разгребает очередь при старте,
// по уведомлению NOTIFY outbox_pending и по таймеру, чтобы подобрать события,
// зависшие в processing после сбоя.
type OutboxWorker struct {
	repo         usecase.OutboxRepository
	logger       logger.Logger
	producer     usecase.MessageProducer
	stop         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	dbConnStr    string
	pollInterval time.Duration
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
	pollInterval time.Duration,
) *OutboxWorker {
	return &OutboxWorker{
		repo:         repo,
		logger:       logger,
		producer:     producer,
		stop:         make(chan struct{}),
		dbConnStr:    dbConnStr,
		pollInterval: pollInterval,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	w.wg.Add(3)
	go func() {
		defer w.wg.Done()
		<-w.stop
		cancel()
	}()

	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	w.logger.Infof("outbox worker started, draining backlog")
	w.drain(ctx)

	if w.pollInterval <= 0 {
		<-ctx.Done()
		w.logger.Infof("outbox worker stopped")
		return
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("outbox worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// listenOutboxNotifications держит отдельное соединение с LISTEN и
// переподключается с backoff. После каждого переподключения очередь
// разгребается, так как уведомления за время разрыва потеряны.
func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
	for attempt := 0; ctx.Err() == nil; attempt++ {
		subscribed, err := w.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if subscribed {
			attempt = 0
		}
		w.logger.Warnf("outbox LISTEN interrupted: %v", err)
		if !w.sleep(ctx, reconnectBackoff.Next(attempt)) {
			return
		}
	}
}

// listen возвращает управление только при ошибке соединения или отмене ctx.
// subscribed=true, если LISTEN успел выполниться.
func (w *OutboxWorker) listen(ctx context.Context) (subscribed bool, err error) {
	conn, err := pgx.Connect(ctx, w.dbConnStr)
	if err != nil {
		return false, e.Wrap("outbox listen connect", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{outboxChannel}.Sanitize()); err != nil {
		return false, e.Wrap("outbox listen", err)
	}
	w.logger.Infof("outbox worker subscribed to %s", outboxChannel)
	w.drain(ctx)

	for {
		waitCtx, cancel := context.WithTimeout(ctx, listenTimeout)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		switch {
		case ctx.Err() != nil:
			return true, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			continue
		case err != nil:
			return true, err
		case notif.Channel == outboxChannel:
			w.logger.Debugf("outbox notification %q, draining", notif.Payload)
			w.drain(ctx)
		}
	}
}

// drain обрабатывает пачки, пока очередь не опустеет.
func (w *OutboxWorker) drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("outbox batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch возвращает true, если стоит запросить следующую пачку.
// Пачка, в которой ни одно событие не ушло, останавливает разгребание:
// такие события вернутся в очередь по таймауту processing.
func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, outboxBatchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	sent := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.logger.Warnf("outbox event %s (%s) not sent: %v", event.EventID, event.EventType, err)
			continue
		}
		sent++
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return sent > 0, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	req := usecase.NewWriteRawMessageReq(event.AggregateID, string(event.EventType), event.Payload)
	err := w.producer.WriteRawMessage(ctx, req)
	switch {
	case err == nil:
		return nil
	case isRetryableError(err):
		return e.Wrap("kafka unavailable, event stays queued", err)
	default:
		return e.Wrap("kafka rejected event", err)
	}
}

func (w *OutboxWorker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

var retryablePhrases = []string{
	"connection refused",
	"i/o timeout",
	"network is unreachable",
	"broker not available",
	"connection reset",
	"broken pipe",
	"no such host",
}

// isRetryableError отделяет сетевые и временные ошибки брокера от ошибок
// самого сообщения, которые повтор не исправит.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	var kerr kafka.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
