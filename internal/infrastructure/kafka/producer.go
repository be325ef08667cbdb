package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

const (
	eventTypeHeader   = "event_type"
	contentTypeHeader = "content_type"
	sourceHeader      = "source"

	contentTypeJSON = "application/json"
	sourceName      = "aircon-backend"
)

var errNoBrokers = errors.New("no kafka brokers configured")

// Producer публикует события outbox. Ключ сообщения ID агрегата, поэтому
// события одного визита попадают в одну партицию и сохраняют порядок.
type Producer struct {
	writer *kafka.Writer
	dialer *kafka.Dialer
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(log logger.Logger, cfg *cfg.KafkaCfg) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), errNoBrokers)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            3,
		BatchSize:              20,
		BatchTimeout:           200 * time.Millisecond,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: false,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warnf("kafka: %d messages failed: %v", len(messages), err)
			}
		},
	}

	return &Producer{
		writer: writer,
		dialer: &kafka.Dialer{Timeout: 5 * time.Second, ClientID: sourceName},
		logger: log,
		cfg:    cfg,
	}, nil
}

func (p *Producer) WriteRawMessage(ctx context.Context, req *usecase.WriteRawMessageReq) error {
	if err := p.writer.WriteMessages(ctx, toMessage(req)); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	p.logger.Debugf("kafka: %s for %s published to %s", req.EventType, req.Key, p.cfg.Topic)
	return nil
}

func toMessage(req *usecase.WriteRawMessageReq) kafka.Message {
	headers := []kafka.Header{
		{Key: contentTypeHeader, Value: []byte(contentTypeJSON)},
		{Key: sourceHeader, Value: []byte(sourceName)},
	}
	if req.EventType != "" {
		headers = append(headers, kafka.Header{Key: eventTypeHeader, Value: []byte(req.EventType)})
	}

	return kafka.Message{
		Key:     []byte(req.Key),
		Value:   req.Payload,
		Headers: headers,
	}
}

// EnsureTopic создает топик через контроллер кластера, если его еще нет.
func (p *Producer) EnsureTopic(ctx context.Context) error {
	const op = "Producer.EnsureTopic"

	conn, err := p.dialer.DialContext(ctx, p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(op, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if partitions, err := conn.ReadPartitions(p.cfg.Topic); err == nil && len(partitions) > 0 {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return e.Wrap(op, err)
	}

	ctrl, err := p.dialer.DialContext(ctx, p.cfg.NetworkMode, net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return e.Wrap(op, err)
	}
	defer ctrl.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = ctrl.SetDeadline(deadline)
	}

	err = ctrl.CreateTopics(kafka.TopicConfig{
		Topic:             p.cfg.Topic,
		NumPartitions:     p.cfg.Partitions,
		ReplicationFactor: p.cfg.ReplicationFactor,
	})
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return e.Wrap(op, fmt.Errorf("create topic %s: %w", p.cfg.Topic, err))
	}

	p.logger.Infof("kafka topic %s ready (partitions=%d)", p.cfg.Topic, p.cfg.Partitions)
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
