package usecase

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	ProductUpserted               OutboxEventType = "product.upserted"
	AppointmentConfirmed          OutboxEventType = "appointment.confirmed"
	AppointmentCancelled          OutboxEventType = "appointment.cancelled"
	AppointmentStatusChanged      OutboxEventType = "appointment.status_changed"
	AppointmentTechnicianAssigned OutboxEventType = "appointment.technician_assigned"
)

type AggregateType string

const (
	AggregateProduct     AggregateType = "product"
	AggregateAppointment AggregateType = "appointment"
)

// OutboxEvent событие, записанное в одной транзакции с бизнес-изменением.
type OutboxEvent struct {
	ID            int64
	EventID       string
	EventType     OutboxEventType
	AggregateType AggregateType
	AggregateID   string
	Payload       []byte // protobuf google.protobuf.Struct
	Status        OutboxStatus
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// NewOutboxEvent собирает событие; поля сериализуются в protobuf Struct
// вместе с идентификатором, типом и временем события.
func NewOutboxEvent(eventType OutboxEventType, aggType AggregateType, aggID string, fields map[string]any) (*OutboxEvent, error) {
	var (
		eventID = uuid.NewString()
		now     = time.Now().UTC()
	)

	body := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		body[k] = v
	}
	body["event_id"] = eventID
	body["event_type"] = string(eventType)
	body["aggregate_id"] = aggID
	body["occurred_at"] = now.Format(time.RFC3339Nano)

	st, err := structpb.NewStruct(body)
	if err != nil {
		return nil, err
	}

	payload, err := proto.Marshal(st)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:       eventID,
		EventType:     eventType,
		AggregateType: aggType,
		AggregateID:   aggID,
		Payload:       payload,
		Status:        Pending,
		CreatedAt:     now,
	}, nil
}
