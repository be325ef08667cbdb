package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
)

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// PaymentGateway платежный провайдер. Отказ возвращается как *e.PaymentError,
// временная недоступность как e.ErrGatewayUnavailable.
type PaymentGateway interface {
	Charge(ctx context.Context, req *ChargeReq) (*ChargeRes, error)
	Refund(ctx context.Context, paymentReference string, amount int64) error
}

// AvailabilityChecker отвечает на вопрос, свободны ли мастера в заданное время.
type AvailabilityChecker interface {
	// Slots возвращает сетку слотов на дату. При пустом technicianID слот свободен,
	// если свободен хотя бы один доступный мастер.
	Slots(ctx context.Context, date time.Time, technicianID string, duration time.Duration) ([]domain.Slot, error)
	TechnicianFree(ctx context.Context, technicianID string, start time.Time, duration time.Duration, excludeRef string) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenManager interface {
	Issue(session *domain.Session) (string, *domain.Session, error)
	Parse(token string) (*domain.Session, error)
}

type ReferenceGenerator interface {
	NewReference() string
}
