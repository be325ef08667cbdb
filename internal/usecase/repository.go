package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
)

type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product) (*UpsertProductRes, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsInfo(ctx context.Context, ids []int64) ([]ProductInfo, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Delete(ctx context.Context, key string) error
}

// VectorRepository хранит векторы признаков товаров и ищет ближайших соседей.
type VectorRepository interface {
	Upsert(ctx context.Context, vectors []domain.ProductVector) error
	Similar(ctx context.Context, productID int64, vector []float32, limit int) ([]int64, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []int64) (map[int64]ProductInfo, error)
	SetProducts(ctx context.Context, products []ProductInfo) error
	DeleteProducts(ctx context.Context, ids []int64) error
	// GetCatalog возвращает ok=false при промахе кэша.
	GetCatalog(ctx context.Context) ([]domain.Product, bool, error)
	SetCatalog(ctx context.Context, products []domain.Product) error
	DeleteCatalog(ctx context.Context) error
}

type ServiceTypeRepository interface {
	List(ctx context.Context) ([]domain.ServiceType, error)
	GetByID(ctx context.Context, id string) (*domain.ServiceType, error)
}

type TechnicianRepository interface {
	List(ctx context.Context) ([]domain.Technician, error)
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetByReference(ctx context.Context, reference string) (*domain.Appointment, error)
	GetByIdempotencyKey(ctx context.Context, customerID int64, key string) (*domain.Appointment, error)
	// ListBetween возвращает визиты со статусами scheduled и in-progress, начинающиеся в [from, to).
	ListBetween(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	Search(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
	// UpdateStatus меняет статус, только если текущий равен from.
	UpdateStatus(ctx context.Context, reference string, from, to domain.AppointmentStatus) (*domain.Appointment, error)
	UpdateTechnician(ctx context.Context, reference string, technician *domain.Technician) (*domain.Appointment, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}

// WizardRepository хранит черновики записи между запросами.
type WizardRepository interface {
	Save(ctx context.Context, wizard *domain.Wizard) error
	Get(ctx context.Context, id string) (*domain.Wizard, error)
	Delete(ctx context.Context, id string) error
}

// IdempotencyRepository запоминает ссылку на запись по ключу идемпотентности клиента.
type IdempotencyRepository interface {
	GetReference(ctx context.Context, customerID int64, key string) (string, bool, error)
	SaveReference(ctx context.Context, customerID int64, key string, reference string) error
}

// LockRepository распределенная блокировка; ErrBookingInProgress, если ключ занят.
type LockRepository interface {
	Acquire(ctx context.Context, key string) (release func(ctx context.Context) error, err error)
}

// TokenDenylist отозванные до истечения срока токены.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TxManager выполняет fn в одной транзакции БД.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
