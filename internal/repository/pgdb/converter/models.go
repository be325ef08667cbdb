package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID             int64             `db:"id"`
	Name           string            `db:"name"`
	Description    string            `db:"description"`
	Price          int64             `db:"price"`
	Rating         float64           `db:"rating"`
	ImageURL       string            `db:"image_url"`
	Features       []string          `db:"features"`
	Efficiency     string            `db:"efficiency"`
	InStock        bool              `db:"in_stock"`
	CategoryID     int64             `db:"category_id"`
	CategoryName   string            `db:"category_name"`
	Brand          string            `db:"brand"`
	Position       int               `db:"position"`
	Specifications map[string]string `db:"specifications"`
	ImageKeys      []string          `db:"image_keys"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      *time.Time        `db:"updated_at"`
	IsArchived     bool              `db:"is_archived"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	Slug       string     `db:"slug"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

type ServiceTypeModel struct {
	ID              string `db:"id"`
	Name            string `db:"name"`
	DurationMinutes int    `db:"duration_minutes"`
	Price           int64  `db:"price"`
	Description     string `db:"description"`
}

type TechnicianModel struct {
	ID             string  `db:"id"`
	Name           string  `db:"name"`
	Specialization string  `db:"specialization"`
	Rating         float64 `db:"rating"`
	Available      bool    `db:"available"`
	ImageURL       string  `db:"image_url"`
}

// AppointmentModel представляет запись таблицы appointments в PostgreSQL.
type AppointmentModel struct {
	ID               int64      `db:"id"`
	Reference        string     `db:"reference"`
	CustomerID       int64      `db:"customer_id"`
	CustomerName     string     `db:"customer_name"`
	CustomerEmail    string     `db:"customer_email"`
	ServiceTypeID    string     `db:"service_type_id"`
	ServiceName      string     `db:"service_name"`
	TechnicianID     string     `db:"technician_id"`
	TechnicianName   string     `db:"technician_name"`
	Address          string     `db:"address"`
	StartsAt         time.Time  `db:"starts_at"`
	DurationMinutes  int        `db:"duration_minutes"`
	Price            int64      `db:"price"`
	PaymentReference string     `db:"payment_reference"`
	Status           string     `db:"status"`
	Notes            string     `db:"notes"`
	IdempotencyKey   *string    `db:"idempotency_key"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

type UserModel struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID            int64      `db:"id"`
	EventID       string     `db:"event_id"`
	EventType     string     `db:"event_type"`
	AggregateType string     `db:"aggregate_type"`
	AggregateID   string     `db:"aggregate_id"`
	Payload       []byte     `db:"payload"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	ProcessedAt   *time.Time `db:"processed_at"`
}
