package usecase

import (
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
)

// PRODUCT USECASE

// AddNewProductReq запрос на добавление нового товара в каталог.
type AddNewProductReq struct {
	Title          string
	Description    string
	CategoryName   string
	Brand          string
	Efficiency     string
	Price          int64
	Rating         float64
	InStock        bool
	Features       []string
	Specifications map[string]string
	Images         []ProductImage
}

// ProductImage представляет изображение, загруженное через multipart/form-data.
type ProductImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// GetProductsReq запрос информации о продуктах по их идентификаторам.
type GetProductsReq struct {
	IDs []int64
}

// GetProductsRes ответ с данными запрошенных продуктов.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []int64
}

// ProductInfo DTO с краткой информацией о товаре для корзины и оформления заказа.
type ProductInfo struct {
	ID           int64
	Name         string
	CategoryName string
	Brand        string
	Price        int64
	InStock      bool
}

// ProductDetails карточка товара с вариантами монтажа.
type ProductDetails struct {
	Product             domain.Product
	InstallationOptions []domain.InstallationOption
}

// QuoteReq расчет стоимости покупки.
type QuoteReq struct {
	ProductID      int64
	Quantity       int
	InstallationID string
}

// QuoteRes итоговая стоимость в центах.
type QuoteRes struct {
	ProductID         int64
	UnitPrice         int64
	Quantity          int
	Subtotal          int64
	Installation      *domain.InstallationOption
	InstallationPrice int64
	Total             int64
	InStock           bool
}

// SCHEDULING USECASE

// WizardView состояние мастера записи для клиента.
type WizardView struct {
	ID         string
	Step       domain.WizardStep
	CanAdvance bool
	Draft      domain.Draft
	Summary    *DraftSummary
	Slots      []domain.Slot
}

// DraftSummary расшифровка выбранной услуги и мастера.
type DraftSummary struct {
	ServiceName     string
	Price           int64
	DurationMinutes int
	TechnicianName  string
}

// SelectDateTimeReq выбор даты и, опционально, времени.
type SelectDateTimeReq struct {
	Date time.Time
	Time string
}

// BOOKING USECASE

// PaymentDetails данные карты из формы оплаты.
type PaymentDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required,numeric,min=13,max=19,luhn"`
	CardholderName string `json:"cardholderName" validate:"required,min=2"`
	Expiry         string `json:"expiry" validate:"required,expiry"`
	CVV            string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// ConfirmBookingReq подтверждение записи с оплатой.
type ConfirmBookingReq struct {
	SessionID      string
	Customer       domain.Session
	Payment        PaymentDetails
	IdempotencyKey string
	Notes          string
}

// BookingConfirmation результат подтверждения записи.
type BookingConfirmation struct {
	Reference        string
	Date             time.Time
	Time             string
	ServiceType      string
	ServiceName      string
	Technician       string
	TechnicianName   string
	Address          string
	Price            int64
	PaymentReference string
	Status           domain.AppointmentStatus
	Replayed         bool
}

// AppointmentFilter фильтр списка визитов для администратора.
type AppointmentFilter struct {
	Search string
	Status string
}

// AUTH USECASE

type SignupReq struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRes токен и данные сессии.
type AuthRes struct {
	Token   string
	Session domain.Session
}

// INFRASTUCTURE

// WriteRawMessageReq готовое к отправке событие.
type WriteRawMessageReq struct {
	Key       string // ключ партиционирования, ID агрегата
	EventType string
	Payload   []byte
}

// UploadImagesRes результат загрузки изображений (ключи и публичные ссылки в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
	URLs       []string
}

// UploadImagesReq запрос на загрузку изображений продукта.
type UploadImagesReq struct {
	Name   string
	Images []ProductImage
}

// ChargeReq списание оплаты за визит.
type ChargeReq struct {
	Amount         int64
	Currency       string
	Card           PaymentDetails
	Description    string
	IdempotencyKey string
}

// ChargeRes ответ платежного шлюза.
type ChargeRes struct {
	PaymentReference string
	Amount           int64
}

// REPOSITORIES

type UpsertProductRes struct {
	Product   *domain.Product
	NoChanges bool
}

// MAPPERS
func NewUpsertProductRes(product *domain.Product, noChanges bool) *UpsertProductRes {
	return &UpsertProductRes{
		Product:   product,
		NoChanges: noChanges,
	}
}

func NewProductInfo(id int64, name string, category string, brand string, price int64, inStock bool) ProductInfo {
	return ProductInfo{
		ID:           id,
		Name:         name,
		CategoryName: category,
		Brand:        brand,
		Price:        price,
		InStock:      inStock,
	}
}

func NewProductInfoFromProduct(p *domain.Product) ProductInfo {
	return NewProductInfo(p.ID, p.Title, p.Category, p.Brand, p.Price, p.InStock)
}

func NewUploadImagesReq(name string, images []ProductImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string, urls []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
		URLs:       urls,
	}
}

func NewAddNewProductReq(title string, category string, brand string, price int64, images []ProductImage) *AddNewProductReq {
	return &AddNewProductReq{
		Title:        title,
		CategoryName: category,
		Brand:        brand,
		Price:        price,
		InStock:      true,
		Images:       images,
	}
}

func NewProductImage(data []byte, mimeType string, size int64, name string) *ProductImage {
	return &ProductImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewGetProductsRes(pr []ProductInfo, notFoundProducts []int64) *GetProductsRes {
	return &GetProductsRes{
		Products:         pr,
		NotFoundProducts: notFoundProducts,
	}
}

func NewGetProductsReq(ids []int64) *GetProductsReq {
	return &GetProductsReq{ids}
}

func NewQuoteReq(productID int64, quantity int, installationID string) *QuoteReq {
	return &QuoteReq{
		ProductID:      productID,
		Quantity:       quantity,
		InstallationID: installationID,
	}
}

func NewWriteRawMessageReq(key string, eventType string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:       key,
		EventType: eventType,
		Payload:   payload,
	}
}

func NewChargeReq(amount int64, currency string, card PaymentDetails, description string, idempotencyKey string) *ChargeReq {
	return &ChargeReq{
		Amount:         amount,
		Currency:       currency,
		Card:           card,
		Description:    description,
		IdempotencyKey: idempotencyKey,
	}
}

func NewBookingConfirmation(a *domain.Appointment, replayed bool) *BookingConfirmation {
	return &BookingConfirmation{
		Reference:        a.Reference,
		Date:             domain.StartOfDay(a.StartsAt),
		Time:             a.Display(),
		ServiceType:      a.ServiceTypeID,
		ServiceName:      a.ServiceName,
		Technician:       a.TechnicianID,
		TechnicianName:   a.TechnicianName,
		Address:          a.Address,
		Price:            a.Price,
		PaymentReference: a.PaymentReference,
		Status:           a.Status,
		Replayed:         replayed,
	}
}
