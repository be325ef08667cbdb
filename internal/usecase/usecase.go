package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
)

type ProductUC interface {
	QueryCatalog(ctx context.Context, query CatalogQuery) (*CatalogPage, error)
	GetProduct(ctx context.Context, id int64) (*ProductDetails, error)
	GetProductsInfo(ctx context.Context, req *GetProductsReq) (*GetProductsRes, error)
	Quote(ctx context.Context, req *QuoteReq) (*QuoteRes, error)
	RelatedProducts(ctx context.Context, id int64, limit int) ([]domain.Product, error)
	RegisterNewProduct(ctx context.Context, req *AddNewProductReq) (*OutboxEvent, error)
}

type SchedulingUC interface {
	ListServiceTypes(ctx context.Context) ([]domain.ServiceType, error)
	ListTechnicians(ctx context.Context) ([]domain.Technician, error)
	GetTimeSlots(ctx context.Context, date time.Time, technicianID string) ([]domain.Slot, error)
	StartWizard(ctx context.Context, userID int64) (*WizardView, error)
	GetWizard(ctx context.Context, id string, userID int64) (*WizardView, error)
	DiscardWizard(ctx context.Context, id string, userID int64) error
	SelectDateTime(ctx context.Context, id string, userID int64, req SelectDateTimeReq) (*WizardView, error)
	SelectService(ctx context.Context, id string, userID int64, serviceID string) (*WizardView, error)
	SelectTechnician(ctx context.Context, id string, userID int64, technicianID string) (*WizardView, error)
	SetAddress(ctx context.Context, id string, userID int64, address string) (*WizardView, error)
	Next(ctx context.Context, id string, userID int64) (*WizardView, error)
	Back(ctx context.Context, id string, userID int64) (*WizardView, error)
}

type BookingUC interface {
	Confirm(ctx context.Context, req *ConfirmBookingReq) (*BookingConfirmation, error)
}

type AppointmentUC interface {
	ListForCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	ListForAdmin(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)
	Cancel(ctx context.Context, reference string, customer domain.Session) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, reference string, status string) (*domain.Appointment, error)
	AssignTechnician(ctx context.Context, reference string, technicianID string) (*domain.Appointment, error)
}

type AuthUC interface {
	Signup(ctx context.Context, req *SignupReq) (*AuthRes, error)
	Login(ctx context.Context, req *LoginReq) (*AuthRes, error)
	Logout(ctx context.Context, session *domain.Session) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}
