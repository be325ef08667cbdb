package http

import (
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/shopspring/decimal"
)

// Цены в ответах передаются десятичной строкой: "1299.99".

type ProductResponse struct {
	ID             int64             `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	Rating         float64           `json:"rating"`
	Image          string            `json:"image"`
	Features       []string          `json:"features"`
	Efficiency     string            `json:"efficiency"`
	InStock        bool              `json:"inStock"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}

	return ProductResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          domain.CentsToDecimal(p.Price),
		Rating:         p.Rating,
		Image:          p.ImageURL,
		Features:       features,
		Efficiency:     p.Efficiency,
		InStock:        p.InStock,
		Category:       p.Category,
		Brand:          p.Brand,
		Specifications: p.Specifications,
	}
}

func toProductResponses(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

type CatalogPageResponse struct {
	Products   []ProductResponse `json:"products"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
	Total      int               `json:"total"`
	From       int               `json:"from"`
	To         int               `json:"to"`
	Empty      bool              `json:"empty"`
	Brands     []string          `json:"brands"`
	Efficiency []string          `json:"efficiencies"`
	Filters    CatalogFilters    `json:"filters"`
}

type CatalogFilters struct {
	Search     string `json:"search"`
	Brand      string `json:"brand"`
	Efficiency string `json:"efficiency"`
	Price      string `json:"price"`
	Sort       string `json:"sort"`
}

func toCatalogPageResponse(p *usecase.CatalogPage) CatalogPageResponse {
	return CatalogPageResponse{
		Products:   toProductResponses(p.Products),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Total:      p.Total,
		From:       p.From,
		To:         p.To,
		Empty:      p.Empty,
		Brands:     p.Facets.Brands,
		Efficiency: p.Facets.Efficiencies,
		Filters: CatalogFilters{
			Search:     p.Query.Search,
			Brand:      p.Query.Brand,
			Efficiency: p.Query.Efficiency,
			Price:      string(p.Query.Price),
			Sort:       string(p.Query.Sort),
		},
	}
}

type InstallationOptionResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func toInstallationOptionResponse(o *domain.InstallationOption) InstallationOptionResponse {
	return InstallationOptionResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Price:       domain.CentsToDecimal(o.Price),
	}
}

type ProductDetailsResponse struct {
	ProductResponse
	InstallationOptions []InstallationOptionResponse `json:"installationOptions"`
}

type QuoteResponse struct {
	ProductID         int64                       `json:"productId"`
	UnitPrice         decimal.Decimal             `json:"unitPrice"`
	Quantity          int                         `json:"quantity"`
	Subtotal          decimal.Decimal             `json:"subtotal"`
	Installation      *InstallationOptionResponse `json:"installation,omitempty"`
	InstallationPrice decimal.Decimal             `json:"installationPrice"`
	Total             decimal.Decimal             `json:"total"`
	InStock           bool                        `json:"inStock"`
}

func toQuoteResponse(q *usecase.QuoteRes) QuoteResponse {
	res := QuoteResponse{
		ProductID:         q.ProductID,
		UnitPrice:         domain.CentsToDecimal(q.UnitPrice),
		Quantity:          q.Quantity,
		Subtotal:          domain.CentsToDecimal(q.Subtotal),
		InstallationPrice: domain.CentsToDecimal(q.InstallationPrice),
		Total:             domain.CentsToDecimal(q.Total),
		InStock:           q.InStock,
	}
	if q.Installation != nil {
		opt := toInstallationOptionResponse(q.Installation)
		res.Installation = &opt
	}
	return res
}

type ServiceTypeResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Duration    int             `json:"duration"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

type TechnicianResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Rating         float64 `json:"rating"`
	Available      bool    `json:"available"`
	Image          string  `json:"image"`
}

type SlotResponse struct {
	Time      string    `json:"time"`
	Start     time.Time `json:"start"`
	Available bool      `json:"available"`
}

func toSlotResponses(slots []domain.Slot) []SlotResponse {
	res := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		res = append(res, SlotResponse{Time: s.Display, Start: s.Start, Available: s.Available})
	}
	return res
}

type DraftResponse struct {
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	ServiceType string `json:"serviceType,omitempty"`
	Technician  string `json:"technician,omitempty"`
	Address     string `json:"address,omitempty"`
}

type SummaryResponse struct {
	ServiceName    string          `json:"serviceName,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Duration       int             `json:"duration,omitempty"`
	TechnicianName string          `json:"technicianName,omitempty"`
}

type WizardResponse struct {
	ID         string           `json:"id"`
	Step       int              `json:"step"`
	StepName   string           `json:"stepName"`
	CanAdvance bool             `json:"canAdvance"`
	Draft      DraftResponse    `json:"draft"`
	Summary    *SummaryResponse `json:"summary,omitempty"`
	Slots      []SlotResponse   `json:"slots,omitempty"`
}

func toWizardResponse(v *usecase.WizardView) WizardResponse {
	res := WizardResponse{
		ID:         v.ID,
		Step:       int(v.Step),
		StepName:   v.Step.String(),
		CanAdvance: v.CanAdvance,
		Draft: DraftResponse{
			Time:        v.Draft.Time,
			ServiceType: v.Draft.ServiceType,
			Technician:  v.Draft.Technician,
			Address:     v.Draft.Address,
		},
	}
	if !v.Draft.Date.IsZero() {
		res.Draft.Date = v.Draft.Date.Format(time.DateOnly)
	}
	if v.Summary != nil {
		res.Summary = &SummaryResponse{
			ServiceName:    v.Summary.ServiceName,
			Price:          domain.CentsToDecimal(v.Summary.Price),
			Duration:       v.Summary.DurationMinutes,
			TechnicianName: v.Summary.TechnicianName,
		}
	}
	if len(v.Slots) > 0 {
		res.Slots = toSlotResponses(v.Slots)
	}
	return res
}

type AppointmentResponse struct {
	Reference        string          `json:"id"`
	CustomerName     string          `json:"customerName"`
	CustomerEmail    string          `json:"customerEmail"`
	Date             string          `json:"date"`
	Time             string          `json:"time"`
	StartsAt         time.Time       `json:"startsAt"`
	ServiceType      string          `json:"serviceType"`
	ServiceName      string          `json:"serviceName"`
	Technician       string          `json:"technician"`
	TechnicianName   string          `json:"technicianName"`
	Address          string          `json:"address"`
	Price            decimal.Decimal `json:"price"`
	PaymentReference string          `json:"paymentReference"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
}

func toAppointmentResponse(a *domain.Appointment) AppointmentResponse {
	return AppointmentResponse{
		Reference:        a.Reference,
		CustomerName:     a.CustomerName,
		CustomerEmail:    a.CustomerEmail,
		Date:             a.StartsAt.Format(time.DateOnly),
		Time:             a.Display(),
		StartsAt:         a.StartsAt,
		ServiceType:      a.ServiceTypeID,
		ServiceName:      a.ServiceName,
		Technician:       a.TechnicianID,
		TechnicianName:   a.TechnicianName,
		Address:          a.Address,
		Price:            domain.CentsToDecimal(a.Price),
		PaymentReference: a.PaymentReference,
		Status:           string(a.Status),
		Notes:            a.Notes,
	}
}

func toAppointmentResponses(apps []domain.Appointment) []AppointmentResponse {
	res := make([]AppointmentResponse, 0, len(apps))
	for i := range apps {
		res = append(res, toAppointmentResponse(&apps[i]))
	}
	return res
}

type ConfirmationResponse struct {
	Reference        string          `json:"reference"`
	Date             string          `json:"date"`
	Time             string          `json:"time"`
	ServiceType      string          `json:"serviceType"`
	ServiceName      string          `json:"serviceName"`
	Technician       string          `json:"technician"`
	TechnicianName   string          `json:"technicianName"`
	Address          string          `json:"address"`
	Price            decimal.Decimal `json:"price"`
	PaymentReference string          `json:"paymentReference"`
	Status           string          `json:"status"`
}

func toConfirmationResponse(c *usecase.BookingConfirmation) ConfirmationResponse {
	return ConfirmationResponse{
		Reference:        c.Reference,
		Date:             c.Date.Format(time.DateOnly),
		Time:             c.Time,
		ServiceType:      c.ServiceType,
		ServiceName:      c.ServiceName,
		Technician:       c.Technician,
		TechnicianName:   c.TechnicianName,
		Address:          c.Address,
		Price:            domain.CentsToDecimal(c.Price),
		PaymentReference: c.PaymentReference,
		Status:           string(c.Status),
	}
}

// SessionResponse повторяет поля сессии, которые витрина хранила локально.
type SessionResponse struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	UserRole   string `json:"userRole"`
	UserEmail  string `json:"userEmail"`
	UserName   string `json:"userName"`
}

type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Session   SessionResponse `json:"session"`
}

func toSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		IsLoggedIn: true,
		UserRole:   string(s.Role),
		UserEmail:  s.Email,
		UserName:   s.Name,
	}
}

// REQUESTS

type SelectDateTimeRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type SelectServiceRequest struct {
	ServiceType string `json:"serviceType"`
}

type SelectTechnicianRequest struct {
	Technician string `json:"technician"`
}

type SetAddressRequest struct {
	Address string `json:"address"`
}

type ConfirmRequest struct {
	Payment usecase.PaymentDetails `json:"payment"`
	Notes   string                 `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AssignTechnicianRequest struct {
	Technician string `json:"technician"`
}
