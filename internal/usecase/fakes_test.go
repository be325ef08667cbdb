package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
)

func seedProducts() []domain.Product {
	type row struct {
		title, desc, brand, efficiency, category string
		price                                    int64
		rating                                   float64
		inStock                                  bool
	}
	rows := []row{
		{"Premium AC Unit XC-5000", "High-efficiency split system air conditioner with smart temperature control and energy-saving features.", "CoolBreeze", "A+++", "Split System", 129999, 4.5, true},
		{"Economy Window AC Unit", "Affordable window-mounted air conditioner perfect for small rooms and apartments.", "AirMax", "A+", "Window Unit", 49999, 4.0, true},
		{"Deluxe Inverter AC System", "Advanced inverter technology for maximum energy efficiency and precise temperature control.", "TechCool", "A+++", "Split System", 189999, 4.8, true},
		{"Portable AC Unit Pro", "Versatile portable air conditioner with dehumidifier function and easy mobility between rooms.", "AirMax", "A", "Portable", 69999, 4.2, true},
		{"Commercial Grade HVAC System", "Heavy-duty air conditioning system designed for commercial spaces and large residential areas.", "TechCool", "A++", "Commercial", 249999, 4.9, false},
		{"Mini Split AC System", "Compact ductless mini-split system perfect for room additions and spaces without existing ductwork.", "CoolBreeze", "A++", "Mini Split", 109999, 4.6, true},
		{"Smart Home AC Integration Kit", "Upgrade your existing AC unit with smart home capabilities and voice control integration.", "SmartAir", "N/A", "Accessories", 29999, 4.3, true},
		{"Whole House Central AC System", "Complete central air conditioning system for whole-house cooling with advanced air distribution.", "TechCool", "A+++", "Central System", 329999, 4.7, true},
		{"Budget Friendly Window AC", "Economical window air conditioner for small spaces with basic cooling functionality.", "CoolSaver", "A", "Window Unit", 29999, 3.8, true},
		{"Premium Ductless Multi-Zone System", "High-end multi-zone ductless system for cooling multiple rooms with individual temperature control.", "TechCool", "A+++", "Multi-Zone", 289999, 4.9, false},
		{"Solar-Ready AC System", "Eco-friendly air conditioning system designed to work with solar power for reduced energy costs.", "GreenCool", "A+++", "Eco-Friendly", 219999, 4.5, true},
		{"Compact Through-Wall AC Unit", "Space-saving through-wall air conditioner ideal for apartments and condos without window access.", "AirMax", "A+", "Through-Wall", 59999, 4.1, true},
	}

	products := make([]domain.Product, 0, len(rows))
	for i, r := range rows {
		products = append(products, domain.Product{
			ID:          int64(i + 1),
			Title:       r.title,
			Description: r.desc,
			Price:       r.price,
			Rating:      r.rating,
			Efficiency:  r.efficiency,
			InStock:     r.inStock,
			Category:    r.category,
			Brand:       r.brand,
			Position:    i + 1,
		})
	}
	return products
}

func seedServices() []domain.ServiceType {
	return []domain.ServiceType{
		{ID: "installation", Name: "AC Installation", DurationMinutes: 180, Price: 29999},
		{ID: "maintenance", Name: "AC Maintenance", DurationMinutes: 60, Price: 9999},
		{ID: "repair", Name: "AC Repair", DurationMinutes: 120, Price: 14999},
		{ID: "inspection", Name: "AC Inspection", DurationMinutes: 45, Price: 7999},
	}
}

func seedTechnicians() []domain.Technician {
	return []domain.Technician{
		{ID: "tech1", Name: "John Smith", Specialization: "Installation Expert", Rating: 4.8, Available: true},
		{ID: "tech2", Name: "Sarah Johnson", Specialization: "Maintenance Specialist", Rating: 4.9, Available: true},
		{ID: "tech3", Name: "Mike Davis", Specialization: "Repair Technician", Rating: 4.7, Available: true},
		{ID: "tech4", Name: "Emily Wilson", Specialization: "HVAC Engineer", Rating: 4.9, Available: false},
	}
}

// PRODUCTS

type fakeProductRepo struct {
	products []domain.Product
	listed   int
}

func (f *fakeProductRepo) Upsert(_ context.Context, product *domain.Product) (*UpsertProductRes, error) {
	for i, p := range f.products {
		if p.Title == product.Title {
			product.ID = p.ID
			f.products[i] = *product
			return NewUpsertProductRes(product, false), nil
		}
	}
	product.ID = int64(len(f.products) + 1)
	f.products = append(f.products, *product)
	return NewUpsertProductRes(product, false), nil
}

func (f *fakeProductRepo) ListActive(context.Context) ([]domain.Product, error) {
	f.listed++
	return slices.Clone(f.products), nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, e.ErrProductNotFound
}

func (f *fakeProductRepo) GetProductsInfo(_ context.Context, ids []int64) ([]ProductInfo, error) {
	var res []ProductInfo
	for _, p := range f.products {
		if slices.Contains(ids, p.ID) {
			res = append(res, NewProductInfoFromProduct(&p))
		}
	}
	return res, nil
}

type fakeCategoryRepo struct{}

func (fakeCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	c.ID = 1
	return c, nil
}

type fakeCacheRepo struct {
	mu       sync.Mutex
	products map[int64]ProductInfo
	deleted  int
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := map[int64]ProductInfo{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			res[id] = p
		}
	}
	return res, nil
}

func (f *fakeCacheRepo) SetProducts(context.Context, []ProductInfo) error { return nil }

func (f *fakeCacheRepo) DeleteProducts(context.Context, []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted++
	return nil
}

func (f *fakeCacheRepo) GetCatalog(context.Context) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (f *fakeCacheRepo) SetCatalog(context.Context, []domain.Product) error { return nil }
func (f *fakeCacheRepo) DeleteCatalog(context.Context) error              { return nil }

type fakeVectorRepo struct {
	upserted []domain.ProductVector
	similar  []int64
}

func (f *fakeVectorRepo) Upsert(_ context.Context, vectors []domain.ProductVector) error {
	f.upserted = append(f.upserted, vectors...)
	return nil
}

func (f *fakeVectorRepo) Similar(_ context.Context, _ int64, _ []float32, limit int) ([]int64, error) {
	if len(f.similar) > limit {
		return f.similar[:limit], nil
	}
	return f.similar, nil
}

type fakeImagesInfra struct {
	cleaned []string
}

func (f *fakeImagesInfra) UploadImages(_ context.Context, req *UploadImagesReq) (*UploadImagesRes, error) {
	keys := make([]string, 0, len(req.Images))
	urls := make([]string, 0, len(req.Images))
	for i := range req.Images {
		key := fmt.Sprintf("%s/%d.jpg", req.Name, i)
		keys = append(keys, key)
		urls = append(urls, "http://minio/products/"+key)
	}
	return NewUploadImagesRes(keys, urls), nil
}

func (f *fakeImagesInfra) CleanupImages(keys []string) {
	f.cleaned = append(f.cleaned, keys...)
}

// SCHEDULING

type fakeServiceRepo struct{ services []domain.ServiceType }

func (f *fakeServiceRepo) List(context.Context) ([]domain.ServiceType, error) {
	return f.services, nil
}

func (f *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.ServiceType, error) {
	for _, s := range f.services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, e.ErrServiceNotFound
}

type fakeTechnicianRepo struct{ technicians []domain.Technician }

func (f *fakeTechnicianRepo) List(context.Context) ([]domain.Technician, error) {
	return f.technicians, nil
}

func (f *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	for _, t := range f.technicians {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, e.ErrTechnicianNotFound
}

type fakeWizardRepo struct {
	mu      sync.Mutex
	wizards map[string]domain.Wizard
	saves   int
}

func newFakeWizardRepo() *fakeWizardRepo {
	return &fakeWizardRepo{wizards: map[string]domain.Wizard{}}
}

func (f *fakeWizardRepo) Save(_ context.Context, w *domain.Wizard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wizards[w.ID] = *w
	f.saves++
	return nil
}

func (f *fakeWizardRepo) Get(_ context.Context, id string) (*domain.Wizard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wizards[id]
	if !ok {
		return nil, e.ErrWizardNotFound
	}
	return &w, nil
}

func (f *fakeWizardRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.wizards, id)
	return nil
}

// fakeAvailability считает занятыми слоты из busySlots и мастеров из busyTechs.
type fakeAvailability struct {
	hours     domain.WorkingHours
	busySlots map[string]bool
	busyTechs map[string]bool
}

func (f *fakeAvailability) Slots(_ context.Context, date time.Time, _ string, _ time.Duration) ([]domain.Slot, error) {
	return domain.GenerateSlots(date, f.hours, func(start time.Time) bool {
		return !f.busySlots[start.Format(domain.SlotTimeLayout)]
	}), nil
}

func (f *fakeAvailability) TechnicianFree(_ context.Context, technicianID string, _ time.Time, _ time.Duration, _ string) (bool, error) {
	return !f.busyTechs[technicianID], nil
}

// BOOKING

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments []domain.Appointment
	failCreate   error
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failCreate != nil {
		return nil, f.failCreate
	}
	saved := *a
	f.appointments = append(f.appointments, saved)
	return &saved, nil
}

func (f *fakeAppointmentRepo) find(match func(a domain.Appointment) bool) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.appointments {
		if match(a) {
			return &a, nil
		}
	}
	return nil, e.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) GetByReference(_ context.Context, ref string) (*domain.Appointment, error) {
	return f.find(func(a domain.Appointment) bool { return a.Reference == ref })
}

func (f *fakeAppointmentRepo) GetByIdempotencyKey(_ context.Context, customerID int64, key string) (*domain.Appointment, error) {
	return f.find(func(a domain.Appointment) bool { return a.CustomerID == customerID && a.IdempotencyKey == key })
}

func (f *fakeAppointmentRepo) ListBetween(_ context.Context, from, to time.Time) ([]domain.Appointment, error) {
	var res []domain.Appointment
	for _, a := range f.appointments {
		if !a.StartsAt.Before(from) && a.StartsAt.Before(to) {
			res = append(res, a)
		}
	}
	return res, nil
}

func (f *fakeAppointmentRepo) ListByCustomer(_ context.Context, customerID int64) ([]domain.Appointment, error) {
	var res []domain.Appointment
	for _, a := range f.appointments {
		if a.CustomerID == customerID {
			res = append(res, a)
		}
	}
	return res, nil
}

func (f *fakeAppointmentRepo) Search(_ context.Context, filter AppointmentFilter) ([]domain.Appointment, error) {
	var res []domain.Appointment
	search := strings.ToLower(filter.Search)
	for _, a := range f.appointments {
		if filter.Status != domain.FilterAll && string(a.Status) != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.CustomerName), search) &&
			!strings.Contains(strings.ToLower(a.Reference), search) {
			continue
		}
		res = append(res, a)
	}
	return res, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, ref string, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, a := range f.appointments {
		if a.Reference != ref {
			continue
		}
		if a.Status != from {
			return nil, e.ErrInvalidStatusTransition
		}
		f.appointments[i].Status = to
		updated := f.appointments[i]
		return &updated, nil
	}
	return nil, e.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) UpdateTechnician(_ context.Context, ref string, t *domain.Technician) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, a := range f.appointments {
		if a.Reference == ref {
			f.appointments[i].TechnicianID = t.ID
			f.appointments[i].TechnicianName = t.Name
			updated := f.appointments[i]
			return &updated, nil
		}
	}
	return nil, e.ErrAppointmentNotFound
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event.ID = int64(len(f.events) + 1)
	event.Status = Pending
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error { return nil }

func (f *fakeOutboxRepo) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeOutboxRepo) types() []OutboxEventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := make([]OutboxEventType, 0, len(f.events))
	for _, ev := range f.events {
		res = append(res, ev.EventType)
	}
	return res
}

type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeIdempotencyRepo struct {
	mu   sync.Mutex
	refs map[string]string
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{refs: map[string]string{}}
}

func idempotencyMapKey(customerID int64, key string) string {
	return fmt.Sprintf("%d:%s", customerID, key)
}

func (f *fakeIdempotencyRepo) GetReference(_ context.Context, customerID int64, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.refs[idempotencyMapKey(customerID, key)]
	return ref, ok, nil
}

func (f *fakeIdempotencyRepo) SaveReference(_ context.Context, customerID int64, key, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[idempotencyMapKey(customerID, key)] = ref
	return nil
}

// fakeLockRepo последовательная блокировка на мьютексе.
type fakeLockRepo struct {
	mu       sync.Mutex
	acquired []string
	held     map[string]bool // ключи, занятые другим процессом
}

func (f *fakeLockRepo) Acquire(_ context.Context, key string) (func(context.Context) error, error) {
	if f.held[key] {
		return nil, e.ErrBookingInProgress
	}
	f.mu.Lock()
	f.acquired = append(f.acquired, key)
	return func(context.Context) error {
		f.mu.Unlock()
		return nil
	}, nil
}

const declinedCard = "4000000000000002"

type fakeGateway struct {
	mu          sync.Mutex
	unavailable int // сколько первых вызовов вернут ErrGatewayUnavailable
	charges     []*ChargeReq
	refunds     []string
}

func (f *fakeGateway) Charge(_ context.Context, req *ChargeReq) (*ChargeRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.charges = append(f.charges, req)
	if f.unavailable > 0 {
		f.unavailable--
		return nil, e.ErrGatewayUnavailable
	}
	if req.Card.CardNumber == declinedCard {
		return nil, e.NewPaymentDeclined("card declined")
	}
	return &ChargeRes{PaymentReference: fmt.Sprintf("PAY-%d", len(f.charges)), Amount: req.Amount}, nil
}

func (f *fakeGateway) Refund(_ context.Context, ref string, _ int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, ref)
	return nil
}

type fakeRefs struct {
	mu sync.Mutex
	n  int
}

func (f *fakeRefs) NewReference() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("APT-%04d", f.n)
}

// AUTH

type fakeUserRepo struct {
	users []domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, e.ErrEmailTaken
		}
	}
	u.ID = int64(len(f.users) + 1)
	f.users = append(f.users, *u)
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, e.ErrUserNotFound
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return e.ErrInvalidCredentials
	}
	return nil
}

// fakeTokens токен это просто идентификатор сессии.
type fakeTokens struct {
	sessions map[string]domain.Session
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{sessions: map[string]domain.Session{}}
}

func (f *fakeTokens) Issue(s *domain.Session) (string, *domain.Session, error) {
	issued := *s
	issued.TokenID = fmt.Sprintf("tok-%d", len(f.sessions)+1)
	issued.ExpiresAt = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	f.sessions[issued.TokenID] = issued
	return issued.TokenID, &issued, nil
}

func (f *fakeTokens) Parse(token string) (*domain.Session, error) {
	s, ok := f.sessions[token]
	if !ok {
		return nil, e.ErrUnauthorized
	}
	return &s, nil
}

type fakeDenylist struct {
	revoked map[string]time.Time
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Time{}
	}
	f.revoked[tokenID] = until
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, nil
}
