package http

import (
	"net/http"
	"time"

	_ "github.com/DRSN-tech/aircon-backend/docs" // OpenAPI-описание для /swagger
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// UseCases набор сценариев, которые обслуживает HTTP API.
type UseCases struct {
	Product     usecase.ProductUC
	Scheduling  usecase.SchedulingUC
	Booking     usecase.BookingUC
	Appointment usecase.AppointmentUC
	Auth        usecase.AuthUC
}

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(uc UseCases, loc *time.Location, swaggerURL string) {
	r.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(r.logger),
		middleware.Recoverer,
	)

	r.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, e.ErrNotFound)
	})
	r.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusMethodNotAllowed, NewErrorResponse(http.StatusMethodNotAllowed, "method not allowed", nil))
	})

	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL),
	))

	auth := requireAuth(uc.Auth)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(uc.Product, r.logger), auth)
		registerSchedulingRoutes(v1, NewSchedulingHandler(uc.Scheduling, loc, r.logger), NewBookingHandler(uc.Booking, r.logger), auth)
		registerAppointmentRoutes(v1, NewAppointmentHandler(uc.Appointment, r.logger), auth)
		registerAuthRoutes(v1, NewAuthHandler(uc.Auth, r.logger), auth)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, auth func(http.Handler) http.Handler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.queryCatalog)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Get("/{id}/related", prHandler.relatedProducts)
		pr.Get("/{id}/quote", prHandler.quote)
		pr.With(auth, requireAdmin).Post("/", prHandler.registerNewProduct)
	})
}

func registerSchedulingRoutes(router chi.Router, h *SchedulingHandler, booking *BookingHandler, auth func(http.Handler) http.Handler) {
	router.Get("/services", h.listServices)
	router.Get("/technicians", h.listTechnicians)
	router.Get("/slots", h.getTimeSlots)

	router.Route("/wizard", func(wz chi.Router) {
		wz.Use(auth)
		wz.Post("/", h.startWizard)
		wz.Route("/{id}", func(s chi.Router) {
			s.Get("/", h.getWizard)
			s.Delete("/", h.discardWizard)
			s.Put("/datetime", h.selectDateTime)
			s.Put("/service", h.selectService)
			s.Put("/technician", h.selectTechnician)
			s.Put("/address", h.setAddress)
			s.Post("/next", h.next)
			s.Post("/back", h.back)
			s.Post("/confirm", booking.confirm)
		})
	})
}

func registerAppointmentRoutes(router chi.Router, h *AppointmentHandler, auth func(http.Handler) http.Handler) {
	router.With(auth).Get("/appointments", h.listMine)
	router.With(auth).Post("/appointments/{ref}/cancel", h.cancel)

	router.Route("/admin", func(adm chi.Router) {
		adm.Use(auth, requireAdmin)
		adm.Get("/appointments", h.listAll)
		adm.Put("/appointments/{ref}/status", h.updateStatus)
		adm.Put("/appointments/{ref}/technician", h.assignTechnician)
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler, auth func(http.Handler) http.Handler) {
	router.Route("/auth", func(a chi.Router) {
		a.Post("/signup", h.signup)
		a.Post("/login", h.login)
		a.With(auth).Post("/logout", h.logout)
		a.With(auth).Get("/me", h.me)
	})
}
