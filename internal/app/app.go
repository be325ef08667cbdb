package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/aircon-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/aircon-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/aircon-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/aircon-backend/internal/domain"
	"github.com/DRSN-tech/aircon-backend/internal/infrastructure/auth"
	"github.com/DRSN-tech/aircon-backend/internal/infrastructure/availability"
	"github.com/DRSN-tech/aircon-backend/internal/infrastructure/jobs"
	"github.com/DRSN-tech/aircon-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/aircon-backend/internal/infrastructure/minio"
	"github.com/DRSN-tech/aircon-backend/internal/infrastructure/payment"
	"github.com/DRSN-tech/aircon-backend/internal/infrastructure/reference"
	s3Repo "github.com/DRSN-tech/aircon-backend/internal/repository/minio"
	"github.com/DRSN-tech/aircon-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/aircon-backend/internal/repository/pgdb/converter"
	qdrantRepo "github.com/DRSN-tech/aircon-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/aircon-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/aircon-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/aircon-backend/internal/usecase"
	"github.com/DRSN-tech/aircon-backend/pkg/clients"
	"github.com/DRSN-tech/aircon-backend/pkg/closer"
	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/DRSN-tech/aircon-backend/pkg/postgres"
	"github.com/DRSN-tech/aircon-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"golang.org/x/crypto/bcrypt"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 15 * time.Second

	paymentBaseDelay = 200 * time.Millisecond
	paymentMaxDelay  = 2 * time.Second
)

// App собранное приложение: серверы, фоновые задачи и порядок их остановки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv   *v1Http.Server
	grpcSrv   *v1Grpc.GRPCServer
	outbox    *kafka.OutboxWorker
	scheduler *jobs.Scheduler

	// отменяется при остановке, прерывает фоновую очистку MinIO
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewApp подключает хранилища, собирает репозитории, сценарии и транспорт.
// Уже открытые ресурсы закрываются, если сборка не удалась.
func NewApp(cfg *config.Config, log logger.Logger) (_ *App, err error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}
	a.shutdownCtx, a.shutdownCancel = context.WithCancel(context.Background())

	defer func() {
		if err != nil {
			a.shutdownCancel()
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if cerr := a.closer.Close(ctx); cerr != nil {
				log.Warnf("cleanup after failed init: %v", cerr)
			}
		}
	}()

	// === Хранилища ===
	db, err := initPGDB(context.Background(), log, cfg)
	if err != nil {
		return nil, err
	}
	a.closer.Add("postgres", func(context.Context) error { return db.Close() })

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	if err := withTimeout(redisClient.Ping); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, err
	}

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return nil, err
	}
	if err := withTimeout(func(ctx context.Context) error {
		return clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName)
	}); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return nil, err
	}

	qdrantClient, err := clients.NewQdrantClient(cfg.Qdrant)
	if err != nil {
		log.Errorf(err, "failed to initialize qdrant")
		return nil, err
	}
	a.closer.Add("qdrant", func(context.Context) error { return qdrantClient.Close() })
	if err := withTimeout(func(ctx context.Context) error {
		return clients.EnsureCollection(ctx, qdrantClient)
	}); err != nil {
		log.Errorf(err, "failed to initialize qdrant collection")
		return nil, err
	}

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		return nil, err
	}
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err := withTimeout(producer.EnsureTopic); err != nil {
		// outbox дождется брокера и отправит события позже
		log.Warnf("kafka topic %s is not ready: %v", cfg.Kafka.Topic, err)
	}

	// === Репозитории ===
	txManager := tr.NewManager(db.Pool)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverter{})
	serviceRepo := pgdb.NewServiceTypeRepo(db.Pool, pgdbConv.ServiceTypeConverter{})
	technicianRepo := pgdb.NewTechnicianRepo(db.Pool, pgdbConv.TechnicianConverter{})
	appointmentRepo := pgdb.NewAppointmentRepo(db.Pool, pgdbConv.AppointmentConverter{})
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.UserConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductInfoConverter{}, cfg.Redis, log)
	wizardRepo := redis.NewWizardRepo(redisClient, redisConv.WizardConverter{Location: cfg.Scheduling.Location}, cfg.Redis)
	idempotencyRepo := redis.NewIdempotencyRepo(redisClient, cfg.Redis)
	lockRepo := redis.NewLockRepo(redisClient, cfg.Redis)
	denylist := redis.NewTokenDenylist(redisClient)

	vectorRepo := qdrantRepo.NewVectorRepo(qdrantClient)
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	// === Инфраструктура ===
	hours := domain.WorkingHours{
		StartHour: cfg.Scheduling.StartHour,
		EndHour:   cfg.Scheduling.EndHour,
		Step:      cfg.Scheduling.SlotStep,
	}
	window := domain.BookingWindow{
		HorizonDays:   cfg.Scheduling.HorizonDays,
		ExcludedDates: cfg.Scheduling.ExcludedDates,
	}

	checker := availability.NewChecker(appointmentRepo, technicianRepo, hours, cfg.Scheduling.TravelBuffer)
	gateway := payment.NewSimulatedGateway(cfg.Payment.ProcessingDelay, log)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	images := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, a.shutdownCtx)

	refs, err := reference.NewGenerator(cfg.Scheduling.ReferenceNode)
	if err != nil {
		log.Errorf(err, "failed to initialize reference generator")
		return nil, err
	}

	// === Сценарии ===
	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		outboxRepo,
		txManager,
		images,
		vectorRepo,
		log,
		cacheRepo,
		cfg.Catalog.PageSize,
		int(cfg.Qdrant.VectorSize),
	)
	schedulingUC := usecase.NewSchedulingUC(
		serviceRepo,
		technicianRepo,
		wizardRepo,
		checker,
		log,
		hours,
		window,
		cfg.Scheduling.Location,
	)
	bookingUC := usecase.NewBookingUC(
		wizardRepo,
		serviceRepo,
		technicianRepo,
		appointmentRepo,
		outboxRepo,
		idempotencyRepo,
		lockRepo,
		txManager,
		checker,
		gateway,
		refs,
		log,
		hours,
		usecase.PaymentRetry{
			MaxRetries: cfg.Payment.MaxRetries,
			BaseDelay:  paymentBaseDelay,
			MaxDelay:   paymentMaxDelay,
			Currency:   cfg.Payment.Currency,
		},
	)
	appointmentUC := usecase.NewAppointmentUC(
		appointmentRepo,
		technicianRepo,
		outboxRepo,
		lockRepo,
		txManager,
		checker,
		log,
		cfg.Scheduling.CancellationWindow,
		cfg.Scheduling.Location,
	)
	authUC := usecase.NewAuthUC(userRepo, hasher, tokens, denylist, log, cfg.Auth.AdminEmails)

	// === Фоновые задачи ===
	a.outbox = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn, cfg.Jobs.OutboxPoll)
	a.closer.Add("outbox worker", func(context.Context) error {
		a.outbox.Stop()
		return nil
	})

	a.scheduler = jobs.NewScheduler(cfg.Scheduling.Location, log)
	if err := a.scheduler.AddOutboxCleanup(cfg.Jobs.OutboxCleanupSpec, cfg.Jobs.OutboxRetention, outboxRepo); err != nil {
		log.Errorf(err, "invalid OUTBOX_CLEANUP_SPEC %q", cfg.Jobs.OutboxCleanupSpec)
		return nil, err
	}
	a.closer.Add("cron scheduler", a.scheduler.Stop)

	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		if err := images.WaitForCleanup(ctx); err != nil {
			log.Warnf("MinIO cleanup did not finish before shutdown, some temporary objects may remain: %v", err)
		}
		return nil
	})

	// === Транспорт ===
	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices(productUC, schedulingUC, cfg.Scheduling.Location)
	a.closer.Add("grpc server", func(ctx context.Context) error {
		if err := a.grpcSrv.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(v1Http.UseCases{
		Product:     productUC,
		Scheduling:  schedulingUC,
		Booking:     bookingUC,
		Appointment: appointmentUC,
		Auth:        authUC,
	}, cfg.Scheduling.Location, cfg.Http.SwaggerURL)

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки
// или фатальной ошибки сервера.
func (a *App) Run() error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	a.outbox.Start(a.shutdownCtx)
	a.scheduler.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.shutdownCancel()
	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		_ = db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(ctx); err != nil {
		logger.Errorf(err, "failed to ping database")
		_ = db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

func withTimeout(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	return fn(ctx)
}
