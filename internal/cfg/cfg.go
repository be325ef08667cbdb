package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"github.com/DRSN-tech/aircon-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	Minio      *MinIOCfg
	Http       *HTTPConfig
	Grpc       *GRPCConfig
	Db         *PGDBCfg
	Qdrant     *QdrantCfg
	Redis      *RedisCfg
	Kafka      *KafkaCfg
	Auth       *AuthCfg
	Catalog    *CatalogCfg
	Scheduling *SchedulingCfg
	Payment    *PaymentCfg
	Jobs       *JobsCfg
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Название конкретного бакета в Minio
	MinioRootUser     string // Имя пользователя для доступа к Minio
	MinioRootPassword string // Пароль для доступа к Minio
	MinioUseSSL       bool
	UploadImagesLimit int    // Лимит на кол-во одновременных загрузок в S3
	PublicURL         string // базовый адрес для публичных ссылок на изображения
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	SwaggerURL   string
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxConns      int32
	MigrationsDir string
}

type QdrantCfg struct {
	Port                 int
	Host                 string
	ApiKey               string
	QdrantCollectionName string // имя коллекции в Qdrant
	UseTLS               bool
	VectorSize           uint64
}

type RedisCfg struct {
	Addr           string
	Password       string
	User           string
	DB             int
	MaxRetries     int
	DialTimeout    time.Duration
	Timeout        time.Duration
	ProductTTL     time.Duration
	CatalogTTL     time.Duration
	WizardTTL      time.Duration // время жизни черновика записи
	IdempotencyTTL time.Duration
	BookingLockTTL time.Duration
	KeyPrefix      string // префикс всех ключей
}

type AuthCfg struct {
	JWTSecret   string
	TokenTTL    time.Duration
	Issuer      string
	AdminEmails []string
}

type CatalogCfg struct {
	PageSize int
}

type SchedulingCfg struct {
	StartHour          int
	EndHour            int
	SlotStep           time.Duration
	HorizonDays        int
	ExcludedDates      []time.Time
	TravelBuffer       time.Duration
	CancellationWindow time.Duration
	Location           *time.Location
	ReferenceNode      int64 // номер узла snowflake для номеров визитов
}

type PaymentCfg struct {
	ProcessingDelay time.Duration
	MaxRetries      int
	Currency        string
}

type JobsCfg struct {
	OutboxCleanupSpec string
	OutboxRetention   time.Duration
	OutboxPoll        time.Duration // период опроса outbox помимо LISTEN
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to read .env file: %v", err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	auth, err := loadAuthCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	scheduling, err := loadSchedulingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	payment, err := loadPaymentCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	jobs, err := loadJobsCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	catalog, err := loadCatalogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:      minio,
		Http:       http,
		Grpc:       loadGRPCConfig(),
		Db:         db,
		Qdrant:     qdrant,
		Redis:      redis,
		Kafka:      kafka,
		Auth:       auth,
		Catalog:    catalog,
		Scheduling: scheduling,
		Payment:    payment,
		Jobs:       jobs,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}
	brokers := splitList(brokerStr)

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL      = false
		defaultEndpoint    = "minio:9000"
		defaultUploadLimit = 4
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("MINIO_UPLOAD_LIMIT", defaultUploadLimit)
	if err != nil {
		log.Errorf(err, "invalid MINIO_UPLOAD_LIMIT")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint)
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &MinIOCfg{
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", "product-images"),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		UploadImagesLimit: uploadLimit,
		PublicURL:         strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		SwaggerURL:   getEnvOrDefault("SWAGGER_URL", "http://localhost:"+port+"/swagger/doc.json"),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode       = "disable"
		defaultMaxConns      = 10
		defaultMigrationsDir = "db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil || maxConns <= 0 {
		if err == nil {
			err = fmt.Errorf("POSTGRES_MAX_CONNS must be positive, got %d", maxConns)
		}
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:      int32(maxConns),
		MigrationsDir: getEnvOrDefault("MIGRATIONS_DIR", defaultMigrationsDir),
	}, nil
}

func loadQdrantCfg(logger logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantGRPCPort = "6334"
		defaultUseTLS         = false
		defaultVectorSize     = "64"
		defaultCollection     = "products"
	)

	port, err := strconv.Atoi(getEnvOrDefault("QDRANT_GRPC_PORT", defaultQdrantGRPCPort))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		logger.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	vectorSize, err := strconv.ParseUint(getEnvOrDefault("VECTOR_SIZE", defaultVectorSize), 10, 64)
	if err != nil {
		logger.Errorf(err, "invalid VECTOR_SIZE")
		return nil, err
	}

	return &QdrantCfg{
		Host:                 getEnvOrDefault("QDRANT_HOST", "qdrant"),
		Port:                 port,
		ApiKey:               getEnv("QDRANT__SERVICE__API_KEY"),
		QdrantCollectionName: getEnvOrDefault("COLLECTION_NAME", defaultCollection),
		UseTLS:               useTLS,
		VectorSize:           vectorSize,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr           = "localhost:6379"
		defaultDB             = 0
		defaultMaxRetries     = 3
		defaultDialTimeout    = 5 * time.Second
		defaultReadTimeout    = 3 * time.Second
		defaultWriteTimeout   = 3 * time.Second
		defaultProductTTL     = 3 * time.Minute
		defaultCatalogTTL     = time.Minute
		defaultWizardTTL      = 30 * time.Minute
		defaultIdempotencyTTL = 24 * time.Hour
		defaultBookingLockTTL = 15 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	var (
		dialTimeout, readTimeout, writeTimeout time.Duration
		productTTL, catalogTTL, wizardTTL      time.Duration
		idempotencyTTL, bookingLockTTL         time.Duration
	)

	durations := []durationEnv{
		{"DIAL_TIMEOUT", defaultDialTimeout, &dialTimeout},
		{"READ_TIMEOUT", defaultReadTimeout, &readTimeout},
		{"WRITE_TIMEOUT", defaultWriteTimeout, &writeTimeout},
		{"PRODUCT_TTL", defaultProductTTL, &productTTL},
		{"CATALOG_TTL", defaultCatalogTTL, &catalogTTL},
		{"WIZARD_TTL", defaultWizardTTL, &wizardTTL},
		{"IDEMPOTENCY_TTL", defaultIdempotencyTTL, &idempotencyTTL},
		{"BOOKING_LOCK_TTL", defaultBookingLockTTL, &bookingLockTTL},
	}

	for _, d := range durations {
		v, err := parseDurationEnv(d.key, d.def)
		if err != nil {
			log.Errorf(err, "invalid %s", d.key)
			return nil, err
		}
		*d.dst = v
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:           getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:       getEnv("REDIS_PASSWORD"),
		User:           getEnv("REDIS_USER"),
		DB:             db,
		MaxRetries:     maxRetries,
		DialTimeout:    dialTimeout,
		Timeout:        timeout,
		ProductTTL:     productTTL,
		CatalogTTL:     catalogTTL,
		WizardTTL:      wizardTTL,
		IdempotencyTTL: idempotencyTTL,
		BookingLockTTL: bookingLockTTL,
		KeyPrefix:      getEnvOrDefault("REDIS_KEY_PREFIX", "aircon"),
	}, nil
}

func loadAuthCfg(log logger.Logger) (*AuthCfg, error) {
	const (
		defaultTokenTTL = 24 * time.Hour
		defaultIssuer   = "aircon-backend"
	)

	secret := getEnv("JWT_SECRET")
	if secret == "" {
		err := fmt.Errorf("JWT_SECRET is required")
		log.Errorf(err, "missing JWT_SECRET")
		return nil, err
	}

	ttl, err := parseDurationEnv("TOKEN_TTL", defaultTokenTTL)
	if err != nil {
		log.Errorf(err, "invalid TOKEN_TTL")
		return nil, err
	}

	admins := splitList(getEnv("ADMIN_EMAILS"))
	for i := range admins {
		admins[i] = strings.ToLower(admins[i])
	}

	return &AuthCfg{
		JWTSecret:   secret,
		TokenTTL:    ttl,
		Issuer:      getEnvOrDefault("JWT_ISSUER", defaultIssuer),
		AdminEmails: admins,
	}, nil
}

func loadCatalogCfg() (*CatalogCfg, error) {
	const defaultPageSize = 9

	pageSize, err := parseIntEnv("CATALOG_PAGE_SIZE", defaultPageSize)
	if err != nil {
		return nil, e.Wrap("CATALOG_PAGE_SIZE", err)
	}
	if pageSize <= 0 {
		return nil, e.Wrap("CATALOG_PAGE_SIZE", e.ErrIncorrectEnvVariable)
	}

	return &CatalogCfg{PageSize: pageSize}, nil
}

func loadSchedulingCfg(log logger.Logger) (*SchedulingCfg, error) {
	const (
		defaultStartHour          = 8
		defaultEndHour            = 17
		defaultSlotStep           = 30 * time.Minute
		defaultHorizonDays        = 30
		defaultTravelBuffer       = 30 * time.Minute
		defaultCancellationWindow = 24 * time.Hour
		defaultTimezone           = "UTC"
		defaultReferenceNode      = 1
	)

	referenceNode, err := parseIntEnv("REFERENCE_NODE_ID", defaultReferenceNode)
	if err != nil {
		return nil, e.Wrap("REFERENCE_NODE_ID", err)
	}

	loc, err := time.LoadLocation(getEnvOrDefault("BUSINESS_TIMEZONE", defaultTimezone))
	if err != nil {
		log.Errorf(err, "invalid BUSINESS_TIMEZONE")
		return nil, err
	}

	startHour, err := parseIntEnv("WORKDAY_START_HOUR", defaultStartHour)
	if err != nil {
		return nil, e.Wrap("WORKDAY_START_HOUR", err)
	}

	endHour, err := parseIntEnv("WORKDAY_END_HOUR", defaultEndHour)
	if err != nil {
		return nil, e.Wrap("WORKDAY_END_HOUR", err)
	}
	if startHour < 0 || endHour > 23 || startHour >= endHour {
		return nil, e.Wrap("WORKDAY_START_HOUR/WORKDAY_END_HOUR", e.ErrIncorrectEnvVariable)
	}

	slotStep, err := parseDurationEnv("SLOT_STEP", defaultSlotStep)
	if err != nil {
		log.Errorf(err, "invalid SLOT_STEP")
		return nil, err
	}

	horizon, err := parseIntEnv("BOOKING_HORIZON_DAYS", defaultHorizonDays)
	if err != nil {
		return nil, e.Wrap("BOOKING_HORIZON_DAYS", err)
	}

	travelBuffer, err := parseDurationEnv("TRAVEL_BUFFER", defaultTravelBuffer)
	if err != nil {
		log.Errorf(err, "invalid TRAVEL_BUFFER")
		return nil, err
	}

	cancellationWindow, err := parseDurationEnv("CANCELLATION_WINDOW", defaultCancellationWindow)
	if err != nil {
		log.Errorf(err, "invalid CANCELLATION_WINDOW")
		return nil, err
	}

	var excluded []time.Time
	for _, raw := range splitList(getEnv("EXCLUDED_DATES")) {
		d, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			log.Errorf(err, "invalid EXCLUDED_DATES entry %q", raw)
			return nil, err
		}
		excluded = append(excluded, d)
	}

	return &SchedulingCfg{
		StartHour:          startHour,
		EndHour:            endHour,
		SlotStep:           slotStep,
		HorizonDays:        horizon,
		ExcludedDates:      excluded,
		TravelBuffer:       travelBuffer,
		CancellationWindow: cancellationWindow,
		Location:           loc,
		ReferenceNode:      int64(referenceNode),
	}, nil
}

func loadPaymentCfg(log logger.Logger) (*PaymentCfg, error) {
	const (
		defaultDelay      = 1500 * time.Millisecond
		defaultMaxRetries = 3
		defaultCurrency   = "USD"
	)

	delay, err := parseDurationEnv("PAYMENT_PROCESSING_DELAY", defaultDelay)
	if err != nil {
		log.Errorf(err, "invalid PAYMENT_PROCESSING_DELAY")
		return nil, err
	}

	retries, err := parseIntEnv("PAYMENT_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("PAYMENT_MAX_RETRIES", err)
	}

	return &PaymentCfg{
		ProcessingDelay: delay,
		MaxRetries:      retries,
		Currency:        getEnvOrDefault("PAYMENT_CURRENCY", defaultCurrency),
	}, nil
}

func loadJobsCfg(log logger.Logger) (*JobsCfg, error) {
	const (
		defaultCleanupSpec = "0 3 * * *"
		defaultRetention   = 7 * 24 * time.Hour
		defaultOutboxPoll  = 30 * time.Second
	)

	poll, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", defaultOutboxPoll)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_POLL_INTERVAL")
		return nil, err
	}

	retention, err := parseDurationEnv("OUTBOX_RETENTION", defaultRetention)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_RETENTION")
		return nil, err
	}

	return &JobsCfg{
		OutboxCleanupSpec: getEnvOrDefault("OUTBOX_CLEANUP_SPEC", defaultCleanupSpec),
		OutboxRetention:   retention,
		OutboxPoll:        poll,
	}, nil
}

type durationEnv struct {
	key string
	def time.Duration
	dst *time.Duration
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

// splitList разбивает строку вида "a, b,c" на непустые элементы.
func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
