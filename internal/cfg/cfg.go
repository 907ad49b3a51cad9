package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/jimlawless/whereami"
)

type Config struct {
	Minio   *MinIOCfg
	Http    *HTTPConfig
	Grpc    *GRPCConfig
	Db      *PGDBCfg
	Redis   *RedisCfg
	Kafka   *KafkaCfg
	Pricing *PricingCfg
}

// PricingCfg — параметры расчёта цен.
type PricingCfg struct {
	Actor               string         // значение applied_by в истории цен
	Location            *time.Location // часовой пояс, в котором считается «сегодня»
	CalcLogEnabled      bool
	ComputeAllLimit     int // сколько продуктов пересчитывает ComputeAll
	ComputeWorkers      int
	DefaultHistoryLimit int
	MaxHistoryLimit     int
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
	MinioUseSSL       bool   // Подключение к Minio по TLS
	ArchiveWorkers    int    // Лимит одновременных загрузок журналов расчёта
	ArchiveRetries    int
	ArchiveQueueSize  int // Сколько журналов ждут загрузки, остальные отбрасываются
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int32  // 0 — значение pgxpool по умолчанию
	MigrationsPath string // источник golang-migrate, например file://db/migrations
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	PriceTTL    time.Duration
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
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

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	pricing, err := loadPricingCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Minio:   minio,
		Http:    http,
		Grpc:    loadGRPCConfig(),
		Db:      db,
		Redis:   redis,
		Kafka:   kafka,
		Pricing: pricing,
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
	brokers := strings.Split(brokerStr, ",")

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

	networkMode := getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode)

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       networkMode,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL         = false
		defaultEndpoint       = "minio:9000"
		defaultBucketName     = "calculation-logs"
		defaultArchiveWorkers = 4
		defaultArchiveRetries = 3
		defaultArchiveQueue   = 1024
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	archiveWorkers, err := parseIntEnv("CALC_LOG_WORKERS", defaultArchiveWorkers)
	if err != nil {
		log.Errorf(err, "invalid CALC_LOG_WORKERS")
		return nil, err
	}

	archiveRetries, err := parseIntEnv("CALC_LOG_RETRIES", defaultArchiveRetries)
	if err != nil {
		log.Errorf(err, "invalid CALC_LOG_RETRIES")
		return nil, err
	}

	archiveQueue, err := parseIntEnv("CALC_LOG_QUEUE", defaultArchiveQueue)
	if err != nil || archiveQueue <= 0 {
		err = e.Wrap("CALC_LOG_QUEUE", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid CALC_LOG_QUEUE")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucketName),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		ArchiveWorkers:    archiveWorkers,
		ArchiveRetries:    archiveRetries,
		ArchiveQueueSize:  archiveQueue,
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
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "file://db/migrations"
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

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", 0)
	if err != nil {
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, e.Wrap("POSTGRES_MAX_CONNS", err)
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns:       int32(maxConns),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultPriceTTL     = 3 * time.Minute
	)

	addr := getEnvOrDefault("REDIS_ADDR", defaultAddr)
	password := getEnv("REDIS_PASSWORD")
	user := getEnv("REDIS_USER")

	dbStr := getEnvOrDefault("REDIS_DB_ID", strconv.Itoa(defaultDB))
	db, err := strconv.Atoi(dbStr)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetriesStr := getEnvOrDefault("MAX_RETRIES", strconv.Itoa(defaultMaxRetries))
	maxRetries, err := strconv.Atoi(maxRetriesStr)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	priceTTL, err := parseDurationEnv("PRICE_CACHE_TTL", defaultPriceTTL)
	if err != nil {
		log.Errorf(err, "invalid PRICE_CACHE_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        addr,
		Password:    password,
		User:        user,
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		PriceTTL:    priceTTL,
	}, nil
}

func loadPricingCfg(log logger.Logger) (*PricingCfg, error) {
	const (
		defaultActor           = "System"
		defaultTimezone        = "UTC"
		defaultCalcLogEnabled  = true
		defaultComputeAllLimit = 10000
		defaultComputeWorkers  = 4
		defaultHistoryLimit    = 50
		defaultMaxHistoryLimit = 500
	)

	loc, err := time.LoadLocation(getEnvOrDefault("PRICING_TIMEZONE", defaultTimezone))
	if err != nil {
		log.Errorf(err, "invalid PRICING_TIMEZONE")
		return nil, err
	}

	calcLogEnabled, err := strconv.ParseBool(getEnvOrDefault("CALC_LOG_ENABLED", strconv.FormatBool(defaultCalcLogEnabled)))
	if err != nil {
		log.Errorf(err, "invalid CALC_LOG_ENABLED")
		return nil, err
	}

	computeAllLimit, err := parseIntEnv("COMPUTE_ALL_LIMIT", defaultComputeAllLimit)
	if err != nil || computeAllLimit <= 0 {
		err = e.Wrap("COMPUTE_ALL_LIMIT", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid COMPUTE_ALL_LIMIT")
		return nil, err
	}

	computeWorkers, err := parseIntEnv("COMPUTE_WORKERS", defaultComputeWorkers)
	if err != nil || computeWorkers <= 0 {
		err = e.Wrap("COMPUTE_WORKERS", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid COMPUTE_WORKERS")
		return nil, err
	}

	maxHistoryLimit, err := parseIntEnv("HISTORY_MAX_LIMIT", defaultMaxHistoryLimit)
	if err != nil || maxHistoryLimit <= 0 {
		err = e.Wrap("HISTORY_MAX_LIMIT", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid HISTORY_MAX_LIMIT")
		return nil, err
	}

	historyLimit, err := parseIntEnv("HISTORY_DEFAULT_LIMIT", defaultHistoryLimit)
	if err != nil || historyLimit <= 0 || historyLimit > maxHistoryLimit {
		err = e.Wrap("HISTORY_DEFAULT_LIMIT", e.ErrIncorrectEnvVariable)
		log.Errorf(err, "invalid HISTORY_DEFAULT_LIMIT")
		return nil, err
	}

	return &PricingCfg{
		Actor:               getEnvOrDefault("PRICING_ACTOR", defaultActor),
		Location:            loc,
		CalcLogEnabled:      calcLogEnabled,
		ComputeAllLimit:     computeAllLimit,
		ComputeWorkers:      computeWorkers,
		DefaultHistoryLimit: historyLimit,
		MaxHistoryLimit:     maxHistoryLimit,
	}, nil
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
