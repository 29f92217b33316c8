package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	Tasks struct {
		AssignmentExpiryInterval time.Duration
		ShiftTimeoutInterval     time.Duration
		WeeklyPayoutInterval     time.Duration
	}

	Dispatch struct {
		SearchRadiusKm          float64
		AcceptTimeout           time.Duration // время на принятие назначения водителем
		MaxAssignmentAttempts   int
		MaxShiftDuration        time.Duration
		BaseDeliveryFee         float64
		InstantPayoutFeePercent float64
		InstantPayoutMinFee     float64
		SweepBatchSize          int
	}

	HTTPServer struct {
		Port                  string
		RequestTimeout        time.Duration // middleware timeout
		RateLimiterQPS        int           // middleware  rate limiter capacity
		RateLimiterBurst      int           // middlewarerate limiter burst/refill
		LocationUpdatesPerSec int           // лимит обновлений позиции на одного водителя
		PprofEnabled          bool
		PprofPort             string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Logger struct {
		Level       string
		Development bool
	}

	Kafka struct {
		PortHealthcheck    string
		Brokers            string
		Topic              string
		NotificationsTopic string
		ConsumerGroup      string
		Sarama             Sarama
		Handlers           KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		OrderEvents OrderEvents
	}

	OrderEvents struct {
		ProcessTimeout time.Duration
	}

	Config struct {
		Tasks    Tasks
		Dispatch Dispatch
		Server   HTTPServer
		Database Database
		Logger   Logger
		Kafka    Kafka
	}
)

// BrokerList адреса брокеров из KAFKA_BROKERS через запятую.
func (k *Kafka) BrokerList() []string {
	brokers := strings.Split(k.Brokers, ",")
	res := make([]string, 0, len(brokers))
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			res = append(res, b)
		}
	}
	return res
}

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// LoadDatabase читает только параметры БД, для утилит вроде cmd/migrate.
func LoadDatabase() (*Database, error) {
	db := &Database{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}

	if err := validateDatabase(db); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return db, nil
}

func loadFromEnv() (*Config, error) {
	expiryInterval, err := osGetEnvDuration("BACKGROUND_ASSIGNMENT_EXPIRY_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	shiftTimeoutInterval, err := osGetEnvDuration("BACKGROUND_SHIFT_TIMEOUT_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	weeklyPayoutInterval, err := osGetEnvDuration("BACKGROUND_WEEKLY_PAYOUT_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	searchRadius, err := osGetFloat("DISPATCH_SEARCH_RADIUS_KM")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	acceptTimeout, err := osGetEnvDuration("DISPATCH_ACCEPT_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	maxAttempts, err := osGetInt("DISPATCH_MAX_ASSIGNMENT_ATTEMPTS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	maxShiftDuration, err := osGetEnvDuration("DISPATCH_MAX_SHIFT_DURATION")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	baseFee, err := osGetFloat("DISPATCH_BASE_DELIVERY_FEE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	instantFeePercent, err := osGetFloat("PAYOUT_INSTANT_FEE_PERCENT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	instantMinFee, err := osGetFloat("PAYOUT_INSTANT_MIN_FEE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sweepBatchSize, err := osGetInt("DISPATCH_SWEEP_BATCH_SIZE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderEventsTimeout, err := osGetEnvDuration("KAFKA_HANDLER_ORDER_EVENTS_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	locationUpdatesPerSec, err := osGetInt("MIDDLEWARE_LOCATION_UPDATES_PER_SEC")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logDevelopment, err := osGetBool("LOG_DEVELOPMENT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Tasks: Tasks{
			AssignmentExpiryInterval: expiryInterval,
			ShiftTimeoutInterval:     shiftTimeoutInterval,
			WeeklyPayoutInterval:     weeklyPayoutInterval,
		},
		Dispatch: Dispatch{
			SearchRadiusKm:          searchRadius,
			AcceptTimeout:           acceptTimeout,
			MaxAssignmentAttempts:   maxAttempts,
			MaxShiftDuration:        maxShiftDuration,
			BaseDeliveryFee:         baseFee,
			InstantPayoutFeePercent: instantFeePercent,
			InstantPayoutMinFee:     instantMinFee,
			SweepBatchSize:          sweepBatchSize,
		},
		Server: HTTPServer{
			Port:                  os.Getenv("PORT"),
			RequestTimeout:        requestTimeout,
			RateLimiterQPS:        rateLimiterQPS,
			RateLimiterBurst:      rateLimiterBurst,
			LocationUpdatesPerSec: locationUpdatesPerSec,
			PprofEnabled:          pprofEnabled,
			PprofPort:             os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Logger: Logger{
			Level:       os.Getenv("LOG_LEVEL"),
			Development: logDevelopment,
		},
		Kafka: Kafka{
			Brokers:            os.Getenv("KAFKA_BROKERS"),
			Topic:              os.Getenv("KAFKA_TOPIC"),
			NotificationsTopic: os.Getenv("KAFKA_NOTIFICATIONS_TOPIC"),
			ConsumerGroup:      os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck:    os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				OrderEvents: OrderEvents{
					ProcessTimeout: orderEventsTimeout,
				},
			},
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return err
	}

	if cfg.Dispatch.SearchRadiusKm <= 0 {
		return errors.New("DISPATCH_SEARCH_RADIUS_KM must be positive")
	}
	if cfg.Dispatch.MaxAssignmentAttempts <= 0 {
		return errors.New("DISPATCH_MAX_ASSIGNMENT_ATTEMPTS must be positive")
	}
	if cfg.Dispatch.InstantPayoutFeePercent < 0 || cfg.Dispatch.InstantPayoutFeePercent >= 100 {
		return errors.New("PAYOUT_INSTANT_FEE_PERCENT must be in [0, 100)")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	if cfg.Kafka.NotificationsTopic == "" {
		return errors.New("KAFKA_NOTIFICATIONS_TOPIC is required")
	}
	if cfg.Kafka.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.Kafka.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}

	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Kafka.Handlers.OrderEvents.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_ORDER_EVENTS_PROCESS_TIMEOUT is required")
	}

	return nil
}

func validateDatabase(db *Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
