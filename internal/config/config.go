package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poolhouse/confidence-pool/internal/platform/logging"
	"github.com/poolhouse/confidence-pool/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	DBURL                   string
	DBDisablePreparedBinary bool

	Season                 int
	TotalWeeks             int
	SurvivorEntryFeeCents  int64
	SettlementWorkers      int
	InternalJobToken       string

	ScorelineBaseURL        string
	ScorelineToken          string
	ScorelineTimeout        time.Duration
	ScorelineMaxRetries     int
	ScorelineCircuitBreaker resilience.CircuitBreakerConfig

	NotifyWebhookURL        string
	NotifyWebhookToken      string
	NotifyTimeout           time.Duration
	NotifyMaxRetries        int
	NotifyCircuitBreaker    resilience.CircuitBreakerConfig

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	season, err := getEnvAsInt("POOL_SEASON", time.Now().Year())
	if err != nil {
		return Config{}, fmt.Errorf("parse POOL_SEASON: %w", err)
	}
	totalWeeks, err := getEnvAsInt("POOL_TOTAL_WEEKS", 18)
	if err != nil {
		return Config{}, fmt.Errorf("parse POOL_TOTAL_WEEKS: %w", err)
	}
	entryFeeCents, err := getEnvAsInt("SURVIVOR_ENTRY_FEE_CENTS", 5000)
	if err != nil {
		return Config{}, fmt.Errorf("parse SURVIVOR_ENTRY_FEE_CENTS: %w", err)
	}
	workers, err := getEnvAsInt("SETTLEMENT_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SETTLEMENT_WORKERS: %w", err)
	}

	scorelineTimeout, err := time.ParseDuration(getEnv("SCORELINE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORELINE_TIMEOUT: %w", err)
	}
	scorelineMaxRetries, err := getEnvAsInt("SCORELINE_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORELINE_MAX_RETRIES: %w", err)
	}
	scorelineBreaker, err := loadCircuitBreaker("SCORELINE")
	if err != nil {
		return Config{}, err
	}

	notifyTimeout, err := time.ParseDuration(getEnv("NOTIFY_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_TIMEOUT: %w", err)
	}
	notifyMaxRetries, err := getEnvAsInt("NOTIFY_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_MAX_RETRIES: %w", err)
	}
	notifyBreaker, err := loadCircuitBreaker("NOTIFY")
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "confidence-pool"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DBURL:                   strings.TrimSpace(getEnv("DATABASE_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		Season:                season,
		TotalWeeks:            totalWeeks,
		SurvivorEntryFeeCents: int64(entryFeeCents),
		SettlementWorkers:     workers,
		InternalJobToken:      strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),

		ScorelineBaseURL:        getEnv("SCORELINE_BASE_URL", ""),
		ScorelineToken:          strings.TrimSpace(getEnv("SCORELINE_TOKEN", "")),
		ScorelineTimeout:        scorelineTimeout,
		ScorelineMaxRetries:     scorelineMaxRetries,
		ScorelineCircuitBreaker: scorelineBreaker,

		NotifyWebhookURL:     strings.TrimSpace(getEnv("NOTIFY_WEBHOOK_URL", "")),
		NotifyWebhookToken:   strings.TrimSpace(getEnv("NOTIFY_WEBHOOK_TOKEN", "")),
		NotifyTimeout:        notifyTimeout,
		NotifyMaxRetries:     notifyMaxRetries,
		NotifyCircuitBreaker: notifyBreaker,

		PprofEnabled: pprofEnabled,
		PprofAddr:    getEnv("PPROF_ADDR", ":6060"),

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: getEnv("PYROSCOPE_SERVER_ADDRESS", ""),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if totalWeeks < 1 {
		return Config{}, fmt.Errorf("POOL_TOTAL_WEEKS must be > 0")
	}
	if workers < 1 {
		return Config{}, fmt.Errorf("SETTLEMENT_WORKERS must be > 0")
	}

	return cfg, nil
}

func loadCircuitBreaker(prefix string) (resilience.CircuitBreakerConfig, error) {
	enabled, err := strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	failureCount, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	openTimeout, err := time.ParseDuration(getEnv(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_OPEN_TIMEOUT: %w", prefix, err)
	}
	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
	}, nil
}

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
