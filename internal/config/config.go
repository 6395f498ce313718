package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kurtiswh/pigskin-picksix-sub006/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	DBURL                          string
	DBDisablePreparedBinary        bool
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	CORSAllowedOrigins             []string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	MaxPicksPerWeek                int
	PprofEnabled                   bool
	PprofAddr                      string
	AccountBaseURL                 string
	AccountIntrospectPath          string
	AccountAdminKey                string
	AccountTimeout                 time.Duration
	AccountCircuitEnabled          bool
	AccountCircuitFailureCount     int
	AccountCircuitOpenTimeout      time.Duration
	AccountCircuitHalfOpenMaxReq   int
	UptraceEnabled                 bool
	UptraceDSN                     string
	UptraceLogsEnabled             bool
	BetterStackEnabled             bool
	BetterStackEndpoint            string
	BetterStackToken               string
	BetterStackTimeout             time.Duration
	BetterStackMinLevel            logging.Level
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	ScoreFeedEnabled               bool
	ScoreFeedBaseURL               string
	ScoreFeedAPIKey                string
	ScoreFeedTimeout               time.Duration
	ScoreFeedMaxRetries            int
	ScoreFeedMinPollInterval       time.Duration
	ScoreFeedCircuitEnabled        bool
	ScoreFeedCircuitFailureCount   int
	ScoreFeedCircuitOpenTimeout    time.Duration
	ScoreFeedCircuitHalfOpenMaxReq int
	InternalJobToken               string
	QStashEnabled                  bool
	QStashBaseURL                  string
	QStashToken                    string
	QStashTargetBaseURL            string
	QStashRetries                  int
	PollLiveInterval               time.Duration
	PollPreKickoffLead             time.Duration
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}
	betterStackMinLevel := parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	maxPicksPerWeek, err := getEnvAsInt("MAX_PICKS_PER_WEEK", 6)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_PICKS_PER_WEEK: %w", err)
	}
	if maxPicksPerWeek < 1 {
		return Config{}, fmt.Errorf("MAX_PICKS_PER_WEEK must be >= 1")
	}

	pollLiveInterval, err := time.ParseDuration(getEnv("POLL_LIVE_INTERVAL", "2m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_LIVE_INTERVAL: %w", err)
	}
	if pollLiveInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_LIVE_INTERVAL must be > 0")
	}

	pollPreKickoffLead, err := time.ParseDuration(getEnv("POLL_PRE_KICKOFF_LEAD", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_PRE_KICKOFF_LEAD: %w", err)
	}
	if pollPreKickoffLead <= 0 {
		return Config{}, fmt.Errorf("POLL_PRE_KICKOFF_LEAD must be > 0")
	}

	scoreFeedEnabled, err := strconv.ParseBool(getEnv("SCOREFEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_ENABLED: %w", err)
	}
	scoreFeedTimeout, err := time.ParseDuration(getEnv("SCOREFEED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_TIMEOUT: %w", err)
	}
	if scoreFeedTimeout <= 0 {
		return Config{}, fmt.Errorf("SCOREFEED_TIMEOUT must be > 0")
	}
	scoreFeedMaxRetries, err := getEnvAsInt("SCOREFEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_MAX_RETRIES: %w", err)
	}
	if scoreFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("SCOREFEED_MAX_RETRIES must be >= 0")
	}
	scoreFeedMinPollInterval, err := time.ParseDuration(getEnv("SCOREFEED_MIN_POLL_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_MIN_POLL_INTERVAL: %w", err)
	}
	if scoreFeedMinPollInterval < 0 {
		return Config{}, fmt.Errorf("SCOREFEED_MIN_POLL_INTERVAL must be >= 0")
	}
	scoreFeedCircuitEnabled, err := strconv.ParseBool(getEnv("SCOREFEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_ENABLED: %w", err)
	}
	scoreFeedCircuitFailureCount, err := getEnvAsInt("SCOREFEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if scoreFeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SCOREFEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	scoreFeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("SCOREFEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if scoreFeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SCOREFEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	scoreFeedCircuitHalfOpenMaxReq, err := getEnvAsInt("SCOREFEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCOREFEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if scoreFeedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SCOREFEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	scoreFeedBaseURL := strings.TrimSpace(getEnv("SCOREFEED_BASE_URL", "https://scores.pigskinpicksix.dev/v1"))
	scoreFeedAPIKey := strings.TrimSpace(getEnv("SCOREFEED_API_KEY", ""))
	if scoreFeedEnabled && scoreFeedAPIKey == "" {
		return Config{}, fmt.Errorf("SCOREFEED_API_KEY is required when SCOREFEED_ENABLED=true")
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if qstashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	qstashBaseURL := strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "pigskin-picksix-api"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                          strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:        true,
		CORSAllowedOrigins:             splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxPicksPerWeek:                maxPicksPerWeek,
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		AccountBaseURL:                 getEnv("ACCOUNT_BASE_URL", "http://localhost:8081"),
		AccountIntrospectPath:          getEnv("ACCOUNT_INTROSPECT_PATH", "/v1/auth/introspect"),
		AccountAdminKey:                getEnv("ACCOUNT_ADMIN_KEY", ""),
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		UptraceLogsEnabled:             uptraceLogsEnabled,
		BetterStackEnabled:             betterStackEnabled,
		BetterStackEndpoint:            betterStackEndpoint,
		BetterStackToken:               strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:             betterStackTimeout,
		BetterStackMinLevel:            betterStackMinLevel,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
		ScoreFeedEnabled:               scoreFeedEnabled,
		ScoreFeedBaseURL:               scoreFeedBaseURL,
		ScoreFeedAPIKey:                scoreFeedAPIKey,
		ScoreFeedTimeout:               scoreFeedTimeout,
		ScoreFeedMaxRetries:            scoreFeedMaxRetries,
		ScoreFeedMinPollInterval:       scoreFeedMinPollInterval,
		ScoreFeedCircuitEnabled:        scoreFeedCircuitEnabled,
		ScoreFeedCircuitFailureCount:   scoreFeedCircuitFailureCount,
		ScoreFeedCircuitOpenTimeout:    scoreFeedCircuitOpenTimeout,
		ScoreFeedCircuitHalfOpenMaxReq: scoreFeedCircuitHalfOpenMaxReq,
		InternalJobToken:               internalJobToken,
		QStashEnabled:                  qstashEnabled,
		QStashBaseURL:                  qstashBaseURL,
		QStashToken:                    qstashToken,
		QStashTargetBaseURL:            qstashTargetBaseURL,
		QStashRetries:                  qstashRetries,
		PollLiveInterval:               pollLiveInterval,
		PollPreKickoffLead:             pollPreKickoffLead,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	accountTimeout, err := time.ParseDuration(getEnv("ACCOUNT_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_TIMEOUT: %w", err)
	}

	accountCircuitEnabled, err := strconv.ParseBool(getEnv("ACCOUNT_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_CIRCUIT_ENABLED: %w", err)
	}

	accountCircuitFailureCount, err := getEnvAsInt("ACCOUNT_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if accountCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ACCOUNT_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	accountCircuitOpenTimeout, err := time.ParseDuration(getEnv("ACCOUNT_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if accountCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ACCOUNT_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	accountCircuitHalfOpenMaxReq, err := getEnvAsInt("ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if accountCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.AccountTimeout = accountTimeout
	cfg.AccountCircuitEnabled = accountCircuitEnabled
	cfg.AccountCircuitFailureCount = accountCircuitFailureCount
	cfg.AccountCircuitOpenTimeout = accountCircuitOpenTimeout
	cfg.AccountCircuitHalfOpenMaxReq = accountCircuitHalfOpenMaxReq
	cfg.LogLevel = logLevel

	return cfg, nil
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
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
