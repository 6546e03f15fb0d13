package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yusufwa7ied/FC-Barcelona-Match-Reports/internal/platform/logging"
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

	ClubName string

	MongoURI      string
	MongoDatabase string
	// MemoryStore swaps the document store for in-memory repositories,
	// useful for local runs without a database.
	MemoryStore bool

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	WhoscoredBaseURL               string
	WhoscoredFixturesPath          string
	WhoscoredTimeout               time.Duration
	WhoscoredMaxRetries            int
	WhoscoredMaxInFlight           int
	WhoscoredCircuitEnabled        bool
	WhoscoredCircuitFailureCount   int
	WhoscoredCircuitOpenTimeout    time.Duration
	WhoscoredCircuitHalfOpenMaxReq int

	SyncMaxWorkers   int
	NormalizerStrict bool
	PairMinCount     int
	MomentumInterval int

	InternalJobToken string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "match-reports"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ClubName:       getEnv("APP_CLUB_NAME", "Barcelona"),
		MongoURI:       strings.TrimSpace(getEnv("MONGO_URI", "")),
		MongoDatabase:  getEnv("MONGO_DATABASE", "fcb2425"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	memoryStore, err := strconv.ParseBool(getEnv("MEMORY_STORE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MEMORY_STORE: %w", err)
	}
	cfg.MemoryStore = memoryStore
	if !memoryStore && cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required unless MEMORY_STORE=true")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout = writeTimeout

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	cfg.SwaggerEnabled = swaggerEnabled

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = getEnv("PPROF_ADDR", "localhost:6060")

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	cfg.UptraceCaptureRequestBody = uptraceCaptureRequestBody
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	cfg.UptraceRequestBodyMaxBytes = uptraceRequestBodyMaxBytes

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	cfg.WhoscoredBaseURL = getEnv("WHOSCORED_BASE_URL", "https://www.whoscored.com")
	cfg.WhoscoredFixturesPath = getEnv("WHOSCORED_FIXTURES_PATH", "/Teams/65/Fixtures/Spain-Barcelona")
	whoscoredTimeout, err := time.ParseDuration(getEnv("WHOSCORED_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_TIMEOUT: %w", err)
	}
	cfg.WhoscoredTimeout = whoscoredTimeout
	whoscoredMaxRetries, err := getEnvAsInt("WHOSCORED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_MAX_RETRIES: %w", err)
	}
	if whoscoredMaxRetries < 0 {
		return Config{}, fmt.Errorf("WHOSCORED_MAX_RETRIES must be >= 0")
	}
	cfg.WhoscoredMaxRetries = whoscoredMaxRetries
	whoscoredMaxInFlight, err := getEnvAsInt("WHOSCORED_MAX_IN_FLIGHT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_MAX_IN_FLIGHT: %w", err)
	}
	if whoscoredMaxInFlight < 1 {
		return Config{}, fmt.Errorf("WHOSCORED_MAX_IN_FLIGHT must be >= 1")
	}
	cfg.WhoscoredMaxInFlight = whoscoredMaxInFlight

	whoscoredCircuitEnabled, err := strconv.ParseBool(getEnv("WHOSCORED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_CIRCUIT_ENABLED: %w", err)
	}
	cfg.WhoscoredCircuitEnabled = whoscoredCircuitEnabled
	whoscoredCircuitFailureCount, err := getEnvAsInt("WHOSCORED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if whoscoredCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WHOSCORED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.WhoscoredCircuitFailureCount = whoscoredCircuitFailureCount
	whoscoredCircuitOpenTimeout, err := time.ParseDuration(getEnv("WHOSCORED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if whoscoredCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("WHOSCORED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.WhoscoredCircuitOpenTimeout = whoscoredCircuitOpenTimeout
	whoscoredCircuitHalfOpenMaxReq, err := getEnvAsInt("WHOSCORED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WHOSCORED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if whoscoredCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("WHOSCORED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.WhoscoredCircuitHalfOpenMaxReq = whoscoredCircuitHalfOpenMaxReq

	syncMaxWorkers, err := getEnvAsInt("SYNC_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_MAX_WORKERS: %w", err)
	}
	if syncMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_MAX_WORKERS must be >= 1")
	}
	cfg.SyncMaxWorkers = syncMaxWorkers

	normalizerStrict, err := strconv.ParseBool(getEnv("NORMALIZER_STRICT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse NORMALIZER_STRICT: %w", err)
	}
	cfg.NormalizerStrict = normalizerStrict

	pairMinCount, err := getEnvAsInt("PASS_PAIR_MIN_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PASS_PAIR_MIN_COUNT: %w", err)
	}
	if pairMinCount < 1 {
		return Config{}, fmt.Errorf("PASS_PAIR_MIN_COUNT must be >= 1")
	}
	cfg.PairMinCount = pairMinCount

	momentumInterval, err := getEnvAsInt("MOMENTUM_INTERVAL_MINUTES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse MOMENTUM_INTERVAL_MINUTES: %w", err)
	}
	if momentumInterval < 1 {
		return Config{}, fmt.Errorf("MOMENTUM_INTERVAL_MINUTES must be >= 1")
	}
	cfg.MomentumInterval = momentumInterval

	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
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
