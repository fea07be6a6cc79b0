package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	IdleTimeout       time.Duration // idle keep-alive connections are closed after this long
	ShutdownTimeout   time.Duration // in-flight requests get this long before connections are dropped
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration

	LogLevel    slog.Level
	LogFormat   string // json | text
	ServiceName string

	// AccessLogFormat is the request-line template. Nil (ACCESS_LOG_FORMAT
	// unset) selects logformat.Default; a set but empty variable is the empty
	// template.
	AccessLogFormat   *string
	AccessLogExclude  []string
	AccessLogClientIP bool

	PprofEnabled bool
	AdminAddr    string

	// Admin API tokens (HS256).
	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	OtlpGrpcEndpoint string
	OtlpServiceName  string
	TracingEnabled   bool

	// Access lines are additionally shipped to Kafka when enabled.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() Config {
	cfg := Config{
		Addr:              ":9999",
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,

		LogLevel:    slog.LevelInfo,
		LogFormat:   "json",
		ServiceName: "reqlog",

		AccessLogExclude: []string{"/healthz"},

		PprofEnabled: false,
		AdminAddr:    "127.0.0.1:6060",

		JWTIssuer: "reqlog",
		JWTTTL:    12 * time.Hour,

		OtlpGrpcEndpoint: "127.0.0.1:4317",
		OtlpServiceName:  "reqlog",
		TracingEnabled:   false,

		KafkaEnabled: false,
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "access-log",
	}

	_ = godotenv.Load(".env")

	lookupString("ADDR", &cfg.Addr)
	lookupDuration("IDLE_TIMEOUT", &cfg.IdleTimeout)
	lookupDuration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	lookupDuration("READ_HEADER_TIMEOUT", &cfg.ReadHeaderTimeout)
	lookupDuration("READ_TIMEOUT", &cfg.ReadTimeout)
	lookupDuration("WRITE_TIMEOUT", &cfg.WriteTimeout)

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = ParseLevel(v)
	}
	lookupString("LOG_FORMAT", &cfg.LogFormat)
	lookupString("SERVICE_NAME", &cfg.ServiceName)

	if v, ok := os.LookupEnv("ACCESS_LOG_FORMAT"); ok {
		cfg.AccessLogFormat = &v
	}
	lookupList("ACCESS_LOG_EXCLUDE", &cfg.AccessLogExclude)
	lookupBool("ACCESS_LOG_CLIENT_IP", &cfg.AccessLogClientIP)

	lookupBool("PPROF_ENABLED", &cfg.PprofEnabled)
	lookupString("ADMIN_ADDR", &cfg.AdminAddr)

	lookupString("JWT_SECRET", &cfg.JWTSecret)
	lookupString("JWT_ISSUER", &cfg.JWTIssuer)
	lookupDuration("JWT_TTL", &cfg.JWTTTL)

	lookupBool("TRACING_ENABLED", &cfg.TracingEnabled)
	lookupString("OTLP_GRPC_ENDPOINT", &cfg.OtlpGrpcEndpoint)
	lookupString("OTLP_SERVICE_NAME", &cfg.OtlpServiceName)

	lookupBool("KAFKA_ENABLED", &cfg.KafkaEnabled)
	lookupList("KAFKA_BROKERS", &cfg.KafkaBrokers)
	lookupString("KAFKA_TOPIC", &cfg.KafkaTopic)

	return cfg
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(v string) slog.Level {
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Unset and empty variables keep the default.

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func lookupDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func lookupBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = strings.ToLower(v) == "true"
	}
}

func lookupList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
