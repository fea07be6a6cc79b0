package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"reqlog.local/gee"
	"reqlog.local/gee/middleware"
	"reqlog.local/internal/app/reqlog"
	"reqlog.local/internal/app/reqlog/httpapi"
	"reqlog.local/internal/platform/auth"
	"reqlog.local/internal/platform/config"
	"reqlog.local/internal/platform/httpmiddleware"
	"reqlog.local/internal/platform/httpserver"
	"reqlog.local/internal/platform/logging"
	"reqlog.local/internal/platform/metrics"
	"reqlog.local/internal/platform/trace"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg := config.Load()

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(logger)

	// A template that does not compile stops the service here rather than
	// at the first request.
	store, err := reqlog.NewStore(cfg.AccessLogFormat)
	if err != nil {
		log.Fatalf("ACCESS_LOG_FORMAT: %v", err)
	}
	slog.Info("access log format loaded", "template", store.Snapshot().Template)

	metrics.Init()

	sinks := reqlog.Tee{reqlog.NewSlogSink(logger)}
	if cfg.KafkaEnabled {
		slog.Info("shipping access log to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		kafkaSink := reqlog.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}

	if cfg.TracingEnabled {
		shutdown, err := trace.Init(cfg.OtlpGrpcEndpoint, cfg.OtlpServiceName)
		if err != nil {
			slog.Error("trace init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error("trace shutdown failed", "err", err)
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	accessLog := middleware.AccessLog(
		middleware.WithSource(store),
		middleware.WithSink(sinks),
		middleware.WithExcludePaths(cfg.AccessLogExclude...),
		middleware.WithClientIP(cfg.AccessLogClientIP),
	)

	r := gee.New()
	r.Use(middleware.ReqID(), accessLog, gee.Recovery(), httpmiddleware.Metrics(), httpmiddleware.TraceName())
	r.GET("/healthz", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	r.GET("/echo/*path", func(ctx *gee.Context) {
		ctx.JSON(http.StatusOK, gee.H{
			"method": ctx.Method,
			"path":   "/" + ctx.Param("path"),
			"query":  ctx.Req.URL.RawQuery,
		})
	})

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(r, "http")
	}
	publicSrv := httpserver.New(cfg, publicHandler)

	adminSrv := httpserver.NewWithAddr(cfg, cfg.AdminAddr, newAdminHandler(cfg, store))

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("listening", "addr", cfg.Addr, "admin_addr", cfg.AdminAddr)
	if err := httpserver.RunAll(stopCtx, cfg.ShutdownTimeout, publicSrv, adminSrv); err != nil {
		log.Fatal(err)
	}
}

// newAdminHandler serves metrics, build info and, when JWT_SECRET is set,
// the format API. Bind it to loopback or an internal network only.
func newAdminHandler(cfg config.Config, store *reqlog.Store) http.Handler {
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name": cfg.ServiceName,
			"version":      version,
			"commit":       commit,
			"build_time":   buildTime,
			"go_version":   runtime.Version(),
			"format_rev":   store.Snapshot().Revision,
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	ts, err := auth.NewHS256Service(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		slog.Warn("admin format API disabled", "err", err)
		return adminMux
	}
	admin := gee.New()
	admin.Use(middleware.ReqID(), gee.Recovery())
	httpapi.RegisterAdminRoutes(admin, store, ts)
	adminMux.Handle("/admin/", admin)
	return adminMux
}
