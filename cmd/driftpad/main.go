package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/driftpad/driftpad/client"
	"github.com/driftpad/driftpad/internal/config"
	"github.com/driftpad/driftpad/internal/domain"
	"github.com/driftpad/driftpad/internal/infra/database"
	"github.com/driftpad/driftpad/internal/infra/gateway"
	"github.com/driftpad/driftpad/internal/infra/repository"
	"github.com/driftpad/driftpad/internal/present/rest"
	"github.com/driftpad/driftpad/internal/present/rest/middleware"
	"github.com/driftpad/driftpad/internal/service"
	"github.com/driftpad/driftpad/internal/usecase"
)

const sessionTTL = 7 * 24 * time.Hour

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "config.yaml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	accountRepo := repository.NewAccountRepository(db)
	sessionRepo := repository.NewSessionRepository(rdb, sessionTTL)

	var pointer usecase.PointerStore
	switch conf.Pointer.Backend {
	case "file":
		pointer = repository.NewFilePointerStore(conf.Pointer.Path)
	default:
		pointer = repository.NewRedisPointerStore(rdb, conf.Pointer.Key)
	}

	documents := gateway.NewDocumentGateway(client.New(conf.Agent.RPCURL))

	bootstrapUC := usecase.NewBootstrapUsecase(accountRepo, conf.NodeInfo.FQDN)
	welcomeUC := usecase.NewWelcomeUsecase(accountRepo, pointer, documents, conf.NodeInfo.FQDN, conf.Agent.Name)
	sessions := service.NewSessionService(sessionRepo)

	if conf.Agent.AutoProvision {
		if err := provisionAgent(context.Background(), accountRepo, conf); err != nil {
			slog.Error("failed to provision agent account", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	if conf.Server.EnableTrace {
		shutdown, err := setupTraceProvider(conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to set up trace provider", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown()
		e.Use(otelecho.Middleware(conf.NodeInfo.FQDN))
	}

	sessionMiddleware := middleware.NewSessionMiddleware(sessions)
	e.Use(sessionMiddleware.IdentifySession)

	handler := rest.NewHandler(conf, bootstrapUC, welcomeUC, sessions)
	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}

// provisionAgent seeds the well-known agent account at boot. The account can
// be created out-of-band instead; a missing agent at request time fails that
// request with a misconfiguration error.
func provisionAgent(ctx context.Context, accounts usecase.AccountStore, conf config.Config) error {
	address := conf.Agent.Name + "@" + conf.NodeInfo.FQDN

	_, err := accounts.Get(ctx, address)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if conf.Agent.SharedSecret == "" {
		return fmt.Errorf("agent.sharedSecret is required when agent.autoProvision is set")
	}

	slog.Info("provisioning agent account", slog.String("address", address))
	return accounts.Put(ctx, domain.Account{
		Address:      address,
		Kind:         domain.AccountKindAgent,
		SharedSecret: conf.Agent.SharedSecret,
	})
}

func setupTraceProvider(endpoint string) (func(), error) {
	ctx := context.Background()

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewSchemaless(
			attribute.String("service.name", "driftpad"),
		)),
	)
	otel.SetTracerProvider(provider)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("trace provider shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}
