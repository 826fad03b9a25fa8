package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alimikegami/point-of-sales/checkout-service/config"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/controller"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/cache/redis"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/commerce/shopify"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/ipnlog"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/mail"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/payment-gateway/digistore"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/reconciliation"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/point-of-sales/checkout-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/repository"
	"github.com/alimikegami/point-of-sales/checkout-service/internal/service"
	"github.com/alimikegami/point-of-sales/checkout-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceName = "checkout-service"

type App struct {
	Config *config.Config
	Server *echo.Echo

	metricsServer *echo.Echo
	scheduler     gocron.Scheduler
	kafkaWriter   *kafkago.Writer
	redisClient   *goredis.Client
	ipnLog        *ipnlog.Logger
	traceProvider *sdktrace.TracerProvider
}

// Initialize builds every dependency and registers the routes without serving.
func (app *App) Initialize() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost, serviceName)
	if err != nil {
		return err
	}
	app.traceProvider = traceProvider

	tracer := traceProvider.Tracer(serviceName)

	e := echo.New()
	e.HideBanner = true

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Empty subsystem keeps metric names aligned with the other services.
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)

	app.metricsServer = echo.New()
	app.metricsServer.HideBanner = true
	app.metricsServer.GET("/metrics", echoprometheus.NewHandler())

	notificationRepo, err := app.createNotificationRepository()
	if err != nil {
		return err
	}

	ipnLog, err := ipnlog.CreateIPNLogger(app.Config.IPNLogPath)
	if err != nil {
		return fmt.Errorf("opening ipn log: %w", err)
	}
	app.ipnLog = ipnLog

	shopifyClient := shopify.CreateShopifyClient(app.Config.ShopifyConfig)
	digistoreClient := digistore.CreateDigistoreClient(app.Config.DigistoreConfig)

	checkoutSvc := service.CreateCheckoutService(shopifyClient, digistoreClient, app.Config.DigistoreConfig)
	notificationSvc := service.CreateNotificationService(
		notificationRepo,
		shopifyClient,
		reconciliation.CreateFanout(app.reconciliationSinks()...),
		ipnLog,
		app.Config.DigistoreConfig.IPNSecret,
		app.Config.DedupTTL,
	)

	g := e.Group("/api/v1")
	controller.CreateCheckoutController(g, checkoutSvc, notificationSvc,
		localmiddleware.AllowOrigin(app.Config.AllowedOrigin),
		localmiddleware.RateLimit(app.Config.CheckoutRate, app.Config.CheckoutBurst),
	)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := digistoreClient.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("component", "Initialize").Msg("payment processor is not reachable")
		}
	}()

	app.Server = e

	return nil
}

func (app *App) createNotificationRepository() (repository.NotificationRepository, error) {
	if app.Config.RedisURL != "" {
		rdb, err := redis.CreateRedisClient(app.Config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		app.redisClient = rdb

		return repository.CreateRedisNotificationRepository(rdb), nil
	}

	repo := repository.CreateMemoryNotificationRepository()

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			10*time.Minute,
		),
		gocron.NewTask(
			repo.PruneExpired,
		),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	app.scheduler = s

	return repo, nil
}

func (app *App) reconciliationSinks() []reconciliation.Sink {
	var sinks []reconciliation.Sink

	if app.Config.KafkaEnabled() {
		app.kafkaWriter = kafka.CreateKafkaWriter(app.Config)
		sinks = append(sinks, reconciliation.CreateKafkaSink(app.kafkaWriter))
	}

	if app.Config.MailEnabled() {
		dialer := mail.CreateMailDialer(app.Config)
		sinks = append(sinks, reconciliation.CreateMailSink(dialer, app.Config.MailConfig.From, app.Config.MailConfig.To))
	}

	return sinks
}

// Start serves until the server is shut down.
func (app *App) Start() error {
	go func() {
		if err := app.metricsServer.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	if err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errList []error

	if err := app.Server.Shutdown(ctx); err != nil {
		errList = append(errList, err)
	}
	if err := app.metricsServer.Shutdown(ctx); err != nil {
		errList = append(errList, err)
	}
	if app.scheduler != nil {
		if err := app.scheduler.Shutdown(); err != nil {
			errList = append(errList, err)
		}
	}
	if app.kafkaWriter != nil {
		if err := app.kafkaWriter.Close(); err != nil {
			errList = append(errList, err)
		}
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			errList = append(errList, err)
		}
	}
	if err := app.ipnLog.Close(); err != nil {
		errList = append(errList, err)
	}
	if err := app.traceProvider.Shutdown(ctx); err != nil {
		errList = append(errList, err)
	}

	return errors.Join(errList...)
}
