package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/linka-market/stock-core/internal/application/alerting"
	appledger "github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/application/messaging"
	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/application/reservation"
	"github.com/linka-market/stock-core/internal/infrastructure/bus"
	"github.com/linka-market/stock-core/internal/infrastructure/postgres"
	"github.com/linka-market/stock-core/internal/infrastructure/push"
	"github.com/linka-market/stock-core/internal/infrastructure/redislock"
	httpRouter "github.com/linka-market/stock-core/internal/interfaces/http"
	"github.com/linka-market/stock-core/pkg/config"
	"github.com/linka-market/stock-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	lineRepo := postgres.NewStockLineRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	alertRepo := postgres.NewStockAlertRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	preferenceRepo := postgres.NewPreferenceRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Lock distribuido opcional: solo con varios escritores fuera de la BD.
	var locker appledger.Locker
	if cfg.Redis.Enabled {
		redisLocker := redislock.New(cfg.Redis, log)
		defer redisLocker.Close()
		locker = redisLocker
		log.Info().Str("addr", cfg.Redis.Addr).Msg("lock distribuido sobre Redis habilitado")
	}

	// Canal en vivo y router de notificaciones.
	hub := push.NewHub(log)
	router := notification.NewRouter(notificationRepo, preferenceRepo, hub, log)
	router.StartDeferredFlusher(ctx, cfg.Notification.DeferredFlushInterval)

	// Bus in-process de eventos del ledger con el monitor de umbrales suscrito.
	eventBus := bus.New(8, 256, log)
	monitor := alerting.NewMonitor(alertRepo, router, log)
	eventBus.Subscribe(monitor.HandleChange)
	eventBus.Start(ctx)
	defer eventBus.Stop()

	stockUC := appledger.NewUseCase(txRunner, lineRepo, movementRepo, eventBus, locker, log)
	reservationUC := reservation.NewUseCase(txRunner, reservationRepo, eventBus, locker, cfg.Reservation.DefaultTTL, log)
	alertUC := alerting.NewUseCase(alertRepo)
	notificationUC := notification.NewUseCase(notificationRepo, preferenceRepo)
	messagingUC := messaging.NewUseCase(txRunner, conversationRepo, messageRepo, router, cfg.Messaging.ForkByProduct, log)

	sweeper := reservation.NewSweeper(reservationUC, reservationRepo, cfg.Reservation.SweepInterval, log)
	sweeper.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Linka Stock Core API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:        stockUC,
		ReservationUC:  reservationUC,
		AlertUC:        alertUC,
		NotificationUC: notificationUC,
		Router:         router,
		MessagingUC:    messagingUC,
		Hub:            hub,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	// Parar workers y drenar eventos pendientes antes de salir.
	stop()
	log.Info().Msg("aplicación detenida")
}
