package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/linka-market/stock-core/internal/application/alerting"
	"github.com/linka-market/stock-core/internal/application/ledger"
	"github.com/linka-market/stock-core/internal/application/messaging"
	"github.com/linka-market/stock-core/internal/application/notification"
	"github.com/linka-market/stock-core/internal/application/reservation"
	"github.com/linka-market/stock-core/internal/infrastructure/push"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC        *ledger.UseCase
	ReservationUC  *reservation.UseCase
	AlertUC        *alerting.UseCase
	NotificationUC *notification.UseCase
	Router         *notification.Router
	MessagingUC    *messaging.UseCase
	Hub            *push.Hub
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Healthcheck (público)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Ledger de stock (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/movements", stockHandler.RegisterMovement)
	stock.Get("/movements", stockHandler.ListMovements)
	stock.Post("/transfers", stockHandler.Transfer)
	stock.Put("/thresholds", stockHandler.ConfigureThresholds)
	stock.Get("/lines", stockHandler.GetLine)
	stock.Delete("/lines", stockHandler.Archive)
	stock.Get("/lines/mine", stockHandler.ListMyLines)

	// Reservas (protegido)
	reservations := protected.Group("/reservations")
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Post("/:id/commit", reservationHandler.Commit)
	reservations.Post("/:id/release", reservationHandler.Release)

	// Alertas de stock (protegido)
	alerts := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/ack", alertHandler.Acknowledge)

	// Notificaciones y preferencias (protegido)
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC, deps.Router, deps.Hub)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/stream", notificationHandler.Stream)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
	notifications.Get("/preferences", notificationHandler.GetPreferences)
	notifications.Put("/preferences", notificationHandler.UpdatePreferences)

	// Ingestión de eventos (solo servicios internos)
	protected.Post("/events", RequireRole(RoleService), notificationHandler.IngestEvent)

	// Mensajería (protegido)
	conversations := protected.Group("/conversations")
	messagingHandler := NewMessagingHandler(deps.MessagingUC)
	conversations.Post("/", messagingHandler.StartConversation)
	conversations.Get("/", messagingHandler.ListConversations)
	conversations.Post("/:id/messages", messagingHandler.SendMessage)
	conversations.Get("/:id/messages", messagingHandler.ListMessages)
	conversations.Post("/:id/read", messagingHandler.MarkRead)
}
