package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"dehusync/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate HTTP; the notification service owns the behavior.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.NotificationService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/dehu/notification/update", NotificationWebhook(svc))

	app.Post("/notifications/fetch", FetchNotifications(svc))
	app.Get("/notifications", ListNotifications(svc))
	app.Get("/notifications/:id", GetNotification(svc))
	app.Get("/notifications/:id/attachments", ListAttachments(svc))
	app.Post("/notifications/:id/process", ProcessNotification(svc))
	app.Get("/notifications/:id/receipt", DownloadReceipt(svc))
	app.Post("/notifications/:id/receipt/archive", ArchiveReceipt(svc))
	app.Get("/notifications/:id/receipt/archive", GetArchivedReceipt(svc))
}
