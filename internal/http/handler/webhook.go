package handler

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"dehusync/internal/service"
)

var validate = validator.New()

type webhookRequest struct {
	Notifications []service.PushNotification `json:"notifications"`
}

type webhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
}

type webhookError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeWebhookError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(webhookError{Status: "error", Message: message})
}

// NotificationWebhook applies notification updates pushed by the remote service.
// A missing notifications list is an empty delivery.
//
// @Summary Notification update webhook
// @Tags webhook
// @Accept json
// @Produce json
// @Param payload body webhookRequest true "Pushed notifications"
// @Success 200 {object} webhookResponse
// @Failure 400 {object} webhookError
// @Failure 500 {object} webhookError
// @Router /dehu/notification/update [post]
func NotificationWebhook(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req webhookRequest
		if err := c.BodyParser(&req); err != nil {
			return writeWebhookError(c, fiber.StatusBadRequest, "invalid request body")
		}
		// validate per element
		for i := range req.Notifications {
			if err := validate.Struct(req.Notifications[i]); err != nil {
				return writeWebhookError(c, fiber.StatusBadRequest, fmt.Sprintf("notification %d: %v", i, err))
			}
		}

		res, err := svc.ApplyPush(c.UserContext(), req.Notifications)
		if err != nil {
			return writeWebhookError(c, fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(webhookResponse{
			Status:  "success",
			Message: "notifications processed",
			Created: res.Created,
			Updated: res.Updated,
		})
	}
}
