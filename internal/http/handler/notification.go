package handler

import (
	"fmt"
	"path"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"dehusync/internal/service"
)

// notificationID reads and checks the :id path parameter.
func notificationID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// FetchNotifications mirrors the pending notifications of the fetch window.
//
// @Summary Fetch pending notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} service.FetchResult
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /notifications/fetch [post]
func FetchNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.FetchPending(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ListNotifications returns notifications with limit & offset.
//
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.NotificationListResult
// @Failure 400 {object} errorPayload
// @Router /notifications [get]
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetNotification returns one notification.
//
// @Summary Get notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} model.Notification
// @Failure 404 {object} errorPayload
// @Router /notifications/{id} [get]
func GetNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := notificationID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		n, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(n)
	}
}

// ListAttachments returns the stored attachments of a notification.
//
// @Summary List notification attachments
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {array} model.Attachment
// @Failure 404 {object} errorPayload
// @Router /notifications/{id}/attachments [get]
func ListAttachments(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := notificationID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		atts, err := svc.ListAttachments(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(atts)
	}
}

// ProcessNotification accepts a notification on the remote service.
//
// @Summary Accept notification
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} service.ProcessResult
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /notifications/{id}/process [post]
func ProcessNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := notificationID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.Process(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DownloadReceipt returns the receipt PDF of an accepted notification.
//
// @Summary Download receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} model.ReceiptPDF
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /notifications/{id}/receipt [get]
func DownloadReceipt(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := notificationID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		pdf, err := svc.DownloadReceipt(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(pdf)
	}
}

// ArchiveReceipt stores the receipt PDF in object storage.
//
// @Summary Archive receipt
// @Tags receipts
// @Produce json
// @Param id path string true "Notification ID"
// @Success 201 {object} service.ArchivedReceipt
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /notifications/{id}/receipt/archive [post]
func ArchiveReceipt(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := notificationID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		res, err := svc.ArchiveReceipt(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetArchivedReceipt streams an archived receipt PDF.
//
// @Summary Get archived receipt
// @Tags receipts
// @Produce application/pdf
// @Param id path string true "Notification ID"
// @Success 200 {file} file
// @Failure 409 {object} errorPayload
// @Router /notifications/{id}/receipt/archive [get]
func GetArchivedReceipt(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := notificationID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, info, err := svc.OpenArchivedReceipt(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}

		ct := info.ContentType
		if ct == "" {
			ct = "application/pdf"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(info.Key)))
		// fasthttp closes rc once the body is written
		return c.SendStream(rc, int(info.Size))
	}
}
