package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/repository"
	"github.com/noah-isme/hris-go-api/internal/service"
	"github.com/noah-isme/hris-go-api/internal/utils"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
	streamRetryMillis        = 5000
)

// NotificationHandler serves a user's in-app inbox and its live event stream.
type NotificationHandler struct {
	service   service.NotificationService
	logger    zerolog.Logger
	keepAlive time.Duration
}

// NewNotificationHandler builds the handler. keepAlive bounds how long an idle stream stays silent.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger, keepAlive time.Duration) *NotificationHandler {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	return &NotificationHandler{
		service:   service,
		logger:    logger.With().Str("component", "notification_handler").Logger(),
		keepAlive: keepAlive,
	}
}

// Register binds the notification routes.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("/", h.inbox)
	router.Get("/stream", h.stream)
	router.Patch("/:id/read", h.markRead)
}

func (h *NotificationHandler) inbox(c *fiber.Ctx) error {
	recipient := userIDFromContext(c)
	if recipient == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil || offset < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}
	switch {
	case limit == 0:
		limit = defaultNotificationLimit
	case limit > maxNotificationLimit:
		limit = maxNotificationLimit
	}

	items, err := h.service.List(requestContext(c), recipient, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Uint("user_id", recipient).Msg("failed to load inbox")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications", items)
}

// stream pushes notifications as server-sent events named after the notification type.
func (h *NotificationHandler) stream(c *fiber.Ctx) error {
	recipient := userIDFromContext(c)
	if recipient == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx := requestContext(c)
	events, unsubscribe := h.service.Subscribe(recipient)
	logger := requestLogger(h.logger, c).With().Uint("user_id", recipient).Logger()
	keepAlive := h.keepAlive

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()

		sse := sseWriter{w: w}
		if err := sse.open(); err != nil {
			return
		}

		ticker := time.NewTicker(keepAlive / 2)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case notification, ok := <-events:
				if !ok {
					return
				}
				if err := sse.event(notification); err != nil {
					logger.Debug().Err(err).Uint("notification_id", notification.ID).Msg("stream client went away")
					return
				}
			case now := <-ticker.C:
				if err := sse.comment("ping " + now.UTC().Format(time.RFC3339)); err != nil {
					logger.Debug().Err(err).Msg("stream client went away")
					return
				}
			}
		}
	})

	return nil
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	recipient := userIDFromContext(c)
	if recipient == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	updated, err := h.service.MarkRead(requestContext(c), id, recipient)
	switch {
	case errors.Is(err, repository.ErrNotificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "notification not found")
	case err != nil:
		requestLogger(h.logger, c).Error().Err(err).Uint("notification_id", id).Msg("failed to mark notification read")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update notification")
	}

	return utils.SendSuccess(c, "notification updated", updated)
}

type sseWriter struct {
	w *bufio.Writer
}

func (s sseWriter) open() error {
	s.w.WriteString("retry: " + strconv.Itoa(streamRetryMillis) + "\n\n")
	return s.w.Flush()
}

func (s sseWriter) event(notification dto.NotificationResponse) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	name := notification.Type
	if name == "" {
		name = "notification"
	}
	s.w.WriteString("id: " + strconv.FormatUint(uint64(notification.ID), 10) + "\n")
	s.w.WriteString("event: " + name + "\n")
	s.w.WriteString("data: ")
	s.w.Write(data)
	s.w.WriteString("\n\n")
	return s.w.Flush()
}

func (s sseWriter) comment(text string) error {
	s.w.WriteString(": " + text + "\n\n")
	return s.w.Flush()
}
