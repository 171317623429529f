package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/hris-go-api/internal/dto"
	"github.com/noah-isme/hris-go-api/internal/models"
	"github.com/noah-isme/hris-go-api/internal/observability"
	"github.com/noah-isme/hris-go-api/internal/repository"
)

const notificationBufferSize = 16

// ErrInvalidDispatch indicates a dispatch without recipient, type or message.
var ErrInvalidDispatch = errors.New("invalid notification dispatch")

// Dispatch describes a notification addressed to one user.
type Dispatch struct {
	CompanyID    uint
	RecipientID  uint
	Type         string
	Title        string
	Message      string
	TemplateRef  string
	TemplateData map[string]interface{}
}

// Notifier delivers notifications. delivered reports whether the in-app notification was stored.
type Notifier interface {
	Notify(ctx context.Context, dispatch Dispatch) (bool, error)
}

// EmailSender delivers rendered HTML email.
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// NotificationService stores, streams and fans out notifications to end users.
type NotificationService interface {
	Notifier
	List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error)
	Subscribe(userID uint) (<-chan dto.NotificationResponse, func())
	Start(ctx context.Context)
}

// NotificationOptions wires the optional fan-out and email channels.
type NotificationOptions struct {
	Redis       *redis.Client
	NATS        *nats.Conn
	ChannelBase string
	Directory   DirectoryService
	Email       EmailSender
}

type notificationService struct {
	repo      repository.NotificationRepository
	directory DirectoryService
	email     EmailSender
	relays    []relay
	hub       *inboxHub
	origin    string
	logger    zerolog.Logger
	tracer    trace.Tracer
	sanitizer *bluemonday.Policy
}

// NewNotificationService constructs a notification service. Cross-node fan-out is enabled for each
// configured broker when ChannelBase is set.
func NewNotificationService(repo repository.NotificationRepository, opts NotificationOptions, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		directory: opts.Directory,
		email:     opts.Email,
		relays:    buildRelays(opts),
		hub:       newInboxHub(),
		origin:    uuid.NewString(),
		logger:    logger.With().Str("component", "notification_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/hris-go-api/internal/service/notification"),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Start listens on every relay until ctx is cancelled.
func (s *notificationService) Start(ctx context.Context) {
	for _, r := range s.relays {
		go func(r relay) {
			if err := r.listen(ctx, s.receive); err != nil && ctx.Err() == nil {
				s.logger.Error().Err(err).Str("relay", r.name()).Msg("notification relay stopped")
			}
		}(r)
	}
}

func (s *notificationService) Notify(ctx context.Context, dispatch Dispatch) (bool, error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("notification.recipient_id", int64(dispatch.RecipientID)),
		attribute.String("notification.type", dispatch.Type),
		attribute.String("notification.template", dispatch.TemplateRef),
	}
	spanCtx, span := s.tracer.Start(ctx, "notifications.notify", trace.WithAttributes(attrs...))
	defer span.End()

	notificationType := strings.TrimSpace(dispatch.Type)
	title := strings.TrimSpace(s.sanitizer.Sanitize(dispatch.Title))
	message := strings.TrimSpace(s.sanitizer.Sanitize(dispatch.Message))
	if dispatch.RecipientID == 0 || notificationType == "" || message == "" {
		err := fmt.Errorf("%w: recipient, type and message are required", ErrInvalidDispatch)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid dispatch")
		observability.NotificationsDispatched().WithLabelValues(notificationType, "invalid").Inc()
		return false, err
	}

	model := models.Notification{
		CompanyID:   dispatch.CompanyID,
		UserID:      dispatch.RecipientID,
		Type:        notificationType,
		Title:       title,
		Message:     message,
		TemplateRef: dispatch.TemplateRef,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.NotificationsDispatched().WithLabelValues(notificationType, "failed").Inc()
		return false, err
	}

	response := dto.NewNotificationResponse(model)
	local := s.hub.deliver(response)
	span.SetAttributes(attribute.Int("notification.local_streams", local))
	s.relay(spanCtx, response, dispatch.CompanyID)

	s.sendEmail(spanCtx, dispatch, title, message)

	observability.NotificationsDispatched().WithLabelValues(notificationType, "delivered").Inc()
	return true, nil
}

func (s *notificationService) sendEmail(ctx context.Context, dispatch Dispatch, title, message string) {
	if s.email == nil || s.directory == nil {
		return
	}

	recipient, err := s.directory.GetUser(ctx, dispatch.CompanyID, dispatch.RecipientID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("recipient_id", dispatch.RecipientID).Msg("failed to resolve email recipient")
		return
	}
	if strings.TrimSpace(recipient.Email) == "" {
		return
	}

	html, err := renderNotificationEmail(dispatch.TemplateRef, title, message, dispatch.TemplateData)
	if err != nil {
		s.logger.Warn().Err(err).Str("template", dispatch.TemplateRef).Msg("failed to render notification email")
		return
	}

	masked := maskEmailAddress(recipient.Email)
	if err := s.email.Send(ctx, []string{recipient.Email}, title, html); err != nil {
		s.logger.Warn().Err(err).Uint("recipient_id", dispatch.RecipientID).Str("email", masked).Msg("failed to send notification email")
		return
	}
	s.logger.Debug().Str("email", masked).Str("template", dispatch.TemplateRef).Msg("notification email sent")
}

func (s *notificationService) List(ctx context.Context, userID uint, limit, offset int) ([]dto.NotificationResponse, error) {
	if userID == 0 {
		return nil, errors.New("user id is required")
	}

	notifications, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	attrs := []attribute.KeyValue{
		attribute.Int64("notification.user_id", int64(userID)),
	}
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(attrs...))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, userID)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	return s.hub.attach(userID)
}

// relay forwards a stored notification to the other nodes. Failures only cost live delivery
// elsewhere, so they are logged and swallowed.
func (s *notificationService) relay(ctx context.Context, notification dto.NotificationResponse, companyID uint) {
	if len(s.relays) == 0 {
		return
	}
	payload, err := encodeEnvelope(s.origin, notification, companyID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode notification envelope")
		return
	}
	for _, r := range s.relays {
		if err := r.publish(ctx, payload); err != nil {
			s.logger.Warn().Err(err).Str("relay", r.name()).Uint("notification_id", notification.ID).Msg("failed to relay notification")
		}
	}
}

func (s *notificationService) receive(payload []byte) {
	var envelope fanoutEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("dropping malformed notification envelope")
		return
	}
	if envelope.Origin == s.origin || envelope.Notification.UserID == 0 {
		return
	}
	if envelope.Notification.Type == "" {
		envelope.Notification.Type = "generic"
	}
	s.hub.deliver(envelope.Notification)
}
