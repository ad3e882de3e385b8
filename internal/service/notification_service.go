package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/hackdesk/helpdesk-service/internal/config"
	"github.com/hackdesk/helpdesk-service/internal/events"
	"github.com/hackdesk/helpdesk-service/internal/notify"
	"github.com/hackdesk/helpdesk-service/internal/observability"
)

// Deliverer hands a single payload to the outside world.
type Deliverer interface {
	Deliver(ctx context.Context, notification notify.Notification) error
}

// NotificationService subscribes to lifecycle events and delivers the
// resulting payloads. Delivery is fire-and-forget: a failure is logged
// with its context and counted, never propagated. The transition that
// produced the event is already committed.
type NotificationService struct {
	dispatcher events.Dispatcher
	configs    *ConfigService
	deliverer  Deliverer
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, configs *ConfigService, deliverer Deliverer, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		configs:    configs,
		deliverer:  deliverer,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to every lifecycle transition.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketAssigned,
		events.EventTicketReassigned,
		events.EventTicketReleased,
		events.EventTicketClosed,
	} {
		n.dispatcher.Subscribe(eventType, n.handleTransition)
	}
}

func (n *NotificationService) handleTransition(ctx context.Context, event events.Event) error {
	for _, notification := range notify.ForEvent(event) {
		n.deliver(ctx, notification)
	}
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, notification notify.Notification) {
	if notification.Recipient.Kind == notify.RecipientStaffChannel {
		channel, err := n.configs.Get(ctx, ConfigKeyBroadcastChannel)
		if err != nil {
			n.logFailure(notification, err)
			n.metrics.RecordDelivery(string(notification.Transition), false)
			return
		}
		notification.Recipient.ID = channel
	}

	if err := n.deliverer.Deliver(ctx, notification); err != nil {
		n.logFailure(notification, err)
		n.metrics.RecordDelivery(string(notification.Transition), false)
		return
	}
	n.metrics.RecordDelivery(string(notification.Transition), true)
}

func (n *NotificationService) logFailure(notification notify.Notification, err error) {
	n.logger.Warn("notification delivery failed",
		zap.String("recipient_kind", string(notification.Recipient.Kind)),
		zap.String("recipient_id", notification.Recipient.ID),
		zap.String("ticket_id", notification.Ticket.ID),
		zap.String("transition", string(notification.Transition)),
		zap.Error(err))
}

// WebhookDeliverer posts payloads to a configured endpoint.
type WebhookDeliverer struct {
	url    string
	client *http.Client
}

// NewWebhookDeliverer builds the deliverer.
func NewWebhookDeliverer(cfg config.NotificationConfig) *WebhookDeliverer {
	return &WebhookDeliverer{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Deliver posts the payload as JSON.
func (d *WebhookDeliverer) Deliver(ctx context.Context, notification notify.Notification) error {
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// LogDeliverer records payloads to the log. Used when no webhook endpoint
// is configured so local runs still show what would have been sent.
type LogDeliverer struct {
	logger *zap.Logger
}

// NewLogDeliverer builds the deliverer.
func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Deliver logs the payload.
func (d *LogDeliverer) Deliver(_ context.Context, notification notify.Notification) error {
	d.logger.Info("notification",
		zap.String("recipient_kind", string(notification.Recipient.Kind)),
		zap.String("recipient_id", notification.Recipient.ID),
		zap.String("ticket_id", notification.Ticket.ID),
		zap.String("transition", string(notification.Transition)),
		zap.String("subject", notification.Subject))
	return nil
}
