package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/events"
	"github.com/hackdesk/helpdesk-service/internal/notify"
	"github.com/hackdesk/helpdesk-service/internal/observability"
	"github.com/hackdesk/helpdesk-service/internal/service"
)

type recordingDeliverer struct {
	delivered []notify.Notification
	fail      bool
}

func (d *recordingDeliverer) Deliver(_ context.Context, notification notify.Notification) error {
	if d.fail {
		return errors.New("endpoint unreachable")
	}
	d.delivered = append(d.delivered, notification)
	return nil
}

func newNotificationFixture(t *testing.T, deliverer service.Deliverer) (events.Dispatcher, *observability.Metrics, *fakeConfigRepo) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	configRepo := newFakeConfigRepo()
	configs := service.NewConfigService(configRepo, nil, 0, zap.NewNop())

	svc := service.NewNotificationService(dispatcher, configs, deliverer, zap.NewNop(), metrics)
	svc.RegisterHandlers()
	return dispatcher, metrics, configRepo
}

func createdEvent() events.Event {
	return events.Event{
		ID:   "evt-1",
		Type: events.EventTicketCreated,
		Ticket: domain.Ticket{
			ID:            "5",
			RequesterID:   "u1",
			RequesterName: "Dana",
			Title:         "printer on fire",
			Location:      "desk 3",
			Status:        domain.TicketStatusOpen,
		},
		Actor: events.Actor{Type: domain.SubjectTypeUser, ID: "u1", Name: "Dana"},
	}
}

func TestNotificationDeliveryResolvesStaffChannel(t *testing.T) {
	deliverer := &recordingDeliverer{}
	dispatcher, metrics, configRepo := newNotificationFixture(t, deliverer)
	ctx := context.Background()

	require.NoError(t, configRepo.Set(ctx, service.ConfigKeyBroadcastChannel, "mentors-lounge"))
	require.NoError(t, dispatcher.Publish(ctx, createdEvent()))

	require.Len(t, deliverer.delivered, 1)
	assert.Equal(t, notify.RecipientStaffChannel, deliverer.delivered[0].Recipient.Kind)
	assert.Equal(t, "mentors-lounge", deliverer.delivered[0].Recipient.ID)
	assert.Equal(t, int64(1), metrics.DeliveryCount(string(events.EventTicketCreated), true))
}

func TestNotificationDeliveryFailureIsSwallowed(t *testing.T) {
	deliverer := &recordingDeliverer{fail: true}
	dispatcher, metrics, configRepo := newNotificationFixture(t, deliverer)
	ctx := context.Background()

	require.NoError(t, configRepo.Set(ctx, service.ConfigKeyBroadcastChannel, "mentors-lounge"))

	// Publish reports success even though delivery failed downstream.
	require.NoError(t, dispatcher.Publish(ctx, createdEvent()))
	assert.Equal(t, int64(1), metrics.DeliveryCount(string(events.EventTicketCreated), false))
	assert.Equal(t, int64(0), metrics.DeliveryCount(string(events.EventTicketCreated), true))
}

func TestNotificationMissingBroadcastChannelCountsAsFailure(t *testing.T) {
	deliverer := &recordingDeliverer{}
	dispatcher, metrics, _ := newNotificationFixture(t, deliverer)

	require.NoError(t, dispatcher.Publish(context.Background(), createdEvent()))

	assert.Empty(t, deliverer.delivered)
	assert.Equal(t, int64(1), metrics.DeliveryCount(string(events.EventTicketCreated), false))
}
