package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/events"
	"github.com/hackdesk/helpdesk-service/internal/notify"
	"github.com/hackdesk/helpdesk-service/internal/service"
)

type lifecycleFixture struct {
	svc     *service.LifecycleService
	tickets *fakeTicketRepo
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	tickets := newFakeTicketRepo()
	counters := newFakeCounterRepo()
	allocator := service.NewIDAllocator(counters, tickets, zap.NewNop())

	var tick int64
	clock := func() time.Time {
		n := atomic.AddInt64(&tick, 1)
		return time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
	}

	svc := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo: tickets,
		Allocator:  allocator,
		Dispatcher: events.NewInMemoryDispatcher(),
		Clock:      clock,
	})
	return &lifecycleFixture{svc: svc, tickets: tickets}
}

func (f *lifecycleFixture) mustCreate(t *testing.T, requesterID, requesterName string) *domain.Ticket {
	t.Helper()
	ticket, _, err := f.svc.CreateTicket(context.Background(), service.CreateTicketInput{
		RequesterID:   requesterID,
		RequesterName: requesterName,
		Title:         "stuck on deployment",
		Description:   "container crashes on boot",
		Location:      "table 12",
		Categories:    []string{"Backend", "CI/CD"},
	})
	require.NoError(t, err)
	return ticket
}

func recipientKinds(notifications []notify.Notification) []notify.RecipientKind {
	kinds := make([]notify.RecipientKind, 0, len(notifications))
	for _, n := range notifications {
		kinds = append(kinds, n.Recipient.Kind)
	}
	return kinds
}

func TestCreateTicketAssignsSequentialIDs(t *testing.T) {
	f := newLifecycleFixture(t)

	first := f.mustCreate(t, "u1", "Dana")
	second := f.mustCreate(t, "u2", "Lee")

	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, domain.StateOpenUnassigned, first.State())
}

func TestCreateTicketDropsUnknownCategories(t *testing.T) {
	f := newLifecycleFixture(t)

	ticket, _, err := f.svc.CreateTicket(context.Background(), service.CreateTicketInput{
		RequesterID:   "u1",
		RequesterName: "Dana",
		Title:         "help",
		Description:   "please",
		Categories:    []string{"Python", "Underwater Basket Weaving", "Python", "Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, ticket.Categories)
}

func TestCreateTicketBroadcastsToStaffChannel(t *testing.T) {
	f := newLifecycleFixture(t)

	ticket, notifications, err := f.svc.CreateTicket(context.Background(), service.CreateTicketInput{
		RequesterID:   "u1",
		RequesterName: "Dana",
		Title:         "wifi down",
		Description:   "cannot reach the internet",
		Location:      "hall B",
	})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.RecipientStaffChannel, notifications[0].Recipient.Kind)
	assert.Equal(t, ticket.ID, notifications[0].Ticket.ID)
}

func TestCreateTicketQuota(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	for i := 0; i < domain.MaxOpenTicketsPerRequester; i++ {
		f.mustCreate(t, "u1", "Dana")
	}

	_, _, err := f.svc.CreateTicket(ctx, service.CreateTicketInput{
		RequesterID:   "u1",
		RequesterName: "Dana",
		Title:         "one more",
		Description:   "over the limit",
	})
	assert.ErrorIs(t, err, domain.ErrTooManyOpenTickets)

	// A rejected create must not burn an identifier.
	other := f.mustCreate(t, "u2", "Lee")
	assert.Equal(t, "7", other.ID)

	// Closing one ticket frees a slot.
	_, _, err = f.svc.Close(ctx, "1", "u1", "Dana")
	require.NoError(t, err)
	again := f.mustCreate(t, "u1", "Dana")
	assert.Equal(t, "8", again.ID)
}

func TestAssignOpenTicket(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")

	assigned, notifications, err := f.svc.Assign(context.Background(), ticket.ID, "m1", "Morgan")
	require.NoError(t, err)
	assert.Equal(t, domain.StateOpenAssigned, assigned.State())
	require.NotNil(t, assigned.MentorID)
	assert.Equal(t, "m1", *assigned.MentorID)
	assert.ElementsMatch(t,
		[]notify.RecipientKind{notify.RecipientUser, notify.RecipientMentor},
		recipientKinds(notifications))
}

func TestAssignAlreadyAssigned(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	_, _, err = f.svc.Assign(ctx, ticket.ID, "m2", "Riley")
	assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)
}

func TestAssignClosedTicket(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Close(ctx, ticket.ID, "u1", "Dana")
	require.NoError(t, err)

	_, _, err = f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	assert.ErrorIs(t, err, domain.ErrAlreadyClosed)
}

func TestAssignMissingTicket(t *testing.T) {
	f := newLifecycleFixture(t)

	_, _, err := f.svc.Assign(context.Background(), "404", "m1", "Morgan")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssignRaceHasExactlyOneWinner(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	const contenders = 8
	var wins, losses int64
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			_, _, err := f.svc.Assign(ctx, ticket.ID, "m"+string(rune('a'+n)), "Mentor")
			if err == nil {
				atomic.AddInt64(&wins, 1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrAlreadyAssigned)
			atomic.AddInt64(&losses, 1)
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), wins)
	assert.Equal(t, int64(contenders-1), losses)
}

func TestReassignByHolder(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	updated, notifications, err := f.svc.Reassign(ctx, ticket.ID, "m1", "m2", "Riley")
	require.NoError(t, err)
	require.NotNil(t, updated.MentorID)
	assert.Equal(t, "m2", *updated.MentorID)
	assert.ElementsMatch(t,
		[]notify.RecipientKind{notify.RecipientMentor, notify.RecipientUser},
		recipientKinds(notifications))

	// The new mentor, not the previous one, must be addressed.
	for _, n := range notifications {
		if n.Recipient.Kind == notify.RecipientMentor {
			assert.Equal(t, "m2", n.Recipient.ID)
		}
	}
}

func TestReassignByNonHolder(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	_, _, err = f.svc.Reassign(ctx, ticket.ID, "m2", "m3", "Jamie")
	assert.ErrorIs(t, err, domain.ErrNotYourTicket)
}

func TestReleaseReturnsTicketToQueue(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	released, notifications, err := f.svc.Release(ctx, ticket.ID, "m1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateOpenUnassigned, released.State())
	assert.Nil(t, released.MentorID)
	assert.ElementsMatch(t,
		[]notify.RecipientKind{notify.RecipientUser, notify.RecipientStaffChannel},
		recipientKinds(notifications))

	// Another mentor can claim it again.
	_, _, err = f.svc.Assign(ctx, ticket.ID, "m2", "Riley")
	assert.NoError(t, err)
}

func TestReleaseByNonHolder(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	_, _, err = f.svc.Release(ctx, ticket.ID, "m2")
	assert.ErrorIs(t, err, domain.ErrNotYourTicket)
}

func TestCloseByRequesterWhileUnassigned(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")

	closed, notifications, err := f.svc.Close(context.Background(), ticket.ID, "u1", "Dana")
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, closed.State())
	require.NotNil(t, closed.ClosedAt)
	assert.Empty(t, notifications)
}

func TestCloseByRequesterWhileAssigned(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	closed, notifications, err := f.svc.Close(ctx, ticket.ID, "u1", "Dana")
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, closed.State())
	// Mentor fields stay intact for the record.
	require.NotNil(t, closed.MentorID)
	assert.Equal(t, "m1", *closed.MentorID)
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.RecipientMentor, notifications[0].Recipient.Kind)
	assert.Equal(t, "m1", notifications[0].Recipient.ID)
}

func TestCloseByAssignedMentor(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	_, notifications, err := f.svc.Close(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, notify.RecipientUser, notifications[0].Recipient.Kind)
	assert.Equal(t, "u1", notifications[0].Recipient.ID)
}

func TestCloseByStranger(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Assign(ctx, ticket.ID, "m1", "Morgan")
	require.NoError(t, err)

	_, _, err = f.svc.Close(ctx, ticket.ID, "m2", "Riley")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCloseTwice(t *testing.T) {
	f := newLifecycleFixture(t)
	ticket := f.mustCreate(t, "u1", "Dana")
	ctx := context.Background()

	_, _, err := f.svc.Close(ctx, ticket.ID, "u1", "Dana")
	require.NoError(t, err)

	_, _, err = f.svc.Close(ctx, ticket.ID, "u1", "Dana")
	assert.ErrorIs(t, err, domain.ErrAlreadyClosed)
}

func TestListTicketsByCategory(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	f.mustCreate(t, "u1", "Dana")
	_, _, err := f.svc.CreateTicket(ctx, service.CreateTicketInput{
		RequesterID:   "u2",
		RequesterName: "Lee",
		Title:         "model won't converge",
		Description:   "loss is NaN",
		Categories:    []string{"AI/ML"},
	})
	require.NoError(t, err)

	backend, err := f.svc.ListTicketsByCategory(ctx, "Backend")
	require.NoError(t, err)
	require.Len(t, backend, 1)
	assert.Equal(t, "u1", backend[0].RequesterID)

	ml, err := f.svc.ListTicketsByCategory(ctx, "AI/ML")
	require.NoError(t, err)
	require.Len(t, ml, 1)
	assert.Equal(t, "u2", ml[0].RequesterID)
}
