package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/events"
	"github.com/hackdesk/helpdesk-service/internal/notify"
	"github.com/hackdesk/helpdesk-service/internal/repository"
)

// LifecycleService is the ticket state machine. Every transition except
// create is a check-current-state-then-conditionally-write against the
// store, so racing mentors resolve to exactly one winner.
type LifecycleService struct {
	tickets    repository.TicketRepository
	allocator  *IDAllocator
	dispatcher events.Dispatcher
	now        func() time.Time
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo repository.TicketRepository
	Allocator  *IDAllocator
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	RequesterID   string
	RequesterName string
	Title         string
	Description   string
	Location      string
	Categories    []string
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		allocator:  deps.Allocator,
		dispatcher: deps.Dispatcher,
		now:        clock,
	}
}

// CreateTicket opens a new ticket. The open-ticket quota is checked before
// an identifier is allocated, so a rejected create never consumes one.
func (s *LifecycleService) CreateTicket(ctx context.Context, input CreateTicketInput) (*domain.Ticket, []notify.Notification, error) {
	// The count is not atomic with the insert; two creates racing at the
	// cap can both pass. Accepted window, see DESIGN.md.
	open, err := s.tickets.CountOpenByRequester(ctx, input.RequesterID)
	if err != nil {
		return nil, nil, err
	}
	if open >= domain.MaxOpenTicketsPerRequester {
		return nil, nil, domain.ErrTooManyOpenTickets
	}

	id, err := s.allocator.NextID(ctx)
	if err != nil {
		return nil, nil, err
	}

	ticket := &domain.Ticket{
		ID:            id,
		RequesterID:   input.RequesterID,
		RequesterName: input.RequesterName,
		Title:         strings.TrimSpace(input.Title),
		Description:   strings.TrimSpace(input.Description),
		Location:      strings.TrimSpace(input.Location),
		Categories:    domain.FilterCategories(input.Categories),
		Status:        domain.TicketStatusOpen,
		CreatedAt:     s.now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, nil, err
	}

	notifications := s.publish(ctx, events.Event{
		Type:   events.EventTicketCreated,
		Ticket: *ticket,
		Actor:  userActor(input.RequesterID, input.RequesterName),
	})
	return ticket, notifications, nil
}

// GetTicket fetches a single ticket.
func (s *LifecycleService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListTicketsForRequester returns every ticket the requester has opened.
func (s *LifecycleService) ListTicketsForRequester(ctx context.Context, requesterID string) ([]domain.Ticket, error) {
	return s.tickets.ListByRequester(ctx, requesterID)
}

// ListOpenTickets returns the mentor queue.
func (s *LifecycleService) ListOpenTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListOpen(ctx)
}

// ListTicketsForMentor returns tickets currently or previously held by the mentor.
func (s *LifecycleService) ListTicketsForMentor(ctx context.Context, mentorID string) ([]domain.Ticket, error) {
	return s.tickets.ListByMentor(ctx, mentorID)
}

// ListTicketsByCategory returns tickets tagged with the category.
func (s *LifecycleService) ListTicketsByCategory(ctx context.Context, category string) ([]domain.Ticket, error) {
	return s.tickets.ListByCategory(ctx, category)
}

// Assign claims an open, unassigned ticket for the mentor. Exactly one of
// two racing assigns succeeds; the loser learns why from the re-read.
func (s *LifecycleService) Assign(ctx context.Context, id, mentorID, mentorName string) (*domain.Ticket, []notify.Notification, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	switch ticket.State() {
	case domain.StateClosed:
		return nil, nil, domain.ErrAlreadyClosed
	case domain.StateOpenAssigned:
		return nil, nil, domain.ErrAlreadyAssigned
	}

	if err := s.tickets.AssignMentor(ctx, id, mentorID, mentorName); err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, nil, s.classifyAssignFailure(ctx, id)
		}
		return nil, nil, err
	}

	ticket.MentorID = &mentorID
	ticket.MentorName = &mentorName
	notifications := s.publish(ctx, events.Event{
		Type:   events.EventTicketAssigned,
		Ticket: *ticket,
		Actor:  mentorActor(mentorID, mentorName),
	})
	return ticket, notifications, nil
}

// Reassign hands the ticket from the current mentor to another. Only the
// current holder may hand off.
func (s *LifecycleService) Reassign(ctx context.Context, id, callerMentorID, newMentorID, newMentorName string) (*domain.Ticket, []notify.Notification, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if ticket.State() == domain.StateClosed {
		return nil, nil, domain.ErrAlreadyClosed
	}
	if !ticket.AssignedTo(callerMentorID) {
		return nil, nil, domain.ErrNotYourTicket
	}

	if err := s.tickets.ReplaceMentor(ctx, id, callerMentorID, newMentorID, newMentorName); err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, nil, s.classifyHolderFailure(ctx, id, callerMentorID)
		}
		return nil, nil, err
	}

	previousName := ""
	if ticket.MentorName != nil {
		previousName = *ticket.MentorName
	}
	ticket.MentorID = &newMentorID
	ticket.MentorName = &newMentorName
	notifications := s.publish(ctx, events.Event{
		Type:   events.EventTicketReassigned,
		Ticket: *ticket,
		Actor:  mentorActor(callerMentorID, previousName),
		Payload: events.TicketReassignedPayload{
			PreviousMentorID:   callerMentorID,
			PreviousMentorName: previousName,
		},
	})
	return ticket, notifications, nil
}

// Release returns the ticket to the open queue. Only the current holder
// may release; the ticket stays open.
func (s *LifecycleService) Release(ctx context.Context, id, callerMentorID string) (*domain.Ticket, []notify.Notification, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if ticket.State() == domain.StateClosed {
		return nil, nil, domain.ErrAlreadyClosed
	}
	if !ticket.AssignedTo(callerMentorID) {
		return nil, nil, domain.ErrNotYourTicket
	}

	if err := s.tickets.ClearMentor(ctx, id, callerMentorID); err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, nil, s.classifyHolderFailure(ctx, id, callerMentorID)
		}
		return nil, nil, err
	}

	releasedBy := ""
	if ticket.MentorName != nil {
		releasedBy = *ticket.MentorName
	}
	ticket.MentorID = nil
	ticket.MentorName = nil
	notifications := s.publish(ctx, events.Event{
		Type:   events.EventTicketReleased,
		Ticket: *ticket,
		Actor:  mentorActor(callerMentorID, releasedBy),
	})
	return ticket, notifications, nil
}

// Close terminates the ticket. The requester may always close their own
// ticket; otherwise the caller must be the current mentor. The mentor
// fields are left intact on close.
func (s *LifecycleService) Close(ctx context.Context, id, callerID, callerName string) (*domain.Ticket, []notify.Notification, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if ticket.State() == domain.StateClosed {
		return nil, nil, domain.ErrAlreadyClosed
	}

	var (
		initiator     domain.SubjectType
		requireMentor *string
	)
	switch {
	case ticket.RequesterID == callerID:
		initiator = domain.SubjectTypeUser
	case ticket.AssignedTo(callerID):
		initiator = domain.SubjectTypeMentor
		requireMentor = &callerID
	default:
		return nil, nil, domain.ErrForbidden
	}

	closedAt := s.now()
	if err := s.tickets.Close(ctx, id, closedAt, requireMentor); err != nil {
		if errors.Is(err, domain.ErrPreconditionFailed) {
			return nil, nil, s.classifyCloseFailure(ctx, id, requireMentor)
		}
		return nil, nil, err
	}

	ticket.Status = domain.TicketStatusClosed
	ticket.ClosedAt = &closedAt
	notifications := s.publish(ctx, events.Event{
		Type:    events.EventTicketClosed,
		Ticket:  *ticket,
		Actor:   events.Actor{Type: initiator, ID: callerID, Name: callerName},
		Payload: events.TicketClosedPayload{InitiatorType: initiator},
	})
	return ticket, notifications, nil
}

// classifyAssignFailure re-reads the ticket after a lost conditional write
// to report which precondition the caller actually lost to.
func (s *LifecycleService) classifyAssignFailure(ctx context.Context, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch ticket.State() {
	case domain.StateClosed:
		return domain.ErrAlreadyClosed
	case domain.StateOpenAssigned:
		return domain.ErrAlreadyAssigned
	}
	return domain.ErrNotOpen
}

func (s *LifecycleService) classifyHolderFailure(ctx context.Context, id, callerMentorID string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ticket.State() == domain.StateClosed {
		return domain.ErrAlreadyClosed
	}
	if !ticket.AssignedTo(callerMentorID) {
		return domain.ErrNotYourTicket
	}
	return domain.ErrNotOpen
}

func (s *LifecycleService) classifyCloseFailure(ctx context.Context, id string, requireMentor *string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if ticket.State() == domain.StateClosed {
		return domain.ErrAlreadyClosed
	}
	if requireMentor != nil && !ticket.AssignedTo(*requireMentor) {
		return domain.ErrNotYourTicket
	}
	return domain.ErrNotOpen
}

// publish commits the transition event and returns the payload set for the
// caller to hand to the presentation layer. Delivery failures downstream
// never surface here; the authoritative state already lives in the store.
func (s *LifecycleService) publish(ctx context.Context, event events.Event) []notify.Notification {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
	return notify.ForEvent(event)
}

func userActor(id, name string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeUser, ID: id, Name: name}
}

func mentorActor(id, name string) events.Actor {
	return events.Actor{Type: domain.SubjectTypeMentor, ID: id, Name: name}
}
