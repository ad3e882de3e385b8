package events

import (
	"time"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// EventType enumerates lifecycle transition identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketAssigned   EventType = "ticket_assigned"
	EventTicketReassigned EventType = "ticket_reassigned"
	EventTicketReleased   EventType = "ticket_released"
	EventTicketClosed     EventType = "ticket_closed"
)

// Actor encapsulates who triggered the transition.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   string             `json:"id"`
	Name string             `json:"name,omitempty"`
}

// Event represents a committed ticket transition. Ticket is a snapshot of
// the record after the write.
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Ticket    domain.Ticket `json:"ticket"`
	Actor     Actor         `json:"actor"`
	Timestamp time.Time     `json:"timestamp"`
	Payload   any           `json:"payload,omitempty"`
}

// TicketReassignedPayload records the outgoing mentor.
type TicketReassignedPayload struct {
	PreviousMentorID   string `json:"previous_mentor_id"`
	PreviousMentorName string `json:"previous_mentor_name"`
}

// TicketClosedPayload records which side initiated the close.
type TicketClosedPayload struct {
	InitiatorType domain.SubjectType `json:"initiator_type"`
}
