package domain

import "time"

// TicketStatus is the persisted lifecycle status. Only two values are
// stored; the assigned condition is carried by the mentor fields.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// TicketState is the derived three-value state used by the lifecycle
// transition table.
type TicketState string

const (
	StateOpenUnassigned TicketState = "open_unassigned"
	StateOpenAssigned   TicketState = "open_assigned"
	StateClosed         TicketState = "closed"
)

// MaxOpenTicketsPerRequester bounds how many tickets a requester may have
// open at once.
const MaxOpenTicketsPerRequester = 6

// Ticket is the aggregate for help requests.
type Ticket struct {
	ID            string
	RequesterID   string
	RequesterName string
	Title         string
	Description   string
	Location      string
	Categories    []string
	Status        TicketStatus
	MentorID      *string
	MentorName    *string
	CreatedAt     time.Time
	ClosedAt      *time.Time
}

// State derives the lifecycle state from status plus mentor assignment.
func (t *Ticket) State() TicketState {
	if t.Status == TicketStatusClosed {
		return StateClosed
	}
	if t.MentorID != nil {
		return StateOpenAssigned
	}
	return StateOpenUnassigned
}

// IsOpen reports whether the ticket still accepts transitions.
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen
}

// AssignedTo reports whether mentorID currently holds the ticket.
func (t *Ticket) AssignedTo(mentorID string) bool {
	return t.MentorID != nil && *t.MentorID == mentorID
}
