package dto

import (
	"time"

	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/notify"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Categories  []string `json:"categories"`
}

// ReassignTicketRequest payload. The presentation layer supplies the new
// mentor's identity, mirroring the claim flow where the caller's own
// identity comes from the token.
type ReassignTicketRequest struct {
	NewMentorID   string `json:"new_mentor_id"`
	NewMentorName string `json:"new_mentor_name"`
}

// TicketResponse is the full ticket view.
type TicketResponse struct {
	ID            string              `json:"id"`
	RequesterID   string              `json:"requester_id"`
	RequesterName string              `json:"requester_name"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Location      string              `json:"location"`
	Categories    []string            `json:"categories"`
	Status        domain.TicketStatus `json:"status"`
	State         domain.TicketState  `json:"state"`
	MentorID      *string             `json:"mentor_id"`
	MentorName    *string             `json:"mentor_name"`
	CreatedAt     time.Time           `json:"created_at"`
	ClosedAt      *time.Time          `json:"closed_at"`
}

// TicketMutationResponse pairs the updated ticket with the notification
// payload set the presentation layer should deliver.
type TicketMutationResponse struct {
	Ticket        TicketResponse        `json:"ticket"`
	Notifications []notify.Notification `json:"notifications"`
}

// FromTicket maps the domain ticket to its response form.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		RequesterID:   ticket.RequesterID,
		RequesterName: ticket.RequesterName,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Location:      ticket.Location,
		Categories:    ticket.Categories,
		Status:        ticket.Status,
		State:         ticket.State(),
		MentorID:      ticket.MentorID,
		MentorName:    ticket.MentorName,
		CreatedAt:     ticket.CreatedAt,
		ClosedAt:      ticket.ClosedAt,
	}
}

// FromTickets maps a ticket slice.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}
