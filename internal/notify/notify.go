// Package notify turns committed ticket transitions into the payloads the
// presentation layer delivers. Building payloads is pure; delivery lives in
// the notification service and is best-effort by contract.
package notify

import (
	"fmt"
	"strings"

	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/events"
)

// RecipientKind enumerates who a payload is addressed to.
type RecipientKind string

const (
	RecipientUser         RecipientKind = "user"
	RecipientMentor       RecipientKind = "mentor"
	RecipientStaffChannel RecipientKind = "staff_channel"
)

// Recipient addresses a payload. ID is empty for the staff channel; the
// deliverer resolves the configured broadcast location.
type Recipient struct {
	Kind RecipientKind `json:"kind"`
	ID   string        `json:"id,omitempty"`
}

// TicketInfo is the ticket content carried inside a payload.
type TicketInfo struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Categories    []string `json:"categories,omitempty"`
	RequesterName string   `json:"requester_name"`
	MentorName    string   `json:"mentor_name,omitempty"`
}

// Notification is one deliverable payload.
type Notification struct {
	Recipient  Recipient        `json:"recipient"`
	Transition events.EventType `json:"transition"`
	Subject    string           `json:"subject"`
	Body       string           `json:"body"`
	Ticket     TicketInfo       `json:"ticket"`
}

// ForEvent determines the recipients and payloads for a transition.
//
// create    -> staff broadcast
// assign    -> requester + new mentor
// reassign  -> requester + new mentor (previous mentor gets nothing)
// release   -> requester + fresh staff broadcast
// close     -> whichever party did not initiate; nothing when unassigned
func ForEvent(event events.Event) []Notification {
	ticket := event.Ticket
	info := ticketInfo(&ticket)

	switch event.Type {
	case events.EventTicketCreated:
		return []Notification{broadcast(event.Type, info)}

	case events.EventTicketAssigned:
		return []Notification{
			{
				Recipient:  Recipient{Kind: RecipientUser, ID: ticket.RequesterID},
				Transition: event.Type,
				Subject:    fmt.Sprintf("Ticket #%s assigned", ticket.ID),
				Body:       fmt.Sprintf("%s has picked up your ticket.", info.MentorName),
				Ticket:     info,
			},
			{
				Recipient:  Recipient{Kind: RecipientMentor, ID: derefMentorID(&ticket)},
				Transition: event.Type,
				Subject:    fmt.Sprintf("You accepted ticket #%s", ticket.ID),
				Body:       "You are now the assigned mentor. Release or close the ticket when done.",
				Ticket:     info,
			},
		}

	case events.EventTicketReassigned:
		return []Notification{
			{
				Recipient:  Recipient{Kind: RecipientMentor, ID: derefMentorID(&ticket)},
				Transition: event.Type,
				Subject:    fmt.Sprintf("Ticket #%s handed to you", ticket.ID),
				Body:       fmt.Sprintf("%s handed this ticket over to you.", event.Actor.Name),
				Ticket:     info,
			},
			{
				Recipient:  Recipient{Kind: RecipientUser, ID: ticket.RequesterID},
				Transition: event.Type,
				Subject:    fmt.Sprintf("Ticket #%s has a new mentor", ticket.ID),
				Body:       fmt.Sprintf("%s is now helping with your ticket.", info.MentorName),
				Ticket:     info,
			},
		}

	case events.EventTicketReleased:
		return []Notification{
			{
				Recipient:  Recipient{Kind: RecipientUser, ID: ticket.RequesterID},
				Transition: event.Type,
				Subject:    fmt.Sprintf("Ticket #%s is back in the queue", ticket.ID),
				Body:       "Your mentor released the ticket; another mentor will pick it up.",
				Ticket:     info,
			},
			broadcast(event.Type, info),
		}

	case events.EventTicketClosed:
		return closedNotifications(event, info)
	}
	return nil
}

func closedNotifications(event events.Event, info TicketInfo) []Notification {
	ticket := event.Ticket
	payload, _ := event.Payload.(events.TicketClosedPayload)

	// Notify the party that did not initiate the close. A ticket closed by
	// its requester while unassigned has nobody left to tell.
	if payload.InitiatorType == domain.SubjectTypeMentor {
		return []Notification{{
			Recipient:  Recipient{Kind: RecipientUser, ID: ticket.RequesterID},
			Transition: event.Type,
			Subject:    fmt.Sprintf("Ticket #%s closed", ticket.ID),
			Body:       fmt.Sprintf("%s marked your ticket as resolved.", event.Actor.Name),
			Ticket:     info,
		}}
	}
	if ticket.MentorID == nil {
		return nil
	}
	return []Notification{{
		Recipient:  Recipient{Kind: RecipientMentor, ID: *ticket.MentorID},
		Transition: event.Type,
		Subject:    fmt.Sprintf("Ticket #%s closed by requester", ticket.ID),
		Body:       fmt.Sprintf("%s closed their own ticket.", ticket.RequesterName),
		Ticket:     info,
	}}
}

func broadcast(transition events.EventType, info TicketInfo) Notification {
	subject := fmt.Sprintf("Ticket #%s needs a mentor", info.ID)
	body := fmt.Sprintf("%s needs help with %q at %s.", info.RequesterName, info.Title, info.Location)
	if len(info.Categories) > 0 {
		body += " Categories: " + strings.Join(info.Categories, ", ") + "."
	}
	return Notification{
		Recipient:  Recipient{Kind: RecipientStaffChannel},
		Transition: transition,
		Subject:    subject,
		Body:       body,
		Ticket:     info,
	}
}

func ticketInfo(ticket *domain.Ticket) TicketInfo {
	info := TicketInfo{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Location:      ticket.Location,
		Categories:    ticket.Categories,
		RequesterName: ticket.RequesterName,
	}
	if ticket.MentorName != nil {
		info.MentorName = *ticket.MentorName
	}
	return info
}

func derefMentorID(ticket *domain.Ticket) string {
	if ticket.MentorID == nil {
		return ""
	}
	return *ticket.MentorID
}
