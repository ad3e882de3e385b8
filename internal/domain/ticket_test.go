package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

func TestTicketStateDerivation(t *testing.T) {
	mentorID := "m1"

	tests := []struct {
		name   string
		ticket domain.Ticket
		want   domain.TicketState
	}{
		{"open without mentor", domain.Ticket{Status: domain.TicketStatusOpen}, domain.StateOpenUnassigned},
		{"open with mentor", domain.Ticket{Status: domain.TicketStatusOpen, MentorID: &mentorID}, domain.StateOpenAssigned},
		{"closed", domain.Ticket{Status: domain.TicketStatusClosed}, domain.StateClosed},
		{"closed keeps mentor", domain.Ticket{Status: domain.TicketStatusClosed, MentorID: &mentorID}, domain.StateClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ticket.State())
		})
	}
}

func TestAssignedTo(t *testing.T) {
	mentorID := "m1"
	ticket := domain.Ticket{Status: domain.TicketStatusOpen, MentorID: &mentorID}

	assert.True(t, ticket.AssignedTo("m1"))
	assert.False(t, ticket.AssignedTo("m2"))
	assert.False(t, (&domain.Ticket{}).AssignedTo("m1"))
}

func TestFilterCategories(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"all valid", []string{"Go", "Backend"}, []string{"Go", "Backend"}},
		{"unknown dropped", []string{"Go", "Fortran"}, []string{"Go"}},
		{"duplicates dropped", []string{"Go", "Go", "SQL"}, []string{"Go", "SQL"}},
		{"case sensitive", []string{"go", "GO", "Go"}, []string{"Go"}},
		{"slash tags survive", []string{"HTML/CSS", "AI/ML", "CI/CD"}, []string{"HTML/CSS", "AI/ML", "CI/CD"}},
		{"empty input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FilterCategories(tt.in))
		})
	}
}
