package domain

import "time"

// MentorRole enumerates staff operator roles.
type MentorRole string

const (
	MentorRoleMentor MentorRole = "MENTOR"
	MentorRoleAdmin  MentorRole = "ADMIN"
)

// Mentor models a staff member who claims and resolves tickets.
type Mentor struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         MentorRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
