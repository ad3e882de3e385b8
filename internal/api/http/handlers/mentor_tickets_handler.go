package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/helpdesk-service/internal/api/dto"
	"github.com/hackdesk/helpdesk-service/internal/auth"
	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/service"
	apperrors "github.com/hackdesk/helpdesk-service/pkg/errorutil"
)

// MentorTicketsHandler serves the mentor-facing ticket endpoints.
type MentorTicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewMentorTicketsHandler constructs handler.
func NewMentorTicketsHandler(lifecycle *service.LifecycleService) *MentorTicketsHandler {
	return &MentorTicketsHandler{lifecycle: lifecycle}
}

// ListOpen GET /mentor/tickets/open.
func (h *MentorTicketsHandler) ListOpen(c *fiber.Ctx) error {
	if _, err := mentorPrincipal(c); err != nil {
		return err
	}
	tickets, err := h.lifecycle.ListOpenTickets(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// ListMine GET /mentor/tickets.
func (h *MentorTicketsHandler) ListMine(c *fiber.Ctx) error {
	mentor, err := mentorPrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.lifecycle.ListTicketsForMentor(c.UserContext(), mentor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// ListByCategory GET /mentor/tickets/category/:category.
func (h *MentorTicketsHandler) ListByCategory(c *fiber.Ctx) error {
	if _, err := mentorPrincipal(c); err != nil {
		return err
	}
	category, err := decodeParam(c, "category")
	if err != nil {
		return err
	}
	tickets, err := h.lifecycle.ListTicketsByCategory(c.UserContext(), category)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// Get GET /mentor/tickets/:id.
func (h *MentorTicketsHandler) Get(c *fiber.Ctx) error {
	if _, err := mentorPrincipal(c); err != nil {
		return err
	}
	ticket, err := h.lifecycle.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Claim POST /mentor/tickets/:id/claim.
func (h *MentorTicketsHandler) Claim(c *fiber.Ctx) error {
	mentor, err := mentorPrincipal(c)
	if err != nil {
		return err
	}
	ticket, notifications, err := h.lifecycle.Assign(c.UserContext(), c.Params("id"), mentor.ID, mentor.Name)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TicketMutationResponse{
		Ticket:        dto.FromTicket(ticket),
		Notifications: notifications,
	}})
}

// Reassign POST /mentor/tickets/:id/reassign.
func (h *MentorTicketsHandler) Reassign(c *fiber.Ctx) error {
	mentor, err := mentorPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ReassignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.NewMentorID) == "" {
		return apperrors.NewValidationError("new_mentor_id is required", nil)
	}
	ticket, notifications, err := h.lifecycle.Reassign(c.UserContext(), c.Params("id"), mentor.ID, req.NewMentorID, req.NewMentorName)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TicketMutationResponse{
		Ticket:        dto.FromTicket(ticket),
		Notifications: notifications,
	}})
}

// Release POST /mentor/tickets/:id/release.
func (h *MentorTicketsHandler) Release(c *fiber.Ctx) error {
	mentor, err := mentorPrincipal(c)
	if err != nil {
		return err
	}
	ticket, notifications, err := h.lifecycle.Release(c.UserContext(), c.Params("id"), mentor.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TicketMutationResponse{
		Ticket:        dto.FromTicket(ticket),
		Notifications: notifications,
	}})
}

// Close POST /mentor/tickets/:id/close.
func (h *MentorTicketsHandler) Close(c *fiber.Ctx) error {
	mentor, err := mentorPrincipal(c)
	if err != nil {
		return err
	}
	ticket, notifications, err := h.lifecycle.Close(c.UserContext(), c.Params("id"), mentor.ID, mentor.Name)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TicketMutationResponse{
		Ticket:        dto.FromTicket(ticket),
		Notifications: notifications,
	}})
}

func mentorPrincipal(c *fiber.Ctx) (*domain.Mentor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Mentor == nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "mentor account required")
	}
	return principal.Mentor, nil
}

func decodeParam(c *fiber.Ctx, name string) (string, error) {
	value, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", fiber.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return value, nil
}
