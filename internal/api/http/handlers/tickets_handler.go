package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/helpdesk-service/internal/api/dto"
	"github.com/hackdesk/helpdesk-service/internal/auth"
	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/service"
	apperrors "github.com/hackdesk/helpdesk-service/pkg/errorutil"
)

// TicketsHandler serves the requester-facing ticket endpoints.
type TicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(lifecycle *service.LifecycleService) *TicketsHandler {
	return &TicketsHandler{lifecycle: lifecycle}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description are required", nil)
	}

	ticket, notifications, err := h.lifecycle.CreateTicket(c.UserContext(), service.CreateTicketInput{
		RequesterID:   user.ID,
		RequesterName: user.Name,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		Categories:    req.Categories,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.TicketMutationResponse{
		Ticket:        dto.FromTicket(ticket),
		Notifications: notifications,
	}})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.lifecycle.ListTicketsForRequester(c.UserContext(), user.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.lifecycle.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	if ticket.RequesterID != user.ID {
		return apperrors.NewForbidden("you can only view your own tickets")
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	user, err := userPrincipal(c)
	if err != nil {
		return err
	}
	ticket, notifications, err := h.lifecycle.Close(c.UserContext(), c.Params("id"), user.ID, user.Name)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TicketMutationResponse{
		Ticket:        dto.FromTicket(ticket),
		Notifications: notifications,
	}})
}

func userPrincipal(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "requester account required")
	}
	return principal.User, nil
}
