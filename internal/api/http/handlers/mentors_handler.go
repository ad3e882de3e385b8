package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/helpdesk-service/internal/api/dto"
	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/service"
	apperrors "github.com/hackdesk/helpdesk-service/pkg/errorutil"
)

// MentorsHandler serves mentor account endpoints.
type MentorsHandler struct {
	auth *service.AuthService
}

// NewMentorsHandler constructs handler.
func NewMentorsHandler(auth *service.AuthService) *MentorsHandler {
	return &MentorsHandler{auth: auth}
}

// Login POST /auth/mentors/login.
func (h *MentorsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	mentor, token, exp, err := h.auth.LoginMentor(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		SubjectID: mentor.ID,
		Name:      mentor.Name,
	}})
}

// Create POST /admin/mentors. Restricted to admins by the router.
func (h *MentorsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMentorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password are required", nil)
	}
	role := req.Role
	if role == "" {
		role = domain.MentorRoleMentor
	}
	if role != domain.MentorRoleMentor && role != domain.MentorRoleAdmin {
		return apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	mentor, err := h.auth.CreateMentor(c.UserContext(), req.Name, req.Email, req.Password, role)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":    mentor.ID,
		"name":  mentor.Name,
		"email": mentor.Email,
		"role":  mentor.Role,
	}})
}

// ChangePassword POST /mentor/password.
func (h *MentorsHandler) ChangePassword(c *fiber.Ctx) error {
	mentor, err := mentorPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.NewPassword == "" {
		return apperrors.NewValidationError("new_password is required", nil)
	}

	if err := h.auth.ChangeMentorPassword(c.UserContext(), mentor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"updated": true}})
}
