package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// RequireUser ensures a requester is authenticated.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeUser || principal.User == nil {
			return fiber.NewError(http.StatusForbidden, "requester account required")
		}
		return c.Next()
	}
}

// RequireMentorRole ensures the mentor principal has one of the allowed roles.
func RequireMentorRole(allowed ...domain.MentorRole) fiber.Handler {
	allowedSet := make(map[domain.MentorRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeMentor || principal.Mentor == nil {
			return fiber.NewError(http.StatusForbidden, "mentor role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Mentor.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyPrincipal ensures the caller is authenticated (user or mentor).
func RequireAnyPrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}
