package service

import (
	"context"
	"errors"
	"time"

	"github.com/hackdesk/helpdesk-service/internal/auth"
	"github.com/hackdesk/helpdesk-service/internal/config"
	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/repository"
)

// AuthService coordinates registration and login flows for requesters and
// mentors.
type AuthService struct {
	users      repository.UserRepository
	mentors    repository.MentorRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	MentorRepo repository.MentorRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		mentors:    deps.MentorRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterUser creates a new requester account.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, domain.ErrEmailAlreadyInUse
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// LoginUser authenticates a requester.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", time.Time{}, domain.ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, domain.ErrAccountDeactivated
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, domain.SubjectTypeUser, nil)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// CreateMentor provisions a mentor account. Handlers gate this behind the
// admin role.
func (s *AuthService) CreateMentor(ctx context.Context, name, email, password string, role domain.MentorRole) (*domain.Mentor, error) {
	if _, err := s.mentors.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailAlreadyInUse
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	mentor := &domain.Mentor{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.mentors.Create(ctx, mentor); err != nil {
		return nil, err
	}
	return mentor, nil
}

// LoginMentor authenticates a mentor and returns a role-bearing token.
func (s *AuthService) LoginMentor(ctx context.Context, email, password string) (*domain.Mentor, string, time.Time, error) {
	mentor, err := s.mentors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", time.Time{}, domain.ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !mentor.Active {
		return nil, "", time.Time{}, domain.ErrAccountDeactivated
	}
	if err := auth.ComparePassword(mentor.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, domain.ErrInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(mentor.ID, domain.SubjectTypeMentor, &mentor.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return mentor, token, exp, nil
}

// ChangeMentorPassword rotates a mentor's password after verifying the
// current one.
func (s *AuthService) ChangeMentorPassword(ctx context.Context, mentorID, current, next string) error {
	mentor, err := s.mentors.GetByID(ctx, mentorID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(mentor.PasswordHash, current); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.mentors.UpdatePassword(ctx, mentorID, hash)
}
