package setup

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/agenda/internal/auth"
	"github.com/example/agenda/internal/logger"
	"github.com/example/agenda/internal/models"
	"github.com/example/agenda/internal/repository"
	"github.com/example/agenda/internal/utils"
)

// Request carries the profile fields submitted at first login.
type Request struct {
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"omitempty,email"`
	RolePassword string `json:"role_password"`
}

// Result reports the role granted by a completed setup.
type Result struct {
	Role      models.Role `json:"role"`
	EventName string      `json:"event_name,omitempty"`
}

// Service finalizes a user's profile and assigns their role once.
type Service interface {
	CompleteSetup(ctx context.Context, userID uuid.UUID, req *Request) (*Result, error)
}

type service struct {
	adminPassword string
	userRepo      repository.UserRepository
	eventRepo     repository.EventRepository
}

// NewService constructs the role/setup resolver.
func NewService(adminPassword string, userRepo repository.UserRepository, eventRepo repository.EventRepository) Service {
	return &service{
		adminPassword: adminPassword,
		userRepo:      userRepo,
		eventRepo:     eventRepo,
	}
}

// CompleteSetup validates the submitted profile, resolves the role grant,
// and persists everything in a single update. Re-invocation after a
// completed setup is rejected: allowing it would let an already-set-up
// user re-assign their own role.
func (s *service) CompleteSetup(ctx context.Context, userID uuid.UUID, req *Request) (*Result, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("[CompleteSetup] user lookup failed", zap.String("error", err.Error()))
		return nil, auth.ErrSetupFailed
	}
	if user == nil {
		return nil, auth.ErrUnauthenticated
	}
	if user.SetupComplete {
		return nil, auth.ErrSetupComplete
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &auth.ValidationError{Message: "name must be at least 2 characters and email must be valid"}
	}

	role, event, err := s.resolveRoleGrant(ctx, req.RolePassword)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":           req.Name,
		"role":           role,
		"setup_complete": true,
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if event != nil {
		updates["event_id"] = event.ID
	}

	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, auth.ErrEmailInUse
		}
		logger.Error("[CompleteSetup] update failed", zap.String("error", err.Error()))
		return nil, auth.ErrSetupFailed
	}

	result := &Result{Role: role}
	if event != nil {
		result.EventName = event.Name
	}
	return result, nil
}

// resolveRoleGrant checks role-granting secrets in a fixed order: the
// administrator secret wins over any event that happens to share its
// password. An empty password keeps the default client role.
func (s *service) resolveRoleGrant(ctx context.Context, rolePassword string) (models.Role, *models.Event, error) {
	password := strings.TrimSpace(rolePassword)
	if password == "" {
		return models.RoleClient, nil, nil
	}

	if password == s.adminPassword {
		return models.RoleAdmin, nil, nil
	}

	event, err := s.eventRepo.FindActiveByPassword(ctx, password)
	if err != nil {
		logger.Error("[CompleteSetup] event lookup failed", zap.String("error", err.Error()))
		return "", nil, auth.ErrSetupFailed
	}
	if event == nil {
		return "", nil, auth.ErrInvalidRolePassword
	}

	return models.RoleProfessional, event, nil
}
